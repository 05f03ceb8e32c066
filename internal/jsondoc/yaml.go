package jsondoc

import (
	"encoding/json"
	"errors"
	"fmt"
	"math"
	"strconv"

	"gopkg.in/yaml.v3"
)

// ParseYAML decodes a YAML document into the same value model Parse produces.
func ParseYAML(data []byte) (any, error) {
	var node yaml.Node
	if err := yaml.Unmarshal(data, &node); err != nil {
		return nil, err
	}
	if node.Kind == 0 {
		return nil, nil
	}
	return FromYAML(&node)
}

// MaxYAMLNodes caps the values FromYAML produces, counting every expansion
// of an alias.
const MaxYAMLNodes = 100000

// ErrTooLarge is returned when a YAML document expands to more than
// MaxYAMLNodes values.
var ErrTooLarge = errors.New("yaml document expands to too many values")

// FromYAML converts a decoded YAML node into ordered JSON values. Mapping keys
// must be scalars and numbers must be finite.
func FromYAML(node *yaml.Node) (any, error) {
	budget := MaxYAMLNodes
	return fromYAML(node, 0, &budget)
}

func fromYAML(node *yaml.Node, depth int, budget *int) (any, error) {
	if node == nil {
		return nil, nil
	}
	if depth >= MaxDepth {
		return nil, ErrTooDeep
	}
	if *budget <= 0 {
		return nil, ErrTooLarge
	}
	*budget--

	switch node.Kind {
	case yaml.DocumentNode:
		if len(node.Content) == 0 {
			return nil, nil
		}
		return fromYAML(node.Content[0], depth, budget)
	case yaml.AliasNode:
		return fromYAML(node.Alias, depth+1, budget)
	case yaml.MappingNode:
		obj := NewObject()
		for i := 0; i+1 < len(node.Content); i += 2 {
			k, v := node.Content[i], node.Content[i+1]
			if k.Kind != yaml.ScalarNode {
				return nil, fmt.Errorf("line %d: mapping key must be a scalar", k.Line)
			}
			val, err := fromYAML(v, depth+1, budget)
			if err != nil {
				return nil, err
			}
			obj.Set(k.Value, val)
		}
		return obj, nil
	case yaml.SequenceNode:
		arr := make([]any, 0, len(node.Content))
		for _, c := range node.Content {
			val, err := fromYAML(c, depth+1, budget)
			if err != nil {
				return nil, err
			}
			arr = append(arr, val)
		}
		return arr, nil
	case yaml.ScalarNode:
		return yamlScalar(node)
	}
	return nil, fmt.Errorf("line %d: unsupported yaml node", node.Line)
}

func yamlScalar(node *yaml.Node) (any, error) {
	switch node.ShortTag() {
	case "!!null":
		return nil, nil
	case "!!bool":
		var b bool
		if err := node.Decode(&b); err != nil {
			return nil, err
		}
		return b, nil
	case "!!int":
		var n int64
		if err := node.Decode(&n); err != nil {
			return nil, err
		}
		return json.Number(strconv.FormatInt(n, 10)), nil
	case "!!float":
		var f float64
		if err := node.Decode(&f); err != nil {
			return nil, err
		}
		if math.IsInf(f, 0) || math.IsNaN(f) {
			return nil, fmt.Errorf("line %d: %q is not a JSON number", node.Line, node.Value)
		}
		return json.Number(strconv.FormatFloat(f, 'g', -1, 64)), nil
	}
	return node.Value, nil
}

// ToYAML converts an ordered JSON value into a YAML node, keeping key order.
// Strings that would read back as another type are quoted.
func ToYAML(v any) *yaml.Node {
	switch t := v.(type) {
	case *Object:
		node := &yaml.Node{Kind: yaml.MappingNode, Tag: "!!map"}
		if t == nil {
			return node
		}
		for _, k := range t.keys {
			node.Content = append(node.Content,
				&yaml.Node{Kind: yaml.ScalarNode, Tag: "!!str", Value: k},
				ToYAML(t.vals[k]))
		}
		return node
	case []any:
		node := &yaml.Node{Kind: yaml.SequenceNode, Tag: "!!seq"}
		for _, e := range t {
			node.Content = append(node.Content, ToYAML(e))
		}
		return node
	case string:
		return &yaml.Node{Kind: yaml.ScalarNode, Tag: "!!str", Value: t}
	case bool:
		return &yaml.Node{Kind: yaml.ScalarNode, Tag: "!!bool", Value: strconv.FormatBool(t)}
	case json.Number:
		tag := "!!int"
		if _, err := t.Int64(); err != nil {
			tag = "!!float"
		}
		return &yaml.Node{Kind: yaml.ScalarNode, Tag: tag, Value: t.String()}
	case nil:
		return &yaml.Node{Kind: yaml.ScalarNode, Tag: "!!null", Value: "null"}
	}
	if obj, ok := AsObject(v); ok {
		return ToYAML(obj)
	}
	if arr, ok := AsArray(v); ok {
		return ToYAML(arr)
	}
	return &yaml.Node{Kind: yaml.ScalarNode, Tag: "!!str", Value: fmt.Sprint(v)}
}
