package hub

import (
	"fmt"
	"os"
	"path/filepath"
	"sort"

	"gopkg.in/yaml.v3"

	"github.com/AmbitiousRealism2025/Atreides-sub000/internal/config"
	"github.com/AmbitiousRealism2025/Atreides-sub000/internal/errors"
	"github.com/AmbitiousRealism2025/Atreides-sub000/internal/jsondoc"
)

// Fragment is a piece of settings.json kept in the hub: one top-level key and
// its value.
type Fragment struct {
	Name        string    `yaml:"name"`
	Description string    `yaml:"description,omitempty"`
	Key         string    `yaml:"key"`
	Value       yaml.Node `yaml:"value"`
}

// JSONValue converts the fragment value to the ordered JSON model. A missing
// value is null.
func (f *Fragment) JSONValue() (any, error) {
	if f.Value.Kind == 0 {
		return nil, nil
	}
	return jsondoc.FromYAML(&f.Value)
}

// Layer returns the fragment as a settings object {key: value}
func (f *Fragment) Layer() (*jsondoc.Object, error) {
	if f.Key == "" {
		return nil, fmt.Errorf("fragment %q has no key", f.Name)
	}
	if jsondoc.IsDangerousKey(f.Key) {
		return nil, fmt.Errorf("fragment %q uses reserved key %q", f.Name, f.Key)
	}
	v, err := f.JSONValue()
	if err != nil {
		return nil, fmt.Errorf("fragment %q: %w", f.Name, err)
	}
	layer := jsondoc.NewObject()
	layer.Set(f.Key, v)
	return layer, nil
}

// FragmentReader reads setting fragments from the hub
type FragmentReader interface {
	Read(hubDir string, name string) (*Fragment, error)
	ReadAll(hubDir string, names []string) ([]*Fragment, error)
}

// YAMLFragmentReader reads fragments from YAML files
type YAMLFragmentReader struct{}

// NewFragmentReader creates a new YAML fragment reader
func NewFragmentReader() *YAMLFragmentReader {
	return &YAMLFragmentReader{}
}

// Read reads a single fragment by name from fragments/<name>.yaml or .yml
func (r *YAMLFragmentReader) Read(hubDir string, name string) (*Fragment, error) {
	dir := filepath.Join(hubDir, string(config.HubFragments))

	var data []byte
	var err error
	for _, ext := range []string{".yaml", ".yml"} {
		data, err = os.ReadFile(filepath.Join(dir, name+ext))
		if err == nil || !os.IsNotExist(err) {
			break
		}
	}
	if err != nil {
		if os.IsNotExist(err) {
			return nil, errors.NewHubError(string(config.HubFragments), name, "read", errors.ErrHubItemNotFound)
		}
		return nil, err
	}

	var fragment Fragment
	if err := yaml.Unmarshal(data, &fragment); err != nil {
		return nil, errors.NewHubError(string(config.HubFragments), name, "parse", err)
	}
	if fragment.Name == "" {
		fragment.Name = name
	}

	return &fragment, nil
}

// ReadAll reads multiple fragments by name
func (r *YAMLFragmentReader) ReadAll(hubDir string, names []string) ([]*Fragment, error) {
	fragments := make([]*Fragment, 0, len(names))
	for _, name := range names {
		fragment, err := r.Read(hubDir, name)
		if err != nil {
			return nil, err
		}
		fragments = append(fragments, fragment)
	}
	return fragments, nil
}

// MergeFragments layers fragments over base in the given order with
// jsondoc.SafeDeepMerge. Base is not modified.
func MergeFragments(base *jsondoc.Object, fragments []*Fragment) (*jsondoc.Object, error) {
	result := base
	if result == nil {
		result = jsondoc.NewObject()
	}
	result = result.Clone()

	for _, fragment := range fragments {
		layer, err := fragment.Layer()
		if err != nil {
			return nil, err
		}
		result = jsondoc.SafeDeepMerge(result, layer).(*jsondoc.Object)
	}
	return result, nil
}

// MergeFragmentsFromHub reads the named fragments and layers them over base
// in name order
func MergeFragmentsFromHub(reader FragmentReader, hubDir string, base *jsondoc.Object, names []string) (*jsondoc.Object, error) {
	sorted := append([]string(nil), names...)
	sort.Strings(sorted)

	fragments, err := reader.ReadAll(hubDir, sorted)
	if err != nil {
		return nil, err
	}
	return MergeFragments(base, fragments)
}
