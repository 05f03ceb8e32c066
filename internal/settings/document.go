// Package settings models the assistant's settings.json and reconciles a newly
// generated document with a user's existing one.
package settings

import (
	"fmt"

	"github.com/AmbitiousRealism2025/Atreides-sub000/internal/config"
	"github.com/AmbitiousRealism2025/Atreides-sub000/internal/jsondoc"
)

const (
	keyHooks       = "hooks"
	keyPermissions = "permissions"
	keyMatcher     = "matcher"
	keyType        = "type"
	keyCommand     = "command"
	keyTimeout     = "timeout"
)

// Document is a settings.json document. Keys this package does not model are
// kept as-is and written back in their original order.
type Document struct {
	root *jsondoc.Object
}

// NewDocument returns an empty document.
func NewDocument() *Document {
	return &Document{root: jsondoc.NewObject()}
}

// FromObject wraps obj without copying it.
func FromObject(obj *jsondoc.Object) *Document {
	if obj == nil {
		obj = jsondoc.NewObject()
	}
	return &Document{root: obj}
}

// Parse decodes a settings document. The top-level value must be an object.
func Parse(data []byte) (*Document, error) {
	obj, err := jsondoc.ParseObject(data)
	if err != nil {
		return nil, fmt.Errorf("failed to parse settings: %w", err)
	}
	return &Document{root: obj}, nil
}

// Object returns the underlying root object.
func (d *Document) Object() *jsondoc.Object {
	if d == nil || d.root == nil {
		return jsondoc.NewObject()
	}
	return d.root
}

// Clone returns a deep copy of d.
func (d *Document) Clone() *Document {
	return &Document{root: d.Object().Clone()}
}

// Marshal encodes d with two-space indentation and a trailing newline.
func (d *Document) Marshal() ([]byte, error) {
	return jsondoc.Marshal(d.Object())
}

// Get returns a top-level value.
func (d *Document) Get(key string) (any, bool) {
	return d.Object().Get(key)
}

// Set stores a top-level value.
func (d *Document) Set(key string, v any) {
	if d.root == nil {
		d.root = jsondoc.NewObject()
	}
	d.root.Set(key, v)
}

// HookEvents returns the event types present under hooks, in document order.
func (d *Document) HookEvents() []config.HookType {
	hooks, ok := jsondoc.AsObject(d.hooksValue())
	if !ok {
		return nil
	}
	var events []config.HookType
	for _, k := range hooks.Keys() {
		events = append(events, config.HookType(k))
	}
	return events
}

// Entries returns the parsed hook entries registered for event. The second
// result is false when the event is absent or its value is not an array.
func (d *Document) Entries(event config.HookType) ([]HookEntry, bool) {
	hooks, ok := jsondoc.AsObject(d.hooksValue())
	if !ok {
		return nil, false
	}
	v, ok := hooks.Get(string(event))
	if !ok {
		return nil, false
	}
	arr, ok := jsondoc.AsArray(v)
	if !ok {
		return nil, false
	}
	entries := make([]HookEntry, 0, len(arr))
	for _, e := range arr {
		entries = append(entries, ParseEntry(e))
	}
	return entries, true
}

// AddHook registers action for event under matcher, merging into an existing
// entry with the same matcher. An empty matcher matches every tool.
func (d *Document) AddHook(event config.HookType, matcher string, action HookAction) {
	incoming := jsondoc.NewObject()
	incoming.Set(string(event), []any{NewMatcherEntry(matcher, action).Value()})

	root := d.Object()
	if existing, ok := root.Get(keyHooks); ok {
		if hooks, ok := existing.(*jsondoc.Object); ok {
			d.Set(keyHooks, mergeHooks(hooks, incoming, "/"+keyHooks, &Report{}))
			return
		}
	}
	d.Set(keyHooks, incoming)
}

// Permissions returns the string rules of the permissions object. Non-string
// rules are left out.
func (d *Document) Permissions() PermissionRuleSet {
	v, _ := d.Object().Get(keyPermissions)
	perms, ok := jsondoc.AsObject(v)
	if !ok {
		return PermissionRuleSet{}
	}
	return PermissionRuleSet{
		Allow: stringRules(perms, "allow"),
		Deny:  stringRules(perms, "deny"),
		Ask:   stringRules(perms, "ask"),
	}
}

func stringRules(perms *jsondoc.Object, list string) []string {
	v, _ := perms.Get(list)
	arr, _ := jsondoc.AsArray(v)
	var rules []string
	for _, e := range arr {
		if s, ok := e.(string); ok {
			rules = append(rules, s)
		}
	}
	return rules
}

func (d *Document) hooksValue() any {
	v, _ := d.Object().Get(keyHooks)
	return v
}
