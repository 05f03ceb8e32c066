package settings

import (
	"github.com/AmbitiousRealism2025/Atreides-sub000/internal/jsondoc"
)

// HookAction is a single step run when a hook entry fires. Two actions are the
// same when their type and command are equal. Fields other than type and
// command, such as timeout, are carried along unchanged.
type HookAction struct {
	Type    string
	Command string

	// value holds the action as decoded, including unmodelled fields. It is
	// nil for actions built in code and any non-object value for malformed ones.
	value any
}

// NewHookAction returns a command action. A zero timeout is omitted.
func NewHookAction(command string, timeout int) HookAction {
	obj := jsondoc.NewObject()
	obj.Set(keyType, "command")
	obj.Set(keyCommand, command)
	if timeout > 0 {
		obj.Set(keyTimeout, timeout)
	}
	return HookAction{Type: "command", Command: command, value: obj}
}

func parseAction(v any) HookAction {
	a := HookAction{value: v}
	if obj, ok := v.(*jsondoc.Object); ok {
		a.Type, _ = stringField(obj, keyType)
		a.Command, _ = stringField(obj, keyCommand)
	}
	return a
}

// Value returns a fresh JSON value for the action.
func (a HookAction) Value() any {
	if a.value == nil {
		obj := jsondoc.NewObject()
		obj.Set(keyType, a.Type)
		obj.Set(keyCommand, a.Command)
		return obj
	}
	return jsondoc.Clone(a.value)
}

// identity is the dedup key of the action. Actions without a string type and
// command are only equal to structurally identical values.
func (a HookAction) identity() string {
	if a.value == nil {
		return "action\x00" + a.Type + "\x00" + a.Command
	}
	if obj, ok := a.value.(*jsondoc.Object); ok {
		_, hasType := stringField(obj, keyType)
		_, hasCmd := stringField(obj, keyCommand)
		if hasType && hasCmd {
			return "action\x00" + a.Type + "\x00" + a.Command
		}
	}
	return "raw\x00" + compactString(a.value)
}

// HookEntry is one element of an event's hook list. It is one of
// *MatcherEntry, *CommandEntry or *RawEntry.
type HookEntry interface {
	// Value returns a fresh JSON value for the entry.
	Value() any
	isHookEntry()
}

// MatcherEntry groups actions under a tool matcher:
// {"matcher": "Bash", "hooks": [...]}. An entry without a matcher key applies
// to every tool and is written back without one.
type MatcherEntry struct {
	Matcher string
	Hooks   []HookAction

	hasMatcher bool
	fields     *jsondoc.Object
}

// NewMatcherEntry returns a matcher entry holding actions. An empty matcher is
// omitted from the written entry.
func NewMatcherEntry(matcher string, actions ...HookAction) *MatcherEntry {
	return &MatcherEntry{
		Matcher:    matcher,
		Hooks:      append([]HookAction(nil), actions...),
		hasMatcher: matcher != "",
	}
}

// CommandEntry is the simple form {"type": "command", "command": "..."}.
type CommandEntry struct {
	Type    string
	Command string

	fields *jsondoc.Object
}

// RawEntry is an entry of neither form. It is preserved but never merged into.
type RawEntry struct {
	Raw any
}

func (*MatcherEntry) isHookEntry() {}
func (*CommandEntry) isHookEntry() {}
func (*RawEntry) isHookEntry()     {}

// ParseEntry classifies a decoded hook entry.
func ParseEntry(v any) HookEntry {
	obj, ok := v.(*jsondoc.Object)
	if !ok {
		return &RawEntry{Raw: v}
	}

	if hv, ok := obj.Get(keyHooks); ok {
		if arr, ok := hv.([]any); ok {
			m, hasMatcher := obj.Get(keyMatcher)
			matcher, isString := m.(string)
			if hasMatcher && !isString {
				return &RawEntry{Raw: v}
			}
			e := &MatcherEntry{Matcher: matcher, hasMatcher: hasMatcher, fields: obj}
			for _, a := range arr {
				e.Hooks = append(e.Hooks, parseAction(a))
			}
			return e
		}
	}

	t, hasType := stringField(obj, keyType)
	c, hasCmd := stringField(obj, keyCommand)
	if hasType && hasCmd {
		return &CommandEntry{Type: t, Command: c, fields: obj}
	}
	return &RawEntry{Raw: v}
}

// Value writes the entry back in its original key order with the current
// actions.
func (e *MatcherEntry) Value() any {
	out := jsondoc.NewObject()
	actions := make([]any, 0, len(e.Hooks))
	for _, a := range e.Hooks {
		actions = append(actions, a.Value())
	}

	if e.fields == nil {
		if e.hasMatcher {
			out.Set(keyMatcher, e.Matcher)
		}
		out.Set(keyHooks, actions)
		return out
	}
	for _, k := range e.fields.Keys() {
		switch k {
		case keyMatcher:
			out.Set(k, e.Matcher)
		case keyHooks:
			out.Set(k, actions)
		default:
			v, _ := e.fields.Get(k)
			out.Set(k, jsondoc.Clone(v))
		}
	}
	return out
}

// Value returns the entry object.
func (e *CommandEntry) Value() any {
	if e.fields == nil {
		out := jsondoc.NewObject()
		out.Set(keyType, e.Type)
		out.Set(keyCommand, e.Command)
		return out
	}
	out := e.fields.Clone()
	out.Set(keyType, e.Type)
	out.Set(keyCommand, e.Command)
	return out
}

// Value returns a copy of the raw value.
func (e *RawEntry) Value() any {
	return jsondoc.Clone(e.Raw)
}

// addActions appends the actions not yet present and reports how many were
// added.
func (e *MatcherEntry) addActions(actions []HookAction) int {
	seen := make(map[string]bool, len(e.Hooks))
	for _, a := range e.Hooks {
		seen[a.identity()] = true
	}
	added := 0
	for _, a := range actions {
		id := a.identity()
		if seen[id] {
			continue
		}
		seen[id] = true
		e.Hooks = append(e.Hooks, a)
		added++
	}
	return added
}

// MergeHooks merges the incoming hooks object (event type to entry list) into
// the existing one and returns a new object. Neither input is modified.
//
// Entries sharing a matcher are merged into the first existing entry with that
// matcher, simple entries are added unless an identical one exists, and event
// types only the incoming side has are appended in its order. When the
// existing value for an event is not an array it is kept and the incoming
// entries for that event are dropped; the report lists such events.
func MergeHooks(existing, incoming *jsondoc.Object) (*jsondoc.Object, *Report) {
	rep := &Report{}
	e := sanitizedObject(existing, "existing", "", rep)
	n := sanitizedObject(incoming, "new", "", rep)
	return mergeHooks(e, n, "", rep), rep
}

// mergeHooks merges owned, sanitized trees. existing is modified in place.
func mergeHooks(existing, incoming *jsondoc.Object, prefix string, rep *Report) *jsondoc.Object {
	for _, event := range incoming.Keys() {
		nv, _ := incoming.Get(event)
		pointer := prefix + jsondoc.Pointer(event)

		ev, ok := existing.Get(event)
		if !ok {
			existing.Set(event, nv)
			continue
		}
		cur, ok := ev.([]any)
		if !ok {
			rep.skip(pointer, "existing value is not an array; new entries were not merged")
			continue
		}
		add, ok := nv.([]any)
		if !ok {
			rep.skip(pointer, "new value is not an array; existing entries were kept")
			continue
		}
		existing.Set(event, mergeEntries(cur, add))
	}
	return existing
}

func mergeEntries(existing, incoming []any) []any {
	out := append(make([]any, 0, len(existing)+len(incoming)), existing...)
	parsed := make([]HookEntry, 0, cap(out))
	for _, v := range existing {
		parsed = append(parsed, ParseEntry(v))
	}

	for _, v := range incoming {
		switch entry := ParseEntry(v).(type) {
		case *MatcherEntry:
			idx := findMatcher(parsed, entry.Matcher)
			if idx < 0 {
				out = append(out, v)
				parsed = append(parsed, entry)
				continue
			}
			target := parsed[idx].(*MatcherEntry)
			if target.addActions(missingActions(parsed, entry)) > 0 {
				out[idx] = target.Value()
			}
		case *CommandEntry:
			if !hasCommand(parsed, entry) {
				out = append(out, v)
				parsed = append(parsed, entry)
			}
		case *RawEntry:
			if !hasRaw(parsed, entry) {
				out = append(out, v)
				parsed = append(parsed, entry)
			}
		}
	}
	return out
}

func findMatcher(entries []HookEntry, matcher string) int {
	for i, e := range entries {
		if m, ok := e.(*MatcherEntry); ok && m.Matcher == matcher {
			return i
		}
	}
	return -1
}

// missingActions returns the actions of entry that no entry with the same
// matcher carries yet. A matcher may repeat in a list copied verbatim.
func missingActions(entries []HookEntry, entry *MatcherEntry) []HookAction {
	seen := make(map[string]bool)
	for _, e := range entries {
		if m, ok := e.(*MatcherEntry); ok && m.Matcher == entry.Matcher {
			for _, a := range m.Hooks {
				seen[a.identity()] = true
			}
		}
	}
	var missing []HookAction
	for _, a := range entry.Hooks {
		if !seen[a.identity()] {
			missing = append(missing, a)
		}
	}
	return missing
}

func hasCommand(entries []HookEntry, c *CommandEntry) bool {
	for _, e := range entries {
		if x, ok := e.(*CommandEntry); ok && x.Type == c.Type && x.Command == c.Command {
			return true
		}
	}
	return false
}

func hasRaw(entries []HookEntry, r *RawEntry) bool {
	for _, e := range entries {
		if x, ok := e.(*RawEntry); ok && jsondoc.Equal(x.Raw, r.Raw) {
			return true
		}
	}
	return false
}

func stringField(obj *jsondoc.Object, key string) (string, bool) {
	v, ok := obj.Get(key)
	if !ok {
		return "", false
	}
	s, ok := v.(string)
	return s, ok
}

func compactString(v any) string {
	b, err := jsondoc.Compact(v)
	if err != nil {
		return ""
	}
	return string(b)
}
