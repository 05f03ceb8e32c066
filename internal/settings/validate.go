package settings

import (
	"fmt"
	"os"
	"strings"

	"github.com/AmbitiousRealism2025/Atreides-sub000/internal/config"
	"github.com/AmbitiousRealism2025/Atreides-sub000/internal/jsondoc"
)

// Severity grades a validation issue.
type Severity int

const (
	SeverityWarning Severity = iota
	SeverityError
)

func (s Severity) String() string {
	if s == SeverityError {
		return "error"
	}
	return "warning"
}

// Issue is one problem found by Validate.
type Issue struct {
	Severity Severity
	Pointer  string
	Message  string
}

func (i Issue) String() string {
	if i.Pointer == "" {
		return fmt.Sprintf("%s: %s", i.Severity, i.Message)
	}
	return fmt.Sprintf("%s: %s: %s", i.Severity, i.Pointer, i.Message)
}

// ValidateOptions controls Validate.
type ValidateOptions struct {
	// ProjectDir resolves relative and $CLAUDE_PROJECT_DIR script paths.
	ProjectDir string
	// CheckScripts reports hook scripts that do not exist.
	CheckScripts bool
}

// HasErrors reports whether any issue is an error.
func HasErrors(issues []Issue) bool {
	for _, i := range issues {
		if i.Severity == SeverityError {
			return true
		}
	}
	return false
}

type validator struct {
	opts   ValidateOptions
	issues []Issue
}

func (v *validator) add(sev Severity, pointer, format string, args ...any) {
	v.issues = append(v.issues, Issue{Severity: sev, Pointer: pointer, Message: fmt.Sprintf(format, args...)})
}

// Validate checks the shape of a settings document. The merge tolerates
// everything reported here; Validate exists to tell the user about it.
func Validate(doc *Document, opts ValidateOptions) []Issue {
	v := &validator{opts: opts}
	root := doc.Object()

	jsondoc.SanitizeFunc(root, func(pointer string) {
		v.add(SeverityError, pointer, "reserved key name is not allowed")
	})

	if hv, ok := root.Get(keyHooks); ok {
		v.hooks(hv)
	}
	if pv, ok := root.Get(keyPermissions); ok {
		v.permissions(pv)
	}
	return v.issues
}

func (v *validator) hooks(hv any) {
	base := jsondoc.Pointer(keyHooks)
	hooks, ok := hv.(*jsondoc.Object)
	if !ok {
		v.add(SeverityError, base, "hooks must be an object")
		return
	}

	for _, event := range hooks.Keys() {
		if jsondoc.IsDangerousKey(event) {
			continue
		}
		pointer := base + jsondoc.Pointer(event)
		if !config.HookType(event).IsKnown() {
			v.add(SeverityWarning, pointer, "unknown hook event %q", event)
		}

		ev, _ := hooks.Get(event)
		list, ok := ev.([]any)
		if !ok {
			v.add(SeverityError, pointer, "hook entries must be an array")
			continue
		}

		matchers := make(map[string]bool)
		for i, raw := range list {
			entryPointer := fmt.Sprintf("%s/%d", pointer, i)
			switch e := ParseEntry(raw).(type) {
			case *MatcherEntry:
				if matchers[e.Matcher] {
					v.add(SeverityWarning, entryPointer, "matcher %q appears more than once", e.Matcher)
				}
				matchers[e.Matcher] = true
				for j, a := range e.Hooks {
					v.action(a, fmt.Sprintf("%s/hooks/%d", entryPointer, j))
				}
			case *CommandEntry:
				v.action(HookAction{Type: e.Type, Command: e.Command}, entryPointer)
			case *RawEntry:
				v.add(SeverityError, entryPointer, "hook entry needs either matcher and hooks or type and command")
			}
		}
	}
}

func (v *validator) action(a HookAction, pointer string) {
	if a.value != nil {
		obj, ok := a.value.(*jsondoc.Object)
		if !ok {
			v.add(SeverityError, pointer, "hook action must be an object")
			return
		}
		if _, ok := stringField(obj, keyType); !ok {
			v.add(SeverityError, pointer, "hook action is missing a string type")
			return
		}
	}

	switch a.Type {
	case "command":
		if strings.TrimSpace(a.Command) == "" {
			v.add(SeverityError, pointer, "command hook has an empty command")
			return
		}
		v.script(a.Command, pointer)
	case "prompt":
	default:
		v.add(SeverityWarning, pointer, "unknown hook action type %q", a.Type)
	}
}

func (v *validator) script(command, pointer string) {
	if !v.opts.CheckScripts {
		return
	}
	_, path := ScriptPath(command, v.opts.ProjectDir)
	if path == "" || strings.Contains(path, "$") {
		return
	}
	if _, err := os.Stat(path); err != nil {
		v.add(SeverityWarning, pointer, "hook script %s not found", path)
	}
}

func (v *validator) permissions(pv any) {
	base := jsondoc.Pointer(keyPermissions)
	perms, ok := pv.(*jsondoc.Object)
	if !ok {
		v.add(SeverityError, base, "permissions must be an object")
		return
	}

	lists := make(map[string]map[string]bool)
	var allowed []string
	for _, name := range PermissionLists {
		lv, ok := perms.Get(name)
		if !ok {
			continue
		}
		pointer := base + jsondoc.Pointer(name)
		arr, ok := lv.([]any)
		if !ok {
			v.add(SeverityError, pointer, "%s must be an array of strings", name)
			continue
		}
		seen := make(map[string]bool)
		for i, r := range arr {
			s, ok := r.(string)
			if !ok {
				v.add(SeverityError, fmt.Sprintf("%s/%d", pointer, i), "permission rule must be a string")
				continue
			}
			if seen[s] {
				v.add(SeverityWarning, fmt.Sprintf("%s/%d", pointer, i), "duplicate rule %q", s)
				continue
			}
			seen[s] = true
			if name == "allow" {
				allowed = append(allowed, s)
			}
		}
		lists[name] = seen
	}

	for _, rule := range allowed {
		if lists["deny"][rule] {
			v.add(SeverityWarning, base, "rule %q is both allowed and denied", rule)
		}
	}
}
