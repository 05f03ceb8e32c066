package config

// HookType represents the type of hook event. The set is open: names not
// listed here are kept wherever they appear.
type HookType string

const (
	HookSessionStart     HookType = "SessionStart"
	HookSessionEnd       HookType = "SessionEnd"
	HookUserPromptSubmit HookType = "UserPromptSubmit"
	HookPreToolUse       HookType = "PreToolUse"
	HookPostToolUse      HookType = "PostToolUse"
	HookNotification     HookType = "Notification"
	HookStop             HookType = "Stop"
	HookSubagentStop     HookType = "SubagentStop"
	HookPreCompact       HookType = "PreCompact"
	HookPostCompact      HookType = "PostCompact"
	HookPreSubagent      HookType = "PreSubagent"
	HookPostSubagent     HookType = "PostSubagent"
)

// AllHookTypes returns the recognized hook types
func AllHookTypes() []HookType {
	return []HookType{
		HookSessionStart,
		HookSessionEnd,
		HookUserPromptSubmit,
		HookPreToolUse,
		HookPostToolUse,
		HookNotification,
		HookStop,
		HookSubagentStop,
		HookPreCompact,
		HookPostCompact,
		HookPreSubagent,
		HookPostSubagent,
	}
}

// IsKnown reports whether t is a recognized hook type
func (t HookType) IsKnown() bool {
	for _, k := range AllHookTypes() {
		if t == k {
			return true
		}
	}
	return false
}

// UsesMatcher reports whether entries for t are grouped by tool matcher
func (t HookType) UsesMatcher() bool {
	return t == HookPreToolUse || t == HookPostToolUse
}

// HookConfig describes a hook component: one script registered for one event.
// It is the format of catalog entries and of hook.yaml in the global directory.
type HookConfig struct {
	// Name is the component name, also the script's base name
	Name string `yaml:"name"`

	// Description is shown in the component picker
	Description string `yaml:"description,omitempty"`

	// Event is the hook event type
	Event HookType `yaml:"event"`

	// Matcher for tool-specific hooks (PreToolUse, PostToolUse)
	Matcher string `yaml:"matcher,omitempty"`

	// Script is the script file name, relative to the component directory
	Script string `yaml:"script"`

	// Interpreter runs the script, e.g. "bash"; empty runs it directly
	Interpreter string `yaml:"interpreter,omitempty"`

	// Timeout in seconds (default: 60)
	Timeout int `yaml:"timeout,omitempty"`

	// Default marks components selected when none are chosen explicitly
	Default bool `yaml:"default,omitempty"`
}

// DefaultHookTimeout returns the default timeout for hooks
func DefaultHookTimeout() int {
	return 60
}

// EffectiveTimeout returns the configured timeout or the default
func (h HookConfig) EffectiveTimeout() int {
	if h.Timeout > 0 {
		return h.Timeout
	}
	return DefaultHookTimeout()
}
