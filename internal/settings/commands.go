package settings

import (
	"os"
	"path/filepath"
	"regexp"
	"strings"
)

// interpreterPrefixes are stripped from a hook command before looking for the
// script path.
var interpreterPrefixes = []string{
	"bash ", "sh ", "/bin/bash ", "/bin/sh ",
	"node ", "python ", "python3 ", "ruby ",
	"/usr/bin/node ", "/usr/bin/python ", "/usr/bin/python3 ",
}

var quoteStripper = strings.NewReplacer(`"`, "", `'`, "")

var shellConstructs = regexp.MustCompile(`\$\([^)]+\)|` + // $(...) command substitution
	"`[^`]+`") // `...` command substitution

// ScriptPath extracts the interpreter and script file referenced by a hook
// command. $CLAUDE_PROJECT_DIR expands to projectDir; $HOME and ~ expand to the
// user's home. filePath is empty for inline commands.
func ScriptPath(command, projectDir string) (interpreter, filePath string) {
	cmdLower := strings.ToLower(command)
	remaining := command
	for _, prefix := range interpreterPrefixes {
		if strings.HasPrefix(cmdLower, prefix) {
			interpreter = filepath.Base(strings.TrimSpace(prefix))
			remaining = command[len(prefix):]
			break
		}
	}

	if isInlineScript(remaining) {
		return interpreter, ""
	}

	tokens := strings.Fields(remaining)
	if len(tokens) == 0 {
		return interpreter, ""
	}

	path := quoteStripper.Replace(tokens[0])
	path = expandVars(path, projectDir)
	if !strings.Contains(path, "/") && !strings.HasPrefix(path, ".") {
		return interpreter, ""
	}
	if !filepath.IsAbs(path) && projectDir != "" {
		path = filepath.Join(projectDir, path)
	}
	return interpreter, filepath.Clean(path)
}

func expandVars(path, projectDir string) string {
	if projectDir != "" {
		path = strings.ReplaceAll(path, "${CLAUDE_PROJECT_DIR}", projectDir)
		path = strings.ReplaceAll(path, "$CLAUDE_PROJECT_DIR", projectDir)
	}

	home, err := os.UserHomeDir()
	if err != nil {
		return path
	}
	path = strings.ReplaceAll(path, "$HOME", home)
	if strings.HasPrefix(path, "~/") {
		path = filepath.Join(home, path[2:])
	}
	return path
}

// isInlineScript checks if the command is an inline script rather than a file reference
func isInlineScript(command string) bool {
	inlinePatterns := []string{
		"<<", // heredoc
		"; ",
		" && ",
		" || ",
		"echo ",
		"cat ",
		"printf ",
	}

	for _, pattern := range inlinePatterns {
		if strings.Contains(command, pattern) {
			return true
		}
	}

	return shellConstructs.MatchString(command)
}
