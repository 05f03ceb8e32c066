package cmd

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/AmbitiousRealism2025/Atreides-sub000/internal/config"
	"github.com/AmbitiousRealism2025/Atreides-sub000/internal/logging"
	"github.com/AmbitiousRealism2025/Atreides-sub000/internal/ui"
)

var Version = "dev"

var (
	verbose     bool
	projectFlag string
)

var rootCmd = &cobra.Command{
	Use:   "atreides",
	Short: "Claude Code project configuration manager",
	Long: `atreides scaffolds and maintains Claude Code configuration in a project:
.claude/settings.json, hook scripts and CLAUDE.md. Updates merge new hooks and
permissions into your settings without losing your own changes.`,
	Version:           Version,
	SilenceUsage:      true,
	SilenceErrors:     true,
	PersistentPreRunE: setupLogging,
	RunE:              runRoot,
}

func setupLogging(cmd *cobra.Command, args []string) error {
	cfg := config.GetConfig()
	logging.Setup(logging.Config{
		Level:   cfg.LogLevel(),
		Verbose: verbose,
		Output:  cmd.ErrOrStderr(),
	})
	return nil
}

func runRoot(cmd *cobra.Command, args []string) error {
	paths, err := config.ResolvePaths()
	if err != nil {
		return cmd.Help()
	}

	if !paths.IsInstalled() {
		out := cmd.OutOrStdout()
		fmt.Fprintln(out, "atreides - Claude Code project configuration")
		fmt.Fprintln(out)
		fmt.Fprintln(out, "Not installed. Get started with:")
		fmt.Fprintln(out)
		fmt.Fprintln(out, "  atreides install   Create ~/.atreides with the built-in components")
		fmt.Fprintln(out, "  atreides init      Set up .claude/ in the current project")
		fmt.Fprintln(out, "  atreides --help    Show all commands")
		return nil
	}

	return cmd.Help()
}

func Execute() {
	if err := rootCmd.Execute(); err != nil {
		ui.Fail(os.Stderr, "%v", err)
		os.Exit(1)
	}
}

func init() {
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "Enable debug logging")
	rootCmd.PersistentFlags().StringVarP(&projectFlag, "project", "C", "", "Project directory (default: git root of the current directory)")
	rootCmd.CompletionOptions.HiddenDefaultCmd = true
}
