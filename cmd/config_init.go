package cmd

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/AmbitiousRealism2025/Atreides-sub000/internal/config"
)

var configInitForce bool

var configInitCmd = &cobra.Command{
	Use:   "init",
	Short: "Generate a default config.toml",
	Long: `Generate a default config.toml in the global directory.

Example config.toml:

  [project]
  dir = ".claude"

  [update]
  backup = true
  keep_backups = 5
  adopt_new_keys = false

  [defaults]
  hooks = ["guard-bash", "protect-secrets", "session-context"]
  permissions = ["read-only", "git", "secrets"]
  fragments = []
  instructions = ["workflow", "testing"]

  [log]
  level = "warn"`,
	Args: cobra.NoArgs,
	RunE: runConfigInit,
}

var configShowCmd = &cobra.Command{
	Use:   "show",
	Short: "Print the effective configuration",
	Args:  cobra.NoArgs,
	RunE:  runConfigShow,
}

func init() {
	configInitCmd.Flags().BoolVar(&configInitForce, "force", false, "Overwrite an existing config.toml")
	configCmd.AddCommand(configInitCmd, configShowCmd)
}

func runConfigInit(cmd *cobra.Command, args []string) error {
	paths, err := config.ResolvePaths()
	if err != nil {
		return err
	}
	out := cmd.OutOrStdout()
	configPath := paths.ConfigPath()

	if fileExists(configPath) && !configInitForce {
		fmt.Fprintf(out, "Config already exists: %s\n", configPath)
		fmt.Fprintln(out, "Edit it directly or use --force to regenerate.")
		return nil
	}

	if err := os.MkdirAll(paths.GlobalDir, 0755); err != nil {
		return err
	}
	if err := config.DefaultConfig().Save(paths.GlobalDir); err != nil {
		return fmt.Errorf("failed to save config: %w", err)
	}

	fmt.Fprintf(out, "Created: %s\n", configPath)
	return nil
}

func runConfigShow(cmd *cobra.Command, args []string) error {
	paths, err := config.ResolvePaths()
	if err != nil {
		return err
	}
	cfg, err := config.LoadConfig(paths.GlobalDir)
	if err != nil {
		return err
	}
	data, err := cfg.Marshal()
	if err != nil {
		return err
	}

	out := cmd.OutOrStdout()
	fmt.Fprintf(out, "# %s\n", paths.ConfigPath())
	_, err = out.Write(data)
	return err
}
