package main

import (
	"fmt"
	"os"

	"github.com/charmbracelet/x/editor"
	"github.com/mark3labs/persona/internal/config"
	"github.com/spf13/cobra"
)

var setupFlags struct {
	project bool
	force   bool
	edit    bool
}

var setupCmd = &cobra.Command{
	Use:   "setup",
	Short: "Create persona configuration file",
	Long: `Create a persona configuration file with sensible defaults.

By default, creates a global config at ~/.config/persona/persona.yml.
Use --project to create a project-local config in the current directory.
Use --edit to open the new file in $EDITOR.`,
	RunE: runSetup,
}

func init() {
	setupCmd.Flags().BoolVarP(&setupFlags.project, "project", "p", false, "Create config in current directory instead of global location")
	setupCmd.Flags().BoolVarP(&setupFlags.force, "force", "f", false, "Overwrite existing config file")
	setupCmd.Flags().BoolVarP(&setupFlags.edit, "edit", "e", false, "Open the config in your editor after writing it")
}

func runSetup(cmd *cobra.Command, args []string) error {
	targetPath, err := writeConfig(setupFlags.project, setupFlags.force)
	if err != nil {
		return err
	}

	fmt.Fprintf(cmd.OutOrStdout(), "Config written to: %s\n\n", targetPath)

	if setupFlags.edit {
		if err := openEditor(targetPath); err != nil {
			return err
		}
	}

	fmt.Fprintln(cmd.OutOrStdout(), "Run 'persona start' to take the quiz.")
	return nil
}

// writeConfig writes the default config and returns where it went.
func writeConfig(project, force bool) (string, error) {
	targetPath := config.GlobalPath()
	if project {
		targetPath = config.ProjectPath()
	}

	if !force && fileExists(targetPath) {
		return "", fmt.Errorf("config file already exists at %s\n\nUse --force to overwrite", targetPath)
	}

	var err error
	if project {
		err = config.WriteProject(config.Default())
	} else {
		err = config.WriteGlobal(config.Default())
	}
	if err != nil {
		return "", fmt.Errorf("failed to write config: %w", err)
	}
	return targetPath, nil
}

// openEditor runs $EDITOR on path and checks the result still loads.
func openEditor(path string) error {
	c, err := editor.Command("persona", path)
	if err != nil {
		return fmt.Errorf("failed to find editor: %w", err)
	}
	c.Stdin = os.Stdin
	c.Stdout = os.Stdout
	c.Stderr = os.Stderr
	if err := c.Run(); err != nil {
		return fmt.Errorf("editor failed: %w", err)
	}

	cfg, err := config.Load()
	if err != nil {
		return fmt.Errorf("edited config does not load: %w", err)
	}
	if err := cfg.Validate(); err != nil {
		return fmt.Errorf("edited config is invalid: %w", err)
	}
	return nil
}

// fileExists checks if a file exists (helper for setup command).
func fileExists(path string) bool {
	_, err := os.Stat(path)
	return err == nil
}
