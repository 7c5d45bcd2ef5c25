package main

import (
	"context"
	"os"
	"strings"

	"github.com/charmbracelet/fang"
	"github.com/mark3labs/persona/internal/logger"
	"github.com/mark3labs/persona/internal/tui/theme"
	"github.com/spf13/cobra"
)

const (
	logoText1 = "█▀█ █▀▀ █▀█ █▀ █▀█ █▄ █ ▄▀█"
	logoText2 = "█▀▀ ██▄ █▀▄ ▄█ █▄█ █ ▀█ █▀█"
)

// Version set via ldflags during build
var version = "dev"

func main() {
	// Ensure logger is closed on exit
	defer func() { _ = logger.Close() }()

	if err := fang.Execute(context.Background(), rootCmd, fang.WithVersion(version)); err != nil {
		logger.Error("Command execution failed: %v", err)
		os.Exit(1)
	}
}

var rootCmd = &cobra.Command{
	Use:   "persona",
	Short: "Personality quiz in your terminal",
}

// renderLogo creates the logo with gradient colors
func renderLogo() string {
	t := theme.NewCatppuccinMocha()
	line1 := theme.ApplyGradient(logoText1, t.Primary, t.Secondary)
	line2 := theme.ApplyGradient(logoText2, t.Primary, t.Secondary)
	return strings.Join([]string{line1, line2}, "\n")
}

func init() {
	rootCmd.Long = renderLogo() + `

persona walks you through a short personality quiz: a few personal details,
then one card per question, scored by the quiz backend. Every answer is
journaled to an embedded NATS JetStream stream for the length of the run, and
the result is rendered as markdown when you finish.`

	rootCmd.AddCommand(startCmd)
	rootCmd.AddCommand(questionsCmd)
	rootCmd.AddCommand(setupCmd)
}
