package main

import (
	"context"
	"errors"
	"fmt"
	"os"

	tea "charm.land/bubbletea/v2"
	"github.com/mark3labs/persona/internal/config"
	"github.com/mark3labs/persona/internal/logger"
	"github.com/mark3labs/persona/internal/nats"
	"github.com/mark3labs/persona/internal/quizapi"
	"github.com/mark3labs/persona/internal/result"
	"github.com/mark3labs/persona/internal/session"
	"github.com/mark3labs/persona/internal/template"
	"github.com/mark3labs/persona/internal/tui"
	"github.com/spf13/cobra"
)

var startFlags struct {
	apiURL string
	jumpIn bool
}

var startCmd = &cobra.Command{
	Use:   "start",
	Short: "Take the quiz",
	Long: `Take the personality quiz.

Fill in your name, age and email (or jump right in with defaults), answer each
question and submit. The scored result is shown in the terminal and printed
again once the quiz exits.

Configuration is loaded from multiple sources with the following precedence:
  CLI flags > Environment variables > Project config > Global config > Defaults

Project config: ./persona.yml
Global config: ~/.config/persona/persona.yml`,
	RunE: runStart,
}

func init() {
	startCmd.Flags().StringVar(&startFlags.apiURL, "api-url", "", "Quiz backend URL (default: from config)")
	startCmd.Flags().BoolVarP(&startFlags.jumpIn, "jump-in", "j", false, "Skip the personal details and use defaults")
}

// loadConfig loads and validates the config, applying the --api-url override.
func loadConfig(apiURL string) (*config.Config, error) {
	cfg, err := config.Load()
	if err != nil {
		return nil, fmt.Errorf("failed to load config: %w", err)
	}
	if apiURL != "" {
		cfg.APIURL = apiURL
	}
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid config: %w", err)
	}
	if err := logger.Configure(cfg.LogLevel, cfg.LogFile); err != nil {
		return nil, fmt.Errorf("failed to configure logger: %w", err)
	}
	return cfg, nil
}

// tuning maps the config onto the TUI navigation settings.
func tuning(cfg *config.Config) tui.Tuning {
	return tui.Tuning{
		SettleDuration: cfg.SettleDuration,
		WheelThreshold: cfg.WheelThreshold,
		WheelDebounce:  cfg.WheelDebounce,
		SwipeDistance:  cfg.SwipeDistance,
		TickDelta:      cfg.WheelTickDelta,
		CellHeight:     cfg.CellHeight,
	}
}

func runStart(cmd *cobra.Command, args []string) error {
	cfg, err := loadConfig(startFlags.apiURL)
	if err != nil {
		return err
	}

	tmpl, err := template.GetTemplate(cfg.ResultTemplate)
	if err != nil {
		return fmt.Errorf("failed to load result template: %w", err)
	}

	ctx, cancel := context.WithCancel(cmd.Context())
	defer cancel()

	embedded, err := nats.Start(ctx)
	if err != nil {
		return fmt.Errorf("failed to start session journal: %w", err)
	}
	defer func() {
		if err := embedded.Close(); err != nil {
			fmt.Fprintf(os.Stderr, "Error during shutdown: %v\n", err)
		}
	}()

	store := session.NewStore(embedded.JS, embedded.Stream)
	recorder := session.NewRecorder(store)
	defer recorder.Close()

	var program *tea.Program
	app, err := tui.NewApp(ctx, tui.Config{
		Tuning:   tuning(cfg),
		API:      quizapi.NewClient(cfg.APIURL, cfg.RequestTimeout),
		Journal:  recorder,
		Template: tmpl,
		JumpIn:   startFlags.jumpIn,
		Send: func(msg tea.Msg) {
			if program != nil {
				program.Send(msg)
			}
		},
	})
	if err != nil {
		return fmt.Errorf("failed to create app: %w", err)
	}

	program = tea.NewProgram(app)
	if _, err := program.Run(); err != nil {
		return fmt.Errorf("quiz failed: %w", err)
	}

	name := app.SessionName()
	if name == "" {
		return nil
	}

	// Everything recorded must reach the stream before it is read back
	recorder.Close()

	doc, err := result.Build(ctx, result.BuildConfig{
		SessionName:  name,
		Store:        store,
		TemplatePath: cfg.ResultTemplate,
	})
	if errors.Is(err, result.ErrNoAttempt) {
		fmt.Printf("Session %s ended before the quiz was submitted.\n", name)
		return nil
	}
	if err != nil {
		return fmt.Errorf("failed to build result: %w", err)
	}

	fmt.Println(result.Render(doc, 80))
	if n := recorder.Failed(); n > 0 {
		fmt.Fprintf(os.Stderr, "Warning: %d journal events could not be saved\n", n)
	}
	return nil
}
