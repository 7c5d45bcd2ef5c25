// Package result assembles and renders the result document shown after a
// quiz attempt.
package result

import (
	"context"
	"errors"
	"fmt"
	"strconv"
	"strings"
	"time"

	"charm.land/glamour/v2"
	"github.com/aymanbagabas/go-udiff"
	"github.com/charmbracelet/x/ansi"

	"github.com/mark3labs/persona/internal/logger"
	"github.com/mark3labs/persona/internal/quiz"
	"github.com/mark3labs/persona/internal/session"
	"github.com/mark3labs/persona/internal/template"
)

// maxWidth caps the rendered document width for readability.
const maxWidth = 100

// ErrNoAttempt is returned when the session has no scored attempt yet.
var ErrNoAttempt = errors.New("session has no completed attempt")

// StateLoader loads a session's journal state.
type StateLoader interface {
	LoadState(ctx context.Context, session string) (*session.State, error)
}

// BuildConfig holds what is needed to build a result document.
type BuildConfig struct {
	SessionName  string
	Store        StateLoader
	TemplatePath string // Custom template (optional)
	Now          time.Time
}

// Build loads the session, picks its latest attempt and renders the template
// into markdown.
func Build(ctx context.Context, cfg BuildConfig) (string, error) {
	state, err := cfg.Store.LoadState(ctx, cfg.SessionName)
	if err != nil {
		return "", fmt.Errorf("failed to load session state: %w", err)
	}

	tmpl, err := template.GetTemplate(cfg.TemplatePath)
	if err != nil {
		return "", fmt.Errorf("failed to get template: %w", err)
	}

	now := cfg.Now
	if now.IsZero() {
		now = time.Now()
	}
	return Document(state, tmpl, now)
}

// Document renders tmpl for the state's latest attempt.
func Document(state *session.State, tmpl string, now time.Time) (string, error) {
	latest, ok := state.Latest()
	if !ok {
		return "", ErrNoAttempt
	}
	res := latest.Result()

	vars := template.Variables{
		Name:        state.User.DisplayName(),
		Personality: res.TopPersonality.Name,
		Description: res.TopPersonality.Description,
		Breakdown:   template.FormatBreakdown(res),
		History:     template.FormatHistory(state, now),
		Session:     state.Session,
		Attempt:     strconv.Itoa(len(state.Attempts)),
	}
	if prev, ok := state.Previous(); ok {
		vars.Changes = FormatChanges(prev.Result(), res)
	}

	doc := template.Render(tmpl, vars)
	logger.Debug("Result document rendered: %d characters", len(doc))
	return doc, nil
}

// BreakdownDiff returns a unified diff between two score breakdowns, or an
// empty string when they are identical.
func BreakdownDiff(prev, latest quiz.Result) string {
	return udiff.Unified("previous", "latest", breakdownLines(prev), breakdownLines(latest))
}

// FormatChanges wraps BreakdownDiff in a markdown section.
func FormatChanges(prev, latest quiz.Result) string {
	diff := BreakdownDiff(prev, latest)
	if diff == "" {
		return "### Changes Since Last Attempt\n\nSame result as last time.\n"
	}
	return "### Changes Since Last Attempt\n\n```diff\n" + strings.TrimSuffix(diff, "\n") + "\n```\n"
}

func breakdownLines(r quiz.Result) string {
	var sb strings.Builder
	fmt.Fprintf(&sb, "top: %s\n", r.TopPersonality.Name)
	for _, s := range r.SortedScores() {
		fmt.Fprintf(&sb, "%s: %s\n", s.Type, template.FormatScore(s.Value))
	}
	return sb.String()
}

// Render renders markdown for the terminal with glamour. Falls back to the
// raw markdown if rendering fails.
func Render(markdown string, width int) string {
	if width > maxWidth {
		width = maxWidth
	}
	if width < 20 {
		width = 20
	}

	r, err := glamour.NewTermRenderer(
		glamour.WithStandardStyle("dark"),
		glamour.WithWordWrap(width),
	)
	if err != nil {
		logger.Warn("Markdown renderer unavailable: %v", err)
		return markdown
	}

	rendered, err := r.Render(markdown)
	if err != nil {
		logger.Warn("Markdown render failed: %v", err)
		return markdown
	}
	return trimBlankLines(rendered)
}

// trimBlankLines drops the visually empty lines glamour adds around the
// document. Lines made of padding and escape sequences count as empty.
func trimBlankLines(s string) string {
	lines := strings.Split(s, "\n")
	blank := func(line string) bool {
		return strings.TrimSpace(ansi.Strip(line)) == ""
	}
	for len(lines) > 0 && blank(lines[0]) {
		lines = lines[1:]
	}
	for len(lines) > 0 && blank(lines[len(lines)-1]) {
		lines = lines[:len(lines)-1]
	}
	return strings.Join(lines, "\n")
}
