// Package template renders the markdown result document from a
// {{variable}} placeholder template.
package template

import (
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/mark3labs/persona/internal/quiz"
	"github.com/mark3labs/persona/internal/session"
)

// historyLimit caps how many past attempts the history section lists.
const historyLimit = 5

// Variables holds the data to be injected into template placeholders.
type Variables struct {
	Name        string // Display name
	Personality string // Top personality
	Description string // Top personality description
	Breakdown   string // Formatted score table
	Changes     string // Diff against the previous attempt
	History     string // Earlier attempts
	Session     string // Session name
	Attempt     string // Attempt number within the session
}

// Render replaces {{variable}} placeholders in template with actual values.
// Supports the following variables:
// - {{name}} - Display name
// - {{personality}} - Top personality name
// - {{description}} - Top personality description
// - {{breakdown}} - Score breakdown table
// - {{changes}} - Diff against the previous attempt (empty on the first)
// - {{history}} - Earlier attempts (empty on the first)
// - {{session}} - Session name
// - {{attempt}} - Attempt number
func Render(template string, vars Variables) string {
	r := strings.NewReplacer(
		"{{name}}", vars.Name,
		"{{personality}}", vars.Personality,
		"{{description}}", vars.Description,
		"{{breakdown}}", vars.Breakdown,
		"{{changes}}", vars.Changes,
		"{{history}}", vars.History,
		"{{session}}", vars.Session,
		"{{attempt}}", vars.Attempt,
	)
	return r.Replace(template)
}

// LoadFromFile loads a template from a file.
func LoadFromFile(path string) (string, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return "", fmt.Errorf("failed to read template file %s: %w", path, err)
	}
	return string(data), nil
}

// GetTemplate returns the template content.
// If customPath is non-empty, loads from that file.
// Otherwise returns the default embedded template.
func GetTemplate(customPath string) (string, error) {
	if customPath == "" {
		return DefaultTemplate, nil
	}
	return LoadFromFile(customPath)
}

// FormatBreakdown renders scores as a markdown table, highest first.
func FormatBreakdown(r quiz.Result) string {
	scores := r.SortedScores()
	if len(scores) == 0 {
		return ""
	}

	var sb strings.Builder
	sb.WriteString("### Personality Breakdown\n\n")
	sb.WriteString("| Type | Score |\n|---|---|\n")
	for _, s := range scores {
		fmt.Fprintf(&sb, "| %s | %s |\n", s.Type, FormatScore(s.Value))
	}
	return sb.String()
}

// FormatScore prints whole scores without a fraction.
func FormatScore(v float64) string {
	if v == float64(int64(v)) {
		return fmt.Sprintf("%d", int64(v))
	}
	return fmt.Sprintf("%.1f", v)
}

// FormatHistory lists attempts before the latest one, most recent first.
// Returns empty string when there is no earlier attempt.
func FormatHistory(state *session.State, now time.Time) string {
	if len(state.Attempts) < 2 {
		return ""
	}
	earlier := state.Attempts[:len(state.Attempts)-1]
	if len(earlier) > historyLimit {
		earlier = earlier[len(earlier)-historyLimit:]
	}

	var sb strings.Builder
	sb.WriteString("### Earlier Attempts\n")
	for i := len(earlier) - 1; i >= 0; i-- {
		a := earlier[i]
		fmt.Fprintf(&sb, "- %s (%s)\n", a.Personality, formatTimeAgo(now.Sub(a.CompletedAt)))
	}
	return sb.String()
}

// formatTimeAgo formats a duration into a human-readable "time ago" string.
func formatTimeAgo(d time.Duration) string {
	switch {
	case d < time.Minute:
		return "just now"
	case d < time.Hour:
		if mins := int(d.Minutes()); mins != 1 {
			return fmt.Sprintf("%dmin ago", mins)
		}
		return "1min ago"
	case d < 24*time.Hour:
		if hours := int(d.Hours()); hours != 1 {
			return fmt.Sprintf("%dhr ago", hours)
		}
		return "1hr ago"
	default:
		if days := int(d.Hours() / 24); days != 1 {
			return fmt.Sprintf("%d days ago", days)
		}
		return "1 day ago"
	}
}
