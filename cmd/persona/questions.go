package main

import (
	"bytes"
	"encoding/json"
	"fmt"
	"strings"

	chroma "github.com/alecthomas/chroma/v2"
	"github.com/alecthomas/chroma/v2/formatters"
	"github.com/alecthomas/chroma/v2/lexers"
	"github.com/alecthomas/chroma/v2/styles"
	"github.com/mark3labs/persona/internal/quiz"
	"github.com/mark3labs/persona/internal/quizapi"
	"github.com/mark3labs/persona/internal/result"
	"github.com/spf13/cobra"
)

var questionsFlags struct {
	apiURL string
	json   bool
	plain  bool
}

var questionsCmd = &cobra.Command{
	Use:   "questions",
	Short: "Print the quiz questions",
	Long: `Fetch the questions from the quiz backend and print them.

Questions are rendered as markdown by default. Use --json for the raw payload,
highlighted unless --plain is set.`,
	RunE: runQuestions,
}

func init() {
	questionsCmd.Flags().StringVar(&questionsFlags.apiURL, "api-url", "", "Quiz backend URL (default: from config)")
	questionsCmd.Flags().BoolVar(&questionsFlags.json, "json", false, "Print the questions as JSON")
	questionsCmd.Flags().BoolVar(&questionsFlags.plain, "plain", false, "Disable styling")
}

func runQuestions(cmd *cobra.Command, args []string) error {
	cfg, err := loadConfig(questionsFlags.apiURL)
	if err != nil {
		return err
	}

	client := quizapi.NewClient(cfg.APIURL, cfg.RequestTimeout)
	qs, err := client.Questions(cmd.Context())
	if err != nil {
		return fmt.Errorf("failed to fetch questions: %w", err)
	}

	out := cmd.OutOrStdout()
	if questionsFlags.json {
		data, err := json.MarshalIndent(qs, "", "  ")
		if err != nil {
			return fmt.Errorf("failed to encode questions: %w", err)
		}
		if questionsFlags.plain {
			fmt.Fprintln(out, string(data))
			return nil
		}
		fmt.Fprintln(out, highlightJSON(string(data)))
		return nil
	}

	md := questionsMarkdown(qs)
	if questionsFlags.plain {
		fmt.Fprint(out, md)
		return nil
	}
	fmt.Fprintln(out, result.Render(md, 80))
	return nil
}

// questionsMarkdown lists each question with its numbered options.
func questionsMarkdown(qs []quiz.Question) string {
	var sb strings.Builder
	fmt.Fprintf(&sb, "# Questions (%d)\n", len(qs))
	for i, q := range qs {
		fmt.Fprintf(&sb, "\n## %d. %s\n\n", i+1, q.Text)
		for j, o := range q.Options {
			fmt.Fprintf(&sb, "%d. %s\n", j+1, o.Text)
		}
	}
	return sb.String()
}

// highlightJSON colors source for a true-color terminal. Source is returned
// unchanged when highlighting fails.
func highlightJSON(source string) string {
	lexer := lexers.Get("json")
	if lexer == nil {
		lexer = lexers.Fallback
	}
	lexer = chroma.Coalesce(lexer)

	formatter := formatters.Get("terminal16m")
	if formatter == nil {
		formatter = formatters.Fallback
	}

	style := styles.Get("catppuccin-mocha")
	if style == nil {
		style = styles.Fallback
	}

	iterator, err := lexer.Tokenise(nil, source)
	if err != nil {
		return source
	}

	var buf bytes.Buffer
	if err := formatter.Format(&buf, style, iterator); err != nil {
		return source
	}
	return strings.TrimRight(buf.String(), "\n")
}
