package main

import (
	"testing"

	"github.com/charmbracelet/x/ansi"
	"github.com/mark3labs/persona/internal/tui/testfixtures"
	"github.com/stretchr/testify/assert"
)

func TestQuestionsMarkdown(t *testing.T) {
	md := questionsMarkdown(testfixtures.SampleQuestions())

	assert.Contains(t, md, "# Questions (3)\n")
	assert.Contains(t, md, "## 1. On a free evening you would rather\n\n1. Go to a party\n2. Read a book\n3. Plan next week\n")
	assert.Contains(t, md, "## 3. Which describes your desk best")
	assert.Contains(t, md, "4. Covered in plants\n")
}

func TestHighlightJSON(t *testing.T) {
	src := `{"id": 1, "question": "On a free evening"}`
	out := highlightJSON(src)

	assert.NotEqual(t, src, out, "expected escape sequences")
	assert.Equal(t, src, ansi.Strip(out))
}
