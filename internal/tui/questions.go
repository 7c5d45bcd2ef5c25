package tui

import (
	"fmt"
	"strings"
	"time"

	"charm.land/bubbles/v2/viewport"
	tea "charm.land/bubbletea/v2"
	"charm.land/lipgloss/v2"
	uv "github.com/charmbracelet/ultraviolet"
	"github.com/mark3labs/persona/internal/navigator"
	"github.com/mark3labs/persona/internal/progress"
	"github.com/mark3labs/persona/internal/quiz"
	"github.com/mark3labs/persona/internal/quizapi"
	"github.com/mark3labs/persona/internal/tui/input"
	"github.com/mark3labs/persona/internal/tui/theme"
)

const (
	scrollInterval = 16 * time.Millisecond
	cardGap        = 1 // Blank rows between cards
	flowHeader     = 3 // Question counter, progress bar, blank row
	flowFooter     = 2 // Blank row, hints
	maxCardWidth   = 72
	submitLabel    = "Submit"
)

// scrollFrameMsg advances the scroll animation.
type scrollFrameMsg struct{}

// SubmitRequestedMsg is sent when the submit card is activated.
type SubmitRequestedMsg struct{}

// QuestionFlowConfig configures a QuestionFlow.
type QuestionFlowConfig struct {
	Tuning
	Questions []quiz.Question
	Answers   quiz.Answers // Answers already given, may be nil

	// OnAnswer runs synchronously whenever an option is chosen.
	OnAnswer func(questionID, optionID int)

	Clock navigator.Clock  // Nil uses the real clock
	Now   func() time.Time // Animation clock; nil uses time.Now
}

// QuestionFlow renders the questions as stacked cards in a scrolling
// viewport, followed by a submit card. A navigator with one step per card
// decides which card is active; the viewport eases to centre it.
type QuestionFlow struct {
	questions []quiz.Question
	answers   quiz.Answers
	cursors   []int // Option cursor per question
	onAnswer  func(questionID, optionID int)

	nav      *navigator.Navigator
	input    *input.Adapter
	viewport viewport.Model
	now      func() time.Time
	settle   time.Duration

	sections      []progress.Section
	contentHeight int
	offset        int
	scroll        progress.Tween
	scrolling     bool
	shown         int
	snap          progress.Snapshot

	width  int
	height int
}

// NewQuestionFlow creates a flow over cfg.Questions.
func NewQuestionFlow(cfg QuestionFlowConfig) (*QuestionFlow, error) {
	if len(cfg.Questions) == 0 {
		return nil, quizapi.ErrNoQuestions
	}

	var opts []navigator.Option
	opts = append(opts, navigator.WithName("questions"))
	if cfg.Clock != nil {
		opts = append(opts, navigator.WithClock(cfg.Clock))
	}
	nav, err := navigator.New(navigator.Config{
		Steps:          len(cfg.Questions) + 1,
		SettleDuration: cfg.SettleDuration,
		WheelThreshold: cfg.WheelThreshold,
		WheelDebounce:  cfg.WheelDebounce,
		SwipeDistance:  cfg.SwipeDistance,
	}, opts...)
	if err != nil {
		return nil, fmt.Errorf("create question navigator: %w", err)
	}

	dispatcher := navigator.NewDispatcher()
	nav.Attach(dispatcher)

	f := &QuestionFlow{
		questions: cfg.Questions,
		answers:   cfg.Answers.Clone(),
		cursors:   make([]int, len(cfg.Questions)),
		onAnswer:  cfg.OnAnswer,
		nav:       nav,
		input:     input.NewAdapter(dispatcher, cfg.TickDelta, cfg.CellHeight),
		viewport:  viewport.New(viewport.WithWidth(80), viewport.WithHeight(20)),
		now:       cfg.Now,
		settle:    nav.Config().SettleDuration,
		snap:      progress.Snapshot{Active: -1},
	}
	if f.now == nil {
		f.now = time.Now
	}

	// Start each cursor on the chosen option
	for i, q := range f.questions {
		chosen, ok := f.answers.Chosen(q.ID)
		if !ok {
			continue
		}
		for j, o := range q.Options {
			if o.ID == chosen {
				f.cursors[i] = j
			}
		}
	}

	f.SetSize(80, 24)
	return f, nil
}

// Close stops the navigator's timers and input subscriptions.
func (f *QuestionFlow) Close() {
	f.nav.Close()
}

// SetSize updates the flow dimensions and recentres the active card.
func (f *QuestionFlow) SetSize(width, height int) {
	f.width = width
	f.height = height
	f.viewport.SetWidth(width)
	f.viewport.SetHeight(max(3, height-flowHeader-flowFooter))
	f.render()
	if !f.scrolling {
		f.setOffset(progress.CenterOffset(f.viewportState(), f.sections[f.shown]))
	}
}

// Update handles messages for the flow.
func (f *QuestionFlow) Update(msg tea.Msg) tea.Cmd {
	switch msg := msg.(type) {
	case scrollFrameMsg:
		if !f.scrolling {
			return nil
		}
		now := f.now()
		f.setOffset(f.scroll.At(now))
		if f.scroll.Done(now) {
			f.scrolling = false
			return nil
		}
		return scrollTick()

	case tea.KeyPressMsg:
		return f.handleKey(msg)

	case tea.MouseWheelMsg, tea.MouseClickMsg, tea.MouseReleaseMsg:
		f.input.Handle(msg, false)
		return f.afterNavigation()
	}
	return nil
}

func (f *QuestionFlow) handleKey(msg tea.KeyPressMsg) tea.Cmd {
	step := f.nav.Current()
	key := msg.String()

	switch key {
	case "tab":
		f.moveCursor(step, 1)
		return nil
	case "shift+tab":
		f.moveCursor(step, -1)
		return nil
	case "enter", "space":
		if step == f.SubmitStep() {
			return func() tea.Msg { return SubmitRequestedMsg{} }
		}
		return f.choose(step, f.cursors[step])
	case "home":
		f.nav.JumpTo(0)
		return f.afterNavigation()
	case "end":
		f.nav.JumpTo(f.SubmitStep())
		return f.afterNavigation()
	}

	if len(key) == 1 && key[0] >= '1' && key[0] <= '9' {
		return f.choose(step, int(key[0]-'1'))
	}

	if handled, _ := f.input.Handle(msg, false); handled {
		return f.afterNavigation()
	}
	return nil
}

func (f *QuestionFlow) moveCursor(step, dir int) {
	if step >= len(f.questions) {
		return
	}
	n := len(f.questions[step].Options)
	if n == 0 {
		return
	}
	f.cursors[step] = (f.cursors[step] + dir + n) % n
	f.render()
}

// choose records option idx of question step and moves to the next card.
func (f *QuestionFlow) choose(step, idx int) tea.Cmd {
	if step >= len(f.questions) {
		return nil
	}
	q := f.questions[step]
	if idx < 0 || idx >= len(q.Options) {
		return nil
	}
	opt := q.Options[idx]
	f.cursors[step] = idx
	f.answers.Select(q.ID, opt.ID)
	if f.onAnswer != nil {
		f.onAnswer(q.ID, opt.ID)
	}
	f.render()

	f.nav.Advance()
	return f.afterNavigation()
}

// Submit returns the answers when every question has one. Otherwise it
// jumps to the first unanswered question and reports false.
func (f *QuestionFlow) Submit() (quiz.Answers, tea.Cmd, bool) {
	if i, ok := f.answers.FirstUnanswered(f.questions); ok {
		f.nav.JumpTo(i)
		return nil, f.afterNavigation(), false
	}
	return f.answers.Clone(), nil, true
}

// afterNavigation starts the scroll animation when the active card changed.
func (f *QuestionFlow) afterNavigation() tea.Cmd {
	cur := f.nav.Current()
	if cur == f.shown {
		return nil
	}
	f.shown = cur
	f.render()

	f.scroll = progress.Tween{
		From:     f.offset,
		To:       progress.CenterOffset(f.viewportState(), f.sections[cur]),
		Start:    f.now(),
		Duration: f.settle,
	}
	f.scrolling = true
	return scrollTick()
}

func scrollTick() tea.Cmd {
	return tea.Tick(scrollInterval, func(time.Time) tea.Msg {
		return scrollFrameMsg{}
	})
}

func (f *QuestionFlow) viewportState() progress.Viewport {
	return progress.Viewport{
		Offset:        f.offset,
		Height:        f.viewport.Height(),
		ContentHeight: f.contentHeight,
	}
}

// setOffset scrolls the viewport and refreshes the progress snapshot.
func (f *QuestionFlow) setOffset(offset int) {
	v := f.viewportState()
	f.offset = max(0, min(offset, v.MaxOffset()))
	f.viewport.SetYOffset(f.offset)
	f.snap = progress.Compute(f.viewportState(), f.sections, f.snap)
}

// render rebuilds the card document and its section geometry.
func (f *QuestionFlow) render() {
	cardWidth := min(maxCardWidth, max(20, f.width-4))

	cards := make([]string, 0, len(f.questions)+1)
	for i := range f.questions {
		cards = append(cards, f.renderCard(i, cardWidth))
	}
	cards = append(cards, f.renderSubmitCard(cardWidth))

	// Half a viewport of padding on both ends lets every card reach the centre
	pad := f.viewport.Height() / 2

	f.sections = f.sections[:0]
	var doc strings.Builder
	doc.WriteString(strings.Repeat("\n", pad))
	top := pad
	for i, card := range cards {
		if i > 0 {
			doc.WriteString(strings.Repeat("\n", cardGap+1))
			top += cardGap
		}
		card = lipgloss.PlaceHorizontal(f.width, lipgloss.Center, card)
		h := lipgloss.Height(card)
		label := submitLabel
		if i < len(f.questions) {
			label = f.questions[i].Text
		}
		f.sections = append(f.sections, progress.Section{Top: top, Height: h, Label: label})
		doc.WriteString(card)
		top += h
	}
	doc.WriteString(strings.Repeat("\n", pad))
	f.contentHeight = top + pad

	f.viewport.SetContent(doc.String())
	f.setOffset(f.offset)
}

func (f *QuestionFlow) renderCard(i, width int) string {
	s := theme.Current().S()
	q := f.questions[i]
	active := i == f.shown

	var b strings.Builder
	b.WriteString(s.ModalTitle.Render(fmt.Sprintf("%d. %s", i+1, q.Text)))
	b.WriteString("\n")

	chosen, answered := f.answers.Chosen(q.ID)
	for j, o := range q.Options {
		marker, style := "○", s.Option
		if answered && o.ID == chosen {
			marker, style = "●", s.OptionSelected
		}
		cursor := "  "
		if active && j == f.cursors[i] {
			cursor = s.OptionCursor.Render("›") + " "
			if !(answered && o.ID == chosen) {
				style = s.OptionCursor
			}
		}
		b.WriteString("\n" + cursor + style.Render(fmt.Sprintf("%s %d. %s", marker, j+1, o.Text)))
	}

	card := s.Card
	if active {
		card = s.CardActive
	}
	return card.Width(width).Render(b.String())
}

func (f *QuestionFlow) renderSubmitCard(width int) string {
	s := theme.Current().S()
	active := f.shown == f.SubmitStep()

	button := s.ButtonNormal.Render("Submit answers")
	if active {
		button = s.ButtonFocused.Render("Submit answers")
	}

	body := lipgloss.JoinVertical(lipgloss.Center,
		s.ModalTitle.Render("All done?"),
		"",
		s.Muted.Render(fmt.Sprintf("%d of %d answered", f.Answered(), len(f.questions))),
		"",
		button,
	)

	card := s.Card
	if active {
		card = s.CardActive
	}
	return card.Width(width).Align(lipgloss.Center).Render(body)
}

// View renders the counter, the overall progress bar, the cards and hints.
func (f *QuestionFlow) View() string {
	s := theme.Current().S()

	counter := s.Highlight.Render(f.Counter())
	if f.snap.Label != "" {
		counter += "  " + s.Muted.Render(f.snap.Label)
	}
	bar := renderBar(max(10, min(maxCardWidth, f.width-10)), f.snap.Overall) + " " +
		s.Muted.Render(formatPercent(f.snap.Overall))

	hints := HintQuestions()
	if f.shown == f.SubmitStep() {
		hints = HintSubmit()
	}

	center := func(str string) string {
		return lipgloss.PlaceHorizontal(f.width, lipgloss.Center, str)
	}
	return strings.Join([]string{
		center(counter),
		center(bar),
		"",
		f.viewport.View(),
		"",
		center(hints),
	}, "\n")
}

// Draw renders the flow into area.
func (f *QuestionFlow) Draw(scr uv.Screen, area uv.Rectangle) *tea.Cursor {
	DrawText(scr, area, f.View())
	return nil
}

// Counter returns "Question X of N" for the current scroll position.
func (f *QuestionFlow) Counter() string {
	n := len(f.questions)
	return fmt.Sprintf("Question %d of %d", progress.QuestionOrdinal(f.snap.Overall, n), n)
}

// Navigator returns the navigator sequencing the cards.
func (f *QuestionFlow) Navigator() *navigator.Navigator {
	return f.nav
}

// Step returns the active card.
func (f *QuestionFlow) Step() int {
	return f.shown
}

// SubmitStep returns the index of the submit card.
func (f *QuestionFlow) SubmitStep() int {
	return len(f.questions)
}

// Cursor returns the option cursor of question step.
func (f *QuestionFlow) Cursor(step int) int {
	return f.cursors[step]
}

// Answers returns a copy of the answers given so far.
func (f *QuestionFlow) Answers() quiz.Answers {
	return f.answers.Clone()
}

// Answered returns how many questions have an answer.
func (f *QuestionFlow) Answered() int {
	return f.answers.Count(f.questions)
}

// Total returns the number of questions.
func (f *QuestionFlow) Total() int {
	return len(f.questions)
}

// Snapshot returns the progress for the current scroll position.
func (f *QuestionFlow) Snapshot() progress.Snapshot {
	return f.snap
}

// Offset returns the scroll offset in rows.
func (f *QuestionFlow) Offset() int {
	return f.offset
}

// Sections returns the card geometry.
func (f *QuestionFlow) Sections() []progress.Section {
	return f.sections
}

// Scrolling reports whether the scroll animation is running.
func (f *QuestionFlow) Scrolling() bool {
	return f.scrolling
}
