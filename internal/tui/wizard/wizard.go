// Package wizard implements the intake form: three slides collecting the
// user's name, age and email, sequenced by a step navigator.
package wizard

import (
	"fmt"
	"math"
	"strings"
	"time"

	tea "charm.land/bubbletea/v2"
	"charm.land/lipgloss/v2"
	"github.com/mark3labs/persona/internal/logger"
	"github.com/mark3labs/persona/internal/navigator"
	"github.com/mark3labs/persona/internal/progress"
	"github.com/mark3labs/persona/internal/quiz"
	"github.com/mark3labs/persona/internal/tui/input"
	"github.com/mark3labs/persona/internal/tui/theme"
)

// Intake steps.
const (
	StepName = iota
	StepAge
	StepEmail
	stepCount
)

var stepLabels = [stepCount]string{"Name", "Age", "Email"}

const frameInterval = 16 * time.Millisecond

type focusArea int

const (
	focusField focusArea = iota
	focusButtons
)

// Config configures an Intake.
type Config struct {
	SettleDuration time.Duration
	WheelThreshold float64
	WheelDebounce  time.Duration
	SwipeDistance  float64
	TickDelta      float64 // Wheel delta per wheel tick
	CellHeight     float64 // Pixels per row for drag swipes

	Clock navigator.Clock  // Nil uses the real clock
	Send  func(tea.Msg)    // Delivers SettledMsg; usually tea.Program.Send
	Now   func() time.Time // Animation clock; nil uses time.Now
}

// Intake is the intake form component.
type Intake struct {
	nav    *navigator.Navigator
	input  *input.Adapter
	fields [stepCount]*Field
	settle time.Duration
	now    func() time.Time

	focus  focusArea
	button int // Focused button while focus is on the button bar

	shown   int // Step currently on screen
	slide   progress.Tween
	sliding bool

	nameShaken      bool  // The blank-name warning was shown once already
	shakes          []int // Steps whose fields must shake after a validator ran
	ageFocusPending bool  // Focus and shake the age field once it settles

	done      bool
	cancelled bool
	user      quiz.User

	width  int
	height int
}

// New creates the intake form on a three-step navigator.
func New(cfg Config) (*Intake, error) {
	m := &Intake{
		now:    cfg.Now,
		width:  80,
		height: 24,
	}
	if m.now == nil {
		m.now = time.Now
	}

	opts := []navigator.Option{
		navigator.WithName("intake"),
		navigator.WithOnSettle(func(step int) {
			if cfg.Send != nil {
				cfg.Send(SettledMsg{Step: step})
			}
		}),
	}
	if cfg.Clock != nil {
		opts = append(opts, navigator.WithClock(cfg.Clock))
	}
	nav, err := navigator.New(navigator.Config{
		Steps:          stepCount,
		SettleDuration: cfg.SettleDuration,
		WheelThreshold: cfg.WheelThreshold,
		WheelDebounce:  cfg.WheelDebounce,
		SwipeDistance:  cfg.SwipeDistance,
	}, opts...)
	if err != nil {
		return nil, fmt.Errorf("create intake navigator: %w", err)
	}
	m.nav = nav
	m.settle = nav.Config().SettleDuration

	dispatcher := navigator.NewDispatcher()
	nav.Attach(dispatcher)
	m.input = input.NewAdapter(dispatcher, cfg.TickDelta, cfg.CellHeight)

	m.fields[StepName] = newField(StepName, "Name,", 64)
	m.fields[StepAge] = newField(StepAge, "Age,", 3)
	m.fields[StepEmail] = newField(StepEmail, "Email,", 254)

	nav.SetValidator(StepName, m.validateName)
	nav.SetValidator(StepAge, m.validateAge)
	return m, nil
}

// Init focuses the name field.
func (m *Intake) Init() tea.Cmd {
	return m.focusField()
}

// Close stops the navigator's timers and input subscriptions.
func (m *Intake) Close() {
	m.nav.Close()
}

// SetSize updates the dimensions of the form.
func (m *Intake) SetSize(width, height int) {
	m.width = width
	m.height = height
	for _, f := range m.fields {
		f.setWidth(min(48, width-16))
	}
}

// Update handles messages for the intake form.
func (m *Intake) Update(msg tea.Msg) tea.Cmd {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.SetSize(msg.Width, msg.Height)
		return nil

	case SettledMsg:
		return m.handleSettled(msg)

	case slideFrameMsg:
		if !m.sliding {
			return nil
		}
		if m.slide.Done(m.now()) {
			m.sliding = false
			return nil
		}
		return slideTick()

	case ShakeMsg:
		if msg.Step < 0 || msg.Step >= stepCount {
			return nil
		}
		return m.fields[msg.Step].handleShake(msg)

	case tea.KeyPressMsg:
		return m.handleKey(msg)

	case tea.MouseWheelMsg, tea.MouseClickMsg, tea.MouseReleaseMsg:
		if m.done {
			return nil
		}
		m.input.Handle(msg, m.textFocused())
		return m.afterNavigation()
	}

	// Cursor blink and other input messages go to the focused field
	if m.focus == focusField && !m.done {
		return m.current().update(msg)
	}
	return nil
}

func (m *Intake) handleKey(msg tea.KeyPressMsg) tea.Cmd {
	switch msg.String() {
	case "ctrl+c":
		m.cancelled = true
		return func() tea.Msg { return CancelledMsg{} }
	case "ctrl+j":
		if m.done {
			return nil
		}
		return m.jumpRightIn()
	}
	if m.done {
		return nil
	}

	if m.focus == focusButtons {
		return m.handleButtonKey(msg)
	}

	switch msg.String() {
	case "tab":
		m.focusButtons(buttonNext)
		return nil
	case "enter":
		return m.submit()
	}

	// Arrow keys belong to the text field while it has focus
	if handled, _ := m.input.Handle(msg, true); handled {
		return m.afterNavigation()
	}
	cmd := m.current().update(msg)
	m.onEdit()
	return cmd
}

func (m *Intake) handleButtonKey(msg tea.KeyPressMsg) tea.Cmd {
	switch msg.String() {
	case "esc":
		return m.focusField()
	case "tab":
		m.cycleButton(1)
		return nil
	case "shift+tab":
		m.cycleButton(-1)
		return nil
	case "enter", "space":
		return m.activate(m.button)
	}

	m.input.Handle(msg, false)
	return m.afterNavigation()
}

// cycleButton moves button focus by dir, skipping disabled buttons.
func (m *Intake) cycleButton(dir int) {
	for i := 0; i < buttonCount; i++ {
		m.button = (m.button + dir + buttonCount) % buttonCount
		if !m.buttonDisabled(m.button) {
			return
		}
	}
}

func (m *Intake) buttonDisabled(b int) bool {
	return b == buttonBack && m.nav.Current() == 0
}

func (m *Intake) activate(b int) tea.Cmd {
	switch b {
	case buttonBack:
		m.nav.Retreat()
		return m.afterNavigation()
	case buttonNext:
		if m.nav.Current() == StepEmail {
			return m.continueIntake()
		}
		m.nav.Advance()
		return m.afterNavigation()
	case buttonJump:
		return m.jumpRightIn()
	}
	return nil
}

// submit handles enter inside a text field.
func (m *Intake) submit() tea.Cmd {
	if m.nav.Current() == StepEmail {
		return m.continueIntake()
	}
	m.nav.Advance()
	return m.afterNavigation()
}

// onEdit refreshes live validation after the focused field changed.
func (m *Intake) onEdit() {
	f := m.current()
	switch f.step {
	case StepAge:
		if quiz.AgeTooHigh(f.Value()) {
			f.err = quiz.ErrInvalidAge.Message
		} else {
			f.err = ""
		}
	case StepEmail:
		f.err = ""
	}
}

// continueIntake finishes the form. An invalid age sends the user back to
// the age slide; an invalid email keeps them here.
func (m *Intake) continueIntake() tea.Cmd {
	age := m.fields[StepAge]
	if _, err := quiz.ValidateAge(age.Value()); err != nil {
		age.err = err.Error()
		if m.nav.JumpTo(StepAge) {
			m.ageFocusPending = true
		}
		return m.afterNavigation()
	}

	email := m.fields[StepEmail]
	if err := quiz.ValidateEmail(email.Value()); err != nil {
		email.err = err.Error()
		return email.shake()
	}
	email.err = ""

	u := m.collect()
	return m.complete(quiz.User{
		Name:  u.DisplayName(),
		Age:   strings.TrimSpace(u.Age),
		Email: strings.TrimSpace(u.Email),
	}, false)
}

func (m *Intake) jumpRightIn() tea.Cmd {
	return m.complete(m.collect().WithDefaults(), true)
}

func (m *Intake) complete(u quiz.User, jumped bool) tea.Cmd {
	m.done = true
	m.user = u
	m.current().blur()
	logger.Info("Intake complete: name=%q jumped=%t", u.Name, jumped)
	return func() tea.Msg {
		return CompleteMsg{User: u, JumpedIn: jumped}
	}
}

func (m *Intake) collect() quiz.User {
	return quiz.User{
		Name:  m.fields[StepName].Value(),
		Age:   m.fields[StepAge].Value(),
		Email: m.fields[StepEmail].Value(),
	}
}

// validateName lets the user through once they have seen the warning.
func (m *Intake) validateName() bool {
	if quiz.ValidateName(m.fields[StepName].Value()) == nil {
		return true
	}
	if m.nameShaken {
		return true
	}
	m.nameShaken = true
	m.shakes = append(m.shakes, StepName)
	return false
}

func (m *Intake) validateAge() bool {
	f := m.fields[StepAge]
	if _, err := quiz.ValidateAge(f.Value()); err != nil {
		f.err = err.Error()
		m.shakes = append(m.shakes, StepAge)
		return false
	}
	f.err = ""
	return true
}

// afterNavigation starts queued shakes and the slide animation when the
// navigator moved to another step.
func (m *Intake) afterNavigation() tea.Cmd {
	var cmds []tea.Cmd
	for _, step := range m.shakes {
		cmds = append(cmds, m.fields[step].shake())
	}
	m.shakes = m.shakes[:0]

	if cur := m.nav.Current(); cur != m.shown {
		cmds = append(cmds, m.startSlide(m.shown, cur))
	}
	return tea.Batch(cmds...)
}

func (m *Intake) startSlide(from, to int) tea.Cmd {
	distance := max(1, m.width/2)
	if to < from {
		distance = -distance
	}
	m.slide = progress.Tween{
		From:     distance,
		To:       0,
		Start:    m.now(),
		Duration: m.settle,
	}
	m.sliding = true

	var focusCmd tea.Cmd
	m.fields[from].blur()
	m.shown = to
	if m.focus == focusField {
		focusCmd = m.fields[to].focus()
	} else if m.buttonDisabled(m.button) {
		m.button = buttonNext
	}
	return tea.Batch(focusCmd, slideTick())
}

func (m *Intake) handleSettled(msg SettledMsg) tea.Cmd {
	// A settle dispatched just before Close can still arrive.
	if m.nav.Closed() {
		return nil
	}
	m.sliding = false
	if m.ageFocusPending && msg.Step == StepAge {
		m.ageFocusPending = false
		return tea.Batch(m.focusField(), m.fields[StepAge].shake())
	}
	return nil
}

func slideTick() tea.Cmd {
	return tea.Tick(frameInterval, func(time.Time) tea.Msg {
		return slideFrameMsg{}
	})
}

func (m *Intake) focusField() tea.Cmd {
	m.focus = focusField
	return m.current().focus()
}

func (m *Intake) focusButtons(b int) {
	m.focus = focusButtons
	m.current().blur()
	m.button = b
}

func (m *Intake) current() *Field {
	return m.fields[m.shown]
}

func (m *Intake) textFocused() bool {
	return m.focus == focusField
}

// Navigator returns the navigator sequencing the slides.
func (m *Intake) Navigator() *navigator.Navigator {
	return m.nav
}

// Step returns the step on screen.
func (m *Intake) Step() int {
	return m.shown
}

// Field returns the field of step.
func (m *Intake) Field(step int) *Field {
	return m.fields[step]
}

// ButtonsFocused reports whether the button bar has focus.
func (m *Intake) ButtonsFocused() bool {
	return m.focus == focusButtons
}

// FocusedButton returns the focused button index, or -1 when a field has focus.
func (m *Intake) FocusedButton() int {
	if m.focus != focusButtons {
		return -1
	}
	return m.button
}

// Sliding reports whether the slide animation is running.
func (m *Intake) Sliding() bool {
	return m.sliding
}

// Done reports whether the form was completed.
func (m *Intake) Done() bool {
	return m.done
}

// User returns the collected user once the form is done.
func (m *Intake) User() quiz.User {
	return m.user
}

// Progress returns the step label and completion percent for the indicator.
func (m *Intake) Progress() (string, float64) {
	step := m.nav.Current()
	return stepLabels[step], progress.StepPercent(step, stepCount)
}

// View renders the intake form.
func (m *Intake) View() string {
	s := theme.Current().S()

	cardWidth := min(60, max(30, m.width-8))
	card := s.ModalContainer.Width(cardWidth).Render(m.current().view())

	margin := (m.width - lipgloss.Width(card)) / 2
	if m.sliding {
		margin += m.slide.At(m.now())
	}
	margin = max(0, min(margin, m.width-1))
	card = lipgloss.NewStyle().MarginLeft(margin).Render(card)

	bar := NewButtonBar(CreateIntakeButtons(m.shown, stepCount, m.FocusedButton()))
	bar.SetWidth(m.width)

	label, percent := m.Progress()
	indicator := renderStepProgress(label, m.nav.Current(), stepCount, percent)

	var hints string
	if m.focus == focusButtons {
		hints = renderHintBar("↑↓←→", "slides", "tab", "next button", "enter", "press", "esc", "edit")
	} else {
		hints = renderHintBar("enter", "next", "tab", "buttons", "ctrl+j", "jump in", "ctrl+c", "quit")
	}

	center := func(str string) string {
		return lipgloss.PlaceHorizontal(m.width, lipgloss.Center, str)
	}
	body := strings.Join([]string{
		center(s.HeaderTitle.Render("PERSONAL DETAILS")),
		"",
		card,
		"",
		bar.Render(),
		"",
		center(indicator),
		"",
		center(hints),
	}, "\n")

	return lipgloss.Place(m.width, m.height, lipgloss.Left, lipgloss.Center, body)
}

func formatPercent(p float64) string {
	return fmt.Sprintf("%d%%", int(math.Round(p)))
}
