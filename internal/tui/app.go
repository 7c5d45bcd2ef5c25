// Package tui is the persona terminal application: the intake form, the
// question flow against the quiz API and the result screen.
package tui

import (
	"context"
	"errors"
	"time"

	"charm.land/bubbles/v2/spinner"
	tea "charm.land/bubbletea/v2"
	"charm.land/lipgloss/v2"
	uv "github.com/charmbracelet/ultraviolet"
	"github.com/mark3labs/persona/internal/logger"
	"github.com/mark3labs/persona/internal/navigator"
	"github.com/mark3labs/persona/internal/quiz"
	"github.com/mark3labs/persona/internal/quizapi"
	"github.com/mark3labs/persona/internal/result"
	"github.com/mark3labs/persona/internal/session"
	"github.com/mark3labs/persona/internal/template"
	"github.com/mark3labs/persona/internal/tui/theme"
	"github.com/mark3labs/persona/internal/tui/wizard"
)

// Phase is the screen the application is on.
type Phase int

const (
	PhaseIntake Phase = iota
	PhaseLoading
	PhaseQuestions
	PhaseSubmitting
	PhaseResult
	PhaseError
)

func (p Phase) String() string {
	switch p {
	case PhaseIntake:
		return "intake"
	case PhaseLoading:
		return "loading"
	case PhaseQuestions:
		return "questions"
	case PhaseSubmitting:
		return "submitting"
	case PhaseResult:
		return "result"
	case PhaseError:
		return "error"
	default:
		return "unknown"
	}
}

// Tuning holds the navigation settings shared by the intake form and the
// question flow. Zero values fall back to the navigator defaults.
type Tuning struct {
	SettleDuration time.Duration
	WheelThreshold float64
	WheelDebounce  time.Duration
	SwipeDistance  float64
	TickDelta      float64 // Wheel delta per wheel tick
	CellHeight     float64 // Pixels per row for drag swipes
}

// Journal records session events. *session.Recorder implements it.
type Journal interface {
	Record(e session.Event) bool
	Failed() int
}

// Config configures the application.
type Config struct {
	Tuning
	API      quizapi.API
	Journal  Journal // Optional
	Template string  // Result template; empty uses the default
	JumpIn   bool    // Skip the intake form

	// NewSessionName derives the session name; defaults to session.NewName.
	NewSessionName func(displayName string) string

	Clock navigator.Clock  // Nil uses the real clock
	Send  func(tea.Msg)    // Delivers navigator settle notifications; usually tea.Program.Send
	Now   func() time.Time // Nil uses time.Now
}

// App is the main Bubbletea model that manages the TUI application.
type App struct {
	cfg Config
	ctx context.Context
	now func() time.Time

	phase   Phase
	intake  *wizard.Intake
	flow    *QuestionFlow
	results *ResultView
	dialog  *Dialog
	status  *StatusBar
	toast   *Toast
	loader  Loader
	spinner Spinner

	user        quiz.User
	sessionName string
	state       *session.State
	questions   []quiz.Question

	pendingQuestions []quiz.Question // Fetched, waiting for the loader
	pendingResult    *quiz.Result    // Scored, waiting for the loader

	layout   Layout
	width    int
	height   int
	quitting bool
}

// NewApp creates the application. The intake form is built immediately so
// configuration errors surface before the program starts.
func NewApp(ctx context.Context, cfg Config) (*App, error) {
	if cfg.API == nil {
		return nil, errors.New("tui: quiz API is required")
	}
	if cfg.Now == nil {
		cfg.Now = time.Now
	}
	if cfg.NewSessionName == nil {
		cfg.NewSessionName = session.NewName
	}
	if cfg.Template == "" {
		cfg.Template = template.DefaultTemplate
	}

	intake, err := wizard.New(wizard.Config{
		SettleDuration: cfg.SettleDuration,
		WheelThreshold: cfg.WheelThreshold,
		WheelDebounce:  cfg.WheelDebounce,
		SwipeDistance:  cfg.SwipeDistance,
		TickDelta:      cfg.TickDelta,
		CellHeight:     cfg.CellHeight,
		Clock:          cfg.Clock,
		Send:           cfg.Send,
		Now:            cfg.Now,
	})
	if err != nil {
		return nil, err
	}

	a := &App{
		cfg:     cfg,
		ctx:     ctx,
		now:     cfg.Now,
		intake:  intake,
		dialog:  NewDialog(),
		status:  NewStatusBar(cfg.Journal),
		toast:   NewToast(),
		spinner: NewDefaultSpinner(),
	}
	a.setSize(80, 24)
	return a, nil
}

// Init initializes the application and returns any initial commands.
func (a *App) Init() tea.Cmd {
	if a.cfg.JumpIn {
		return a.completeIntake(quiz.User{}.WithDefaults(), true)
	}
	return a.intake.Init()
}

// Update handles incoming messages and updates the model state.
func (a *App) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		a.setSize(msg.Width, msg.Height)
		return a, nil

	case tea.KeyPressMsg:
		if msg.String() == "ctrl+c" && a.phase != PhaseIntake {
			return a, a.quit()
		}

	case wizard.CompleteMsg:
		return a, a.completeIntake(msg.User, msg.JumpedIn)

	case wizard.CancelledMsg:
		return a, a.quit()

	case QuestionsLoadedMsg:
		return a, a.handleQuestionsLoaded(msg)

	case SubmittedMsg:
		return a, a.handleSubmitted(msg)

	case SubmitRequestedMsg:
		return a, a.submit()

	case LoaderTickMsg:
		return a, tea.Batch(a.loader.Update(msg, a.now()), a.checkLoaded())

	case spinner.TickMsg:
		if a.phase == PhaseLoading || a.phase == PhaseSubmitting {
			return a, a.spinner.Update(msg)
		}
		return a, nil

	case ShowToastMsg:
		return a, a.toast.Show(msg.Text)

	case ToastDismissMsg:
		return a, a.toast.Update(msg)
	}

	switch a.phase {
	case PhaseIntake:
		return a, a.intake.Update(msg)

	case PhaseQuestions:
		cmd := a.flow.Update(msg)
		a.status.SetAnswered(a.flow.Answered(), a.flow.Total())
		return a, cmd

	case PhaseResult:
		if key, ok := msg.(tea.KeyPressMsg); ok {
			switch key.String() {
			case "r":
				return a, a.retake()
			case "q", "esc":
				return a, a.quit()
			}
		}
		return a, a.results.Update(msg)

	case PhaseError:
		if key, ok := msg.(tea.KeyPressMsg); ok && key.String() == "q" {
			return a, a.quit()
		}
		return a, a.dialog.Update(msg)
	}
	return a, nil
}

// completeIntake opens the session journal and starts loading questions.
func (a *App) completeIntake(u quiz.User, jumped bool) tea.Cmd {
	a.user = u
	a.intake.Close()

	a.sessionName = a.cfg.NewSessionName(u.DisplayName())
	a.state = session.NewState(a.sessionName)
	a.status.SetSession(a.sessionName)
	a.record(session.UserEvent(a.sessionName, u))

	logger.Info("Session %s started (jumped in: %t)", a.sessionName, jumped)
	return a.startLoading()
}

func (a *App) startLoading() tea.Cmd {
	a.setPhase(PhaseLoading)
	a.pendingQuestions = nil
	a.loader = NewQuestionLoader()
	return tea.Batch(
		a.loader.Start(a.now()),
		a.spinner.Tick(),
		fetchQuestions(a.ctx, a.cfg.API),
	)
}

func (a *App) handleQuestionsLoaded(msg QuestionsLoadedMsg) tea.Cmd {
	if a.phase != PhaseLoading {
		return nil
	}
	if msg.Err == nil && len(msg.Questions) == 0 {
		msg.Err = quizapi.ErrNoQuestions
	}
	if msg.Err != nil {
		logger.Error("Loading questions failed: %v", msg.Err)
		a.loader.Stop()
		a.showError(MsgLoadFailed)
		return nil
	}
	logger.Debug("Loaded %d questions", len(msg.Questions))
	a.pendingQuestions = msg.Questions
	return a.checkLoaded()
}

// checkLoaded leaves a loading phase once both the data and the loader are done.
func (a *App) checkLoaded() tea.Cmd {
	now := a.now()
	switch a.phase {
	case PhaseLoading:
		if a.pendingQuestions != nil && a.loader.Done(now) {
			questions := a.pendingQuestions
			a.pendingQuestions = nil
			return a.startQuestions(questions)
		}
	case PhaseSubmitting:
		if a.pendingResult != nil && a.loader.Done(now) {
			res := *a.pendingResult
			a.pendingResult = nil
			return a.showResult(res)
		}
	}
	return nil
}

func (a *App) startQuestions(questions []quiz.Question) tea.Cmd {
	if a.flow != nil {
		a.flow.Close()
	}
	flow, err := NewQuestionFlow(QuestionFlowConfig{
		Tuning:    a.cfg.Tuning,
		Questions: questions,
		Answers:   a.state.Answers,
		OnAnswer:  a.recordAnswer,
		Clock:     a.cfg.Clock,
		Now:       a.now,
	})
	if err != nil {
		logger.Error("Starting question flow failed: %v", err)
		a.showError(MsgLoadFailed)
		return nil
	}

	a.questions = questions
	a.flow = flow
	a.flow.SetSize(a.layout.Main.Dx(), a.layout.Main.Dy())
	a.status.SetAnswered(flow.Answered(), flow.Total())
	a.setPhase(PhaseQuestions)
	return nil
}

func (a *App) recordAnswer(questionID, optionID int) {
	a.record(session.AnswerEvent(a.sessionName, questionID, optionID))
}

// submit sends the answers for scoring, or points the user at the first
// unanswered question.
func (a *App) submit() tea.Cmd {
	if a.phase != PhaseQuestions {
		return nil
	}
	answers, cmd, ok := a.flow.Submit()
	if !ok {
		return tea.Batch(cmd, a.toast.Show(MsgAnswerAll))
	}

	sub, err := quiz.BuildSubmission(a.user, a.questions, answers)
	if err != nil {
		logger.Error("Building submission failed: %v", err)
		return a.toast.Show(err.Error())
	}

	a.setPhase(PhaseSubmitting)
	a.pendingResult = nil
	a.loader = NewResultLoader()
	return tea.Batch(
		a.loader.Start(a.now()),
		a.spinner.Tick(),
		submitQuiz(a.ctx, a.cfg.API, sub),
	)
}

func (a *App) handleSubmitted(msg SubmittedMsg) tea.Cmd {
	if a.phase != PhaseSubmitting {
		return nil
	}
	if msg.Err != nil {
		logger.Error("Submitting quiz failed: %v", msg.Err)
		a.loader.Stop()
		a.setPhase(PhaseQuestions)
		return a.toast.Show(MsgSubmitFailed)
	}
	res := msg.Result
	a.pendingResult = &res
	return a.checkLoaded()
}

func (a *App) showResult(res quiz.Result) tea.Cmd {
	a.record(session.AttemptEvent(a.sessionName, res))

	doc, err := result.Document(a.state, a.cfg.Template, a.now())
	if err != nil {
		logger.Error("Building result document failed: %v", err)
		doc = "# " + res.TopPersonality.Name + "\n\n" + res.TopPersonality.Description
	}

	if a.flow != nil {
		a.flow.Close()
		a.flow = nil
	}
	a.results = NewResultView(doc)
	a.results.SetSize(a.layout.Main.Dx(), a.layout.Main.Dy())
	a.setPhase(PhaseResult)
	logger.Info("Session %s scored: %s", a.sessionName, res.TopPersonality.Name)
	return nil
}

// retake clears the answers and restarts at the first question.
func (a *App) retake() tea.Cmd {
	a.record(session.ClearAnswersEvent(a.sessionName))
	a.results = nil
	return a.startQuestions(a.questions)
}

func (a *App) showError(message string) {
	a.setPhase(PhaseError)
	a.dialog.Show("Something went wrong", message, "Retry", func() tea.Cmd {
		return a.startLoading()
	})
}

// record applies an event to the local state and hands it to the journal.
func (a *App) record(e session.Event) {
	a.state.Apply(e)
	if a.cfg.Journal != nil && !a.cfg.Journal.Record(e) {
		logger.Warn("Journal refused %s/%s event", e.Type, e.Action)
	}
}

func (a *App) setPhase(p Phase) {
	logger.Debug("Phase %s -> %s", a.phase, p)
	a.phase = p
	a.status.SetPhase(p)
}

func (a *App) quit() tea.Cmd {
	a.quitting = true
	a.intake.Close()
	if a.flow != nil {
		a.flow.Close()
	}
	return tea.Quit
}

func (a *App) setSize(width, height int) {
	a.width = width
	a.height = height
	a.layout = CalculateLayout(width, height)

	w, h := a.layout.Main.Dx(), a.layout.Main.Dy()
	a.intake.SetSize(w, h)
	if a.flow != nil {
		a.flow.SetSize(w, h)
	}
	if a.results != nil {
		a.results.SetSize(w, h)
	}
}

// View renders the current view. In Bubbletea v2, this returns tea.View
// with display options like AltScreen and MouseMode.
func (a *App) View() tea.View {
	var view tea.View
	view.AltScreen = true
	view.MouseMode = tea.MouseModeCellMotion // Wheel and drag swipes

	if a.quitting {
		// Return minimal view when quitting - exit alt screen for proper terminal restoration
		view.AltScreen = false
		view.MouseMode = 0
		view.Content = lipgloss.NewLayer("")
		return view
	}

	canvas := uv.NewScreenBuffer(a.width, a.height)
	view.Cursor = a.Draw(canvas, canvas.Bounds())
	view.Content = lipgloss.NewLayer(canvas.Render())
	view.BackgroundColor = theme.HexToColor(theme.Current().BgCrust)
	return view
}

// Draw renders the active phase, the status bar and the toast.
func (a *App) Draw(scr uv.Screen, area uv.Rectangle) *tea.Cursor {
	main := a.layout.Main

	switch a.phase {
	case PhaseIntake:
		DrawText(scr, main, a.intake.View())
	case PhaseLoading, PhaseSubmitting:
		a.drawLoader(scr, main)
	case PhaseQuestions:
		a.flow.Draw(scr, main)
	case PhaseResult:
		a.results.Draw(scr, main)
	case PhaseError:
		a.dialog.Draw(scr, main)
	}
	a.status.Draw(scr, a.layout.Status)

	// Draw toast last so it appears on top of everything
	if content := a.toast.View(area.Dx()); content != "" {
		w, h := lipgloss.Width(content), lipgloss.Height(content)
		x := max(area.Min.X, area.Max.X-w-1)
		y := max(area.Min.Y, area.Max.Y-StatusHeight-h)
		uv.NewStyledString(content).Draw(scr, uv.Rectangle{
			Min: uv.Position{X: x, Y: y},
			Max: uv.Position{X: x + w, Y: y + h},
		})
	}
	return nil
}

func (a *App) drawLoader(scr uv.Screen, area uv.Rectangle) {
	s := theme.Current().S()
	title := "Loading questions"
	if a.phase == PhaseSubmitting {
		title = "Calculating your personality"
	}
	content := lipgloss.JoinVertical(lipgloss.Center,
		a.spinner.View()+" "+s.HeaderTitle.Render(title),
		"",
		a.loader.View(min(50, max(10, area.Dx()-12))),
	)
	DrawCentered(scr, area, content)
}

// Phase returns the current phase.
func (a *App) Phase() Phase {
	return a.phase
}

// Intake returns the intake form.
func (a *App) Intake() *wizard.Intake {
	return a.intake
}

// Flow returns the question flow, nil outside the quiz.
func (a *App) Flow() *QuestionFlow {
	return a.flow
}

// Results returns the result view, nil before the first result.
func (a *App) Results() *ResultView {
	return a.results
}

// Loader returns the active loader bar.
func (a *App) Loader() *Loader {
	return &a.loader
}

// SessionName returns the session name, empty until intake completes.
func (a *App) SessionName() string {
	return a.sessionName
}

// State returns the local session state.
func (a *App) State() *session.State {
	return a.state
}

// User returns the user collected by the intake form.
func (a *App) User() quiz.User {
	return a.user
}

// Toast returns the toast component.
func (a *App) Toast() *Toast {
	return a.toast
}

// Dialog returns the error dialog.
func (a *App) Dialog() *Dialog {
	return a.dialog
}

// Quitting reports whether the application is shutting down.
func (a *App) Quitting() bool {
	return a.quitting
}
