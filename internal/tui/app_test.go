package tui

import (
	"context"
	"testing"
	"time"

	tea "charm.land/bubbletea/v2"
	uv "github.com/charmbracelet/ultraviolet"
	"github.com/mark3labs/persona/internal/nats"
	"github.com/mark3labs/persona/internal/navigator"
	"github.com/mark3labs/persona/internal/quiz"
	"github.com/mark3labs/persona/internal/session"
	"github.com/mark3labs/persona/internal/tui/testfixtures"
	"github.com/mark3labs/persona/internal/tui/wizard"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type appHarness struct {
	t        *testing.T
	app      *App
	api      *testfixtures.MockAPI
	pub      *testfixtures.MockPublisher
	recorder *session.Recorder
	clock    *navigator.ManualClock
	now      time.Time
}

func newAppHarness(t *testing.T, mutate ...func(*Config)) *appHarness {
	t.Helper()
	h := &appHarness{
		t:     t,
		api:   testfixtures.NewMockAPI(),
		pub:   testfixtures.NewMockPublisher(),
		clock: navigator.NewManualClock(),
		now:   testfixtures.FixedTime,
	}
	h.recorder = session.NewRecorder(h.pub)
	t.Cleanup(h.recorder.Close)

	cfg := Config{
		API:            h.api,
		Journal:        h.recorder,
		NewSessionName: func(string) string { return testfixtures.FixedSessionName },
		Clock:          h.clock,
		Send:           func(tea.Msg) {},
		Now:            func() time.Time { return h.now },
	}
	for _, fn := range mutate {
		fn(&cfg)
	}

	app, err := NewApp(context.Background(), cfg)
	require.NoError(t, err)
	h.app = app
	app.Update(tea.WindowSizeMsg{Width: testfixtures.TestTermWidth, Height: testfixtures.TestTermHeight})
	return h
}

func (h *appHarness) update(msg tea.Msg) tea.Cmd {
	_, cmd := h.app.Update(msg)
	return cmd
}

func (h *appHarness) press(name string) tea.Cmd {
	return h.update(keyMsg(h.t, name))
}

// run executes cmd and feeds back the API responses it produces. Timer
// commands are left alone; tests drive the loader and animations directly.
func (h *appHarness) run(cmd tea.Cmd) {
	if cmd == nil {
		return
	}
	switch msg := cmd().(type) {
	case tea.BatchMsg:
		for _, c := range msg {
			h.run(c)
		}
	case QuestionsLoadedMsg, SubmittedMsg, SubmitRequestedMsg:
		h.run(h.update(msg))
	}
}

// finishLoader ticks the active loader until it stops.
func (h *appHarness) finishLoader() {
	h.t.Helper()
	for i := 0; h.app.Loader().Running(); i++ {
		require.Less(h.t, i, 1000, "loader never finished")
		h.now = h.now.Add(loaderInterval)
		h.update(LoaderTickMsg{ID: h.app.Loader().id})
	}
}

// settle releases the question navigator and completes the scroll.
func (h *appHarness) settle() {
	h.clock.Advance(navigator.DefaultSettleDuration)
	h.now = h.now.Add(navigator.DefaultSettleDuration)
	h.update(scrollFrameMsg{})
}

// startQuiz completes the intake and loads the sample questions.
func (h *appHarness) startQuiz() {
	h.t.Helper()
	h.run(h.update(wizard.CompleteMsg{User: testfixtures.SampleUser()}))
	h.finishLoader()
	require.Equal(h.t, PhaseQuestions, h.app.Phase())
}

// answerAll answers every sample question and lands on the submit card.
func (h *appHarness) answerAll() {
	h.t.Helper()
	for _, key := range []string{"2", "2", "1"} {
		h.press(key)
		h.settle()
	}
	require.Equal(h.t, h.app.Flow().SubmitStep(), h.app.Flow().Step())
}

func (h *appHarness) events(eventType string) []session.Event {
	h.t.Helper()
	require.NoError(h.t, h.recorder.Flush(context.Background()))
	return h.pub.EventsOfType(eventType)
}

func (h *appHarness) canvas() string {
	return testfixtures.RenderCanvas(func(scr uv.Screen, area uv.Rectangle) {
		h.app.Draw(scr, area)
	})
}

func TestNewApp_RequiresAPI(t *testing.T) {
	_, err := NewApp(context.Background(), Config{})
	require.Error(t, err)
}

func TestApp_StartsInIntake(t *testing.T) {
	h := newAppHarness(t)

	assert.Equal(t, PhaseIntake, h.app.Phase())
	assert.NotNil(t, h.app.Init())
	out := h.canvas()
	assert.Contains(t, out, "PERSONAL DETAILS")
	assert.Contains(t, out, "persona | intake")
}

func TestApp_IntakeCompletesIntoLoading(t *testing.T) {
	h := newAppHarness(t)

	cmd := h.update(wizard.CompleteMsg{User: testfixtures.SampleUser()})
	require.NotNil(t, cmd)
	assert.Equal(t, PhaseLoading, h.app.Phase())
	assert.Equal(t, testfixtures.FixedSessionName, h.app.SessionName())
	assert.Equal(t, testfixtures.SampleUser(), h.app.User())
	assert.True(t, h.app.Loader().Running())
	assert.True(t, h.app.Intake().Navigator().Closed())

	users := h.events(nats.EventTypeUser)
	require.Len(t, users, 1)
	assert.Equal(t, "Ada", users[0].Data)
	assert.Contains(t, h.canvas(), "Loading questions")
}

func TestApp_JumpIn(t *testing.T) {
	h := newAppHarness(t, func(c *Config) { c.JumpIn = true })

	h.run(h.app.Init())
	assert.Equal(t, PhaseLoading, h.app.Phase())
	assert.Equal(t, quiz.DefaultName, h.app.User().Name)
	assert.Equal(t, quiz.DefaultEmail, h.app.User().Email)
	assert.Equal(t, 1, h.api.QuestionsCalls())

	h.finishLoader()
	assert.Equal(t, PhaseQuestions, h.app.Phase())
}

func TestApp_LoaderHoldsFastResponse(t *testing.T) {
	h := newAppHarness(t)

	h.run(h.update(wizard.CompleteMsg{User: testfixtures.SampleUser()}))
	assert.Equal(t, PhaseLoading, h.app.Phase(), "questions arrived but the loader is still running")
	assert.Nil(t, h.app.Flow())

	start := h.now
	h.finishLoader()
	assert.Equal(t, PhaseQuestions, h.app.Phase())
	assert.GreaterOrEqual(t, h.now.Sub(start), 1500*time.Millisecond)
	require.NotNil(t, h.app.Flow())
	assert.Equal(t, 3, h.app.Flow().Total())
}

func TestApp_SlowResponseAfterLoader(t *testing.T) {
	h := newAppHarness(t)

	h.update(wizard.CompleteMsg{User: testfixtures.SampleUser()})
	h.finishLoader()
	assert.Equal(t, PhaseLoading, h.app.Phase(), "still waiting for the questions")

	h.update(QuestionsLoadedMsg{Questions: testfixtures.SampleQuestions()})
	assert.Equal(t, PhaseQuestions, h.app.Phase())
}

func TestApp_LoadFailureShowsRetryDialog(t *testing.T) {
	h := newAppHarness(t)
	h.api.SetQuestionsError(testfixtures.ErrAPIDown)

	h.run(h.update(wizard.CompleteMsg{User: testfixtures.SampleUser()}))
	assert.Equal(t, PhaseError, h.app.Phase())
	assert.True(t, h.app.Dialog().IsVisible())
	assert.Equal(t, MsgLoadFailed, h.app.Dialog().Message())
	assert.False(t, h.app.Loader().Running())
	assert.Contains(t, h.canvas(), "Retry")

	h.api.SetQuestionsError(nil)
	h.run(h.press("r"))
	assert.Equal(t, PhaseLoading, h.app.Phase())
	assert.False(t, h.app.Dialog().IsVisible())
	assert.Equal(t, 2, h.api.QuestionsCalls())

	h.finishLoader()
	assert.Equal(t, PhaseQuestions, h.app.Phase())
}

func TestApp_EmptyQuestionsIsAnError(t *testing.T) {
	h := newAppHarness(t)
	h.api.QuestionSet = nil

	h.run(h.update(wizard.CompleteMsg{User: testfixtures.SampleUser()}))
	assert.Equal(t, PhaseError, h.app.Phase())
	assert.Equal(t, MsgLoadFailed, h.app.Dialog().Message())
}

func TestApp_AnswerIsRecorded(t *testing.T) {
	h := newAppHarness(t)
	h.startQuiz()

	h.press("2")
	assert.Equal(t, 1, h.app.Flow().Step())
	assert.Equal(t, quiz.Answers{1: 12}, h.app.State().Answers)

	answers := h.events(nats.EventTypeAnswer)
	require.Len(t, answers, 1)
	assert.Equal(t, session.ActionSelect, answers[0].Action)
	assert.Equal(t, "12", answers[0].Data)
	assert.Contains(t, h.canvas(), "1/3 answered")
}

func TestApp_IncompleteSubmitShowsToast(t *testing.T) {
	h := newAppHarness(t)
	h.startQuiz()
	h.press("1")
	h.settle()
	h.press("end")
	h.settle()

	h.run(h.press("enter"))
	assert.Equal(t, PhaseQuestions, h.app.Phase())
	assert.True(t, h.app.Toast().IsVisible())
	assert.Equal(t, MsgAnswerAll, h.app.Toast().GetMessage())
	assert.Equal(t, 1, h.app.Flow().Step(), "jumps to the first unanswered question")
	assert.Zero(t, h.api.SubmitCalls())
	assert.Contains(t, h.canvas(), MsgAnswerAll)
}

func TestApp_SubmitShowsResult(t *testing.T) {
	h := newAppHarness(t)
	h.startQuiz()
	h.answerAll()

	h.run(h.press("enter"))
	assert.Equal(t, PhaseSubmitting, h.app.Phase(), "the result loader holds the response")
	require.Len(t, h.api.Submissions(), 1)
	assert.Contains(t, h.canvas(), "Calculating your personality")

	h.finishLoader()
	require.Equal(t, PhaseResult, h.app.Phase())
	assert.Nil(t, h.app.Flow())
	assert.Contains(t, h.app.Results().Markdown(), "The Thinker")
	assert.Contains(t, h.app.Results().Markdown(), "Ada")

	latest, ok := h.app.State().Latest()
	require.True(t, ok)
	assert.Equal(t, "The Thinker", latest.Personality)
	assert.Len(t, h.events(nats.EventTypeAttempt), 1)
	assert.Contains(t, h.canvas(), "persona | ada-test-session | result")
}

func TestApp_SubmitFailureReturnsToQuestions(t *testing.T) {
	h := newAppHarness(t)
	h.api.SetSubmitError(testfixtures.ErrAPIDown)
	h.startQuiz()
	h.answerAll()

	h.run(h.press("enter"))
	assert.Equal(t, PhaseQuestions, h.app.Phase())
	assert.False(t, h.app.Loader().Running())
	assert.Equal(t, MsgSubmitFailed, h.app.Toast().GetMessage())
	assert.Equal(t, 3, h.app.Flow().Answered(), "answers survive the failure")

	h.api.SetSubmitError(nil)
	h.run(h.press("enter"))
	assert.Equal(t, PhaseSubmitting, h.app.Phase())
}

func TestApp_Retake(t *testing.T) {
	h := newAppHarness(t)
	h.startQuiz()
	h.answerAll()
	h.run(h.press("enter"))
	h.finishLoader()
	require.Equal(t, PhaseResult, h.app.Phase())

	h.press("r")
	assert.Equal(t, PhaseQuestions, h.app.Phase())
	assert.Nil(t, h.app.Results())
	assert.Empty(t, h.app.State().Answers)
	assert.Equal(t, 0, h.app.Flow().Step())
	assert.Zero(t, h.app.Flow().Answered())

	h.api.Result = testfixtures.ExplorerResult()
	h.answerAll()
	h.run(h.press("enter"))
	h.finishLoader()
	require.Equal(t, PhaseResult, h.app.Phase())
	assert.Contains(t, h.app.Results().Markdown(), "The Explorer")
	assert.Len(t, h.app.State().Attempts, 2)

	clears := h.events(nats.EventTypeAnswer)
	var cleared int
	for _, e := range clears {
		if e.Action == session.ActionClear {
			cleared++
		}
	}
	assert.Equal(t, 1, cleared)
}

func TestApp_Quit(t *testing.T) {
	t.Run("ctrl+c while answering", func(t *testing.T) {
		h := newAppHarness(t)
		h.startQuiz()

		cmd := h.press("ctrl+c")
		require.NotNil(t, cmd)
		assert.Equal(t, tea.QuitMsg{}, cmd())
		assert.True(t, h.app.Quitting())
		assert.True(t, h.app.Flow().Navigator().Closed())
	})

	t.Run("ctrl+c in intake cancels the form", func(t *testing.T) {
		h := newAppHarness(t)

		cmd := h.press("ctrl+c")
		require.NotNil(t, cmd)
		msg := cmd()
		assert.IsType(t, wizard.CancelledMsg{}, msg)

		cmd = h.update(msg)
		require.NotNil(t, cmd)
		assert.True(t, h.app.Quitting())
	})

	t.Run("q on the result", func(t *testing.T) {
		h := newAppHarness(t)
		h.startQuiz()
		h.answerAll()
		h.run(h.press("enter"))
		h.finishLoader()

		h.press("q")
		assert.True(t, h.app.Quitting())
	})

	t.Run("q on the error dialog", func(t *testing.T) {
		h := newAppHarness(t)
		h.api.SetQuestionsError(testfixtures.ErrAPIDown)
		h.run(h.update(wizard.CompleteMsg{User: testfixtures.SampleUser()}))

		h.press("q")
		assert.True(t, h.app.Quitting())
	})
}

func TestApp_StatusBar(t *testing.T) {
	h := newAppHarness(t)
	h.startQuiz()

	out := h.canvas()
	assert.Contains(t, out, "persona | ada-test-session | questions")
	assert.Contains(t, out, "0/3 answered")
	assert.Contains(t, out, "● journal")
	assert.Contains(t, out, "Question 1 of 3")
}

func TestApp_StatusBarShowsDroppedEvents(t *testing.T) {
	h := newAppHarness(t)
	h.pub.PublishError = testfixtures.ErrAPIDown
	h.startQuiz()

	require.NoError(t, h.recorder.Flush(context.Background()))
	assert.Contains(t, h.canvas(), "○ journal (1 dropped)")
}

func TestFetchQuestions(t *testing.T) {
	api := testfixtures.NewMockAPI()
	msg := fetchQuestions(context.Background(), api)()

	loaded, ok := msg.(QuestionsLoadedMsg)
	require.True(t, ok)
	require.NoError(t, loaded.Err)
	assert.Equal(t, testfixtures.SampleQuestions(), loaded.Questions)
}

func TestSubmitQuiz(t *testing.T) {
	api := testfixtures.NewMockAPI()
	sub, err := quiz.BuildSubmission(testfixtures.SampleUser(), testfixtures.SampleQuestions(), testfixtures.SampleAnswers())
	require.NoError(t, err)

	msg := submitQuiz(context.Background(), api, sub)()
	submitted, ok := msg.(SubmittedMsg)
	require.True(t, ok)
	require.NoError(t, submitted.Err)
	assert.Equal(t, testfixtures.ThinkerResult(), submitted.Result)
	assert.Equal(t, []quiz.Submission{sub}, api.Submissions())

	api.SetSubmitError(testfixtures.ErrAPIDown)
	submitted = submitQuiz(context.Background(), api, sub)().(SubmittedMsg)
	assert.ErrorIs(t, submitted.Err, testfixtures.ErrAPIDown)
}
