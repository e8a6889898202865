package friend_test

import (
	"context"
	"io"
	"log/slog"
	"sync"
	"testing"

	"github.com/google/uuid"
	"github.com/scrynotes/memorygame/internal/domain"
	"github.com/scrynotes/memorygame/internal/domain/scoring"
	"github.com/scrynotes/memorygame/internal/events"
	"github.com/scrynotes/memorygame/internal/friend"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type recordingEmitter struct {
	mu     sync.Mutex
	events []*events.Event
}

func (r *recordingEmitter) EmitEvent(_ context.Context, event *events.Event) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.events = append(r.events, event)
	return nil
}

func (r *recordingEmitter) snapshot() []*events.Event {
	r.mu.Lock()
	defer r.mu.Unlock()
	return append([]*events.Event(nil), r.events...)
}

func newGame(t *testing.T, opts ...friend.Option) (*friend.Game, *recordingEmitter) {
	t.Helper()
	emitter := &recordingEmitter{}
	engine, err := friend.NewEngine(scoring.NewDefaultService(), emitter, slog.New(slog.NewTextHandler(io.Discard, nil)))
	require.NoError(t, err)
	return engine.Start(context.Background(), uuid.New(), opts...), emitter
}

// playRound runs one question through to feedback.
func playRound(t *testing.T, g *friend.Game, question, answer string, correct bool) {
	t.Helper()
	require.NoError(t, g.SubmitQuestion(question))
	require.NoError(t, g.ConfirmHandoffToPlayer())
	require.NoError(t, g.SubmitAnswer(answer))
	require.NoError(t, g.ConfirmHandoffToQuizMaster())
	require.NoError(t, g.Judge(correct))
}

func TestNewEngineRequiresScorer(t *testing.T) {
	t.Parallel()

	_, err := friend.NewEngine(nil, nil, nil)
	assert.ErrorIs(t, err, domain.ErrValidation)
}

func TestFullCycle(t *testing.T) {
	t.Parallel()

	g, _ := newGame(t)
	st := g.State()
	assert.Equal(t, friend.PhaseQuizMasterTurn, st.Phase)
	assert.Equal(t, 1, st.QuestionNumber)

	playRound(t, g, "Q1", "A1", true)
	require.NoError(t, g.Next())

	st = g.State()
	assert.Equal(t, friend.PhaseQuizMasterTurn, st.Phase)
	assert.Equal(t, 2, st.QuestionNumber)
	assert.Equal(t, 20, st.Score)
	assert.Equal(t, 1, st.CorrectAnswers)
	assert.Equal(t, 1, st.Streak)
	assert.Empty(t, st.Question)
	assert.Empty(t, st.PlayerAnswer)
}

func TestJudgeIncorrectResetsStreak(t *testing.T) {
	t.Parallel()

	g, _ := newGame(t)
	playRound(t, g, "Q1", "A1", true)
	require.NoError(t, g.Next())
	playRound(t, g, "Q2", "A2", true)
	require.NoError(t, g.Next())
	playRound(t, g, "Q3", "A3", false)

	st := g.State()
	assert.Equal(t, friend.PhaseFeedback, st.Phase)
	assert.False(t, st.LastAnswerCorrect)
	assert.Equal(t, 40, st.Score)
	assert.Equal(t, 2, st.CorrectAnswers)
	assert.Equal(t, 0, st.Streak)
	assert.Equal(t, 2, st.MaxStreak)
}

func TestBlankInputRejected(t *testing.T) {
	t.Parallel()

	g, _ := newGame(t)
	assert.ErrorIs(t, g.SubmitQuestion("   "), friend.ErrBlankQuestion)
	assert.Equal(t, friend.PhaseQuizMasterTurn, g.State().Phase)

	require.NoError(t, g.SubmitQuestion("  What is 2+2? "))
	require.NoError(t, g.ConfirmHandoffToPlayer())
	assert.ErrorIs(t, g.SubmitAnswer(""), friend.ErrBlankAnswer)
	assert.Equal(t, friend.PhasePlayerTurn, g.State().Phase)
	assert.Equal(t, "What is 2+2?", g.State().Question)
}

func TestWrongPhaseOperations(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name string
		op   func(g *friend.Game) error
	}{
		{"confirm handoff to player", (*friend.Game).ConfirmHandoffToPlayer},
		{"submit answer", func(g *friend.Game) error { return g.SubmitAnswer("A") }},
		{"confirm handoff to quiz master", (*friend.Game).ConfirmHandoffToQuizMaster},
		{"judge", func(g *friend.Game) error { return g.Judge(true) }},
		{"next", (*friend.Game).Next},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			t.Parallel()
			g, _ := newGame(t)
			before := g.State()

			err := tc.op(g)
			require.ErrorIs(t, err, friend.ErrInvalidTransition)
			var te *friend.TransitionError
			require.ErrorAs(t, err, &te)
			assert.Equal(t, friend.PhaseQuizMasterTurn, te.Phase)
			assert.Equal(t, before, g.State())
		})
	}
}

func TestEndNotAllowedMidQuestion(t *testing.T) {
	t.Parallel()

	g, emitter := newGame(t)
	require.NoError(t, g.SubmitQuestion("Q1"))

	_, err := g.End()
	assert.ErrorIs(t, err, friend.ErrInvalidTransition)
	assert.Equal(t, friend.PhaseWaitingForPlayer, g.State().Phase)
	assert.Empty(t, emitter.snapshot())
}

func TestVisibilityGating(t *testing.T) {
	t.Parallel()

	g, _ := newGame(t)
	require.NoError(t, g.SubmitQuestion("Capital of Peru?"))

	st := g.State()
	assert.True(t, st.Phase.IsHandoff())
	assert.Empty(t, st.Question, "question hidden while waiting for the player")

	require.NoError(t, g.ConfirmHandoffToPlayer())
	st = g.State()
	assert.Equal(t, "Capital of Peru?", st.Question)
	assert.Empty(t, st.PlayerAnswer)

	require.NoError(t, g.SubmitAnswer("Lima"))
	st = g.State()
	assert.True(t, st.Phase.IsHandoff())
	assert.Empty(t, st.Question)
	assert.Empty(t, st.PlayerAnswer, "answer hidden while waiting for the quiz master")

	require.NoError(t, g.ConfirmHandoffToQuizMaster())
	st = g.State()
	assert.Equal(t, friend.PhaseJudging, st.Phase)
	assert.Equal(t, "Capital of Peru?", st.Question)
	assert.Equal(t, "Lima", st.PlayerAnswer)
}

func TestEndFromFeedback(t *testing.T) {
	t.Parallel()

	g, emitter := newGame(t)
	playRound(t, g, "Q1", "A1", true)
	require.NoError(t, g.Next())
	playRound(t, g, "Q2", "A2", false)

	result, err := g.End()
	require.NoError(t, err)
	assert.Equal(t, domain.GameModeFriend, result.Mode)
	assert.Equal(t, uuid.Nil, result.DeckID)
	assert.Equal(t, g.ID(), result.SessionID)
	assert.Equal(t, g.UserID(), result.UserID)
	assert.Equal(t, 2, result.TotalCards)
	assert.Equal(t, 1, result.CorrectAnswers)
	assert.Equal(t, 20, result.Score)
	assert.Equal(t, 1, result.MaxStreak)
	require.NoError(t, result.Validate())

	st := g.State()
	assert.Equal(t, friend.PhaseEnded, st.Phase)
	assert.True(t, st.Ended)
	require.NotNil(t, st.Result)
	assert.Equal(t, result.ID, st.Result.ID)

	published := emitter.snapshot()
	require.Len(t, published, 1)
	assert.Equal(t, events.TypeFriendGameCompleted, published[0].Type)
	var payload domain.GameResult
	require.NoError(t, published[0].UnmarshalPayload(&payload))
	assert.Equal(t, result.ID, payload.ID)
}

func TestEndAfterNextCountsJudgedQuestions(t *testing.T) {
	t.Parallel()

	g, emitter := newGame(t)
	playRound(t, g, "Q1", "A1", true)
	require.NoError(t, g.Next())

	result, err := g.End()
	require.NoError(t, err)
	assert.Equal(t, 1, result.TotalCards)

	_, err = g.End()
	assert.ErrorIs(t, err, friend.ErrInvalidTransition)
	assert.ErrorIs(t, g.SubmitQuestion("Q2"), friend.ErrInvalidTransition)
	assert.Len(t, emitter.snapshot(), 1)
}

func TestObserverReceivesEveryTransition(t *testing.T) {
	t.Parallel()

	var (
		mu     sync.Mutex
		phases []friend.Phase
	)
	g, _ := newGame(t, friend.WithObserver(func(s friend.State) {
		mu.Lock()
		defer mu.Unlock()
		phases = append(phases, s.Phase)
	}))

	playRound(t, g, "Q1", "A1", true)
	_, err := g.End()
	require.NoError(t, err)
	assert.Error(t, g.Next())

	mu.Lock()
	defer mu.Unlock()
	assert.Equal(t, []friend.Phase{
		friend.PhaseWaitingForPlayer,
		friend.PhasePlayerTurn,
		friend.PhaseWaitingForQuizMaster,
		friend.PhaseJudging,
		friend.PhaseFeedback,
		friend.PhaseEnded,
	}, phases)
}
