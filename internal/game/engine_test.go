package game_test

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"sort"
	"sync"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/scrynotes/memorygame/internal/config"
	"github.com/scrynotes/memorygame/internal/distractor"
	"github.com/scrynotes/memorygame/internal/domain"
	"github.com/scrynotes/memorygame/internal/domain/scoring"
	"github.com/scrynotes/memorygame/internal/events"
	"github.com/scrynotes/memorygame/internal/game"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func discardLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

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

func (r *recordingEmitter) results(t *testing.T) []domain.GameResult {
	t.Helper()
	r.mu.Lock()
	defer r.mu.Unlock()
	out := make([]domain.GameResult, 0, len(r.events))
	for _, e := range r.events {
		require.Equal(t, events.TypeGameCompleted, e.Type)
		var result domain.GameResult
		require.NoError(t, e.UnmarshalPayload(&result))
		out = append(out, result)
	}
	return out
}

// stateLog collects every snapshot an observer receives.
type stateLog struct {
	mu     sync.Mutex
	states []game.State
}

func (l *stateLog) observe(s game.State) {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.states = append(l.states, s)
}

func (l *stateLog) ordered() []game.State {
	l.mu.Lock()
	defer l.mu.Unlock()
	out := append([]game.State(nil), l.states...)
	sort.Slice(out, func(i, j int) bool { return out[i].Version < out[j].Version })
	return out
}

func newDeck(t *testing.T, difficulties ...domain.Difficulty) *domain.CardDeck {
	t.Helper()
	cards := make([]domain.FlashCard, 0, len(difficulties))
	for i, d := range difficulties {
		c, err := domain.NewFlashCard(fmt.Sprintf("Question %d?", i), fmt.Sprintf("Answer %d", i), d)
		require.NoError(t, err)
		cards = append(cards, c)
	}
	deck, err := domain.NewCardDeck(uuid.New(), "Test deck", cards)
	require.NoError(t, err)
	return deck
}

// answerFor looks up the correct answer for the question currently shown.
func answerFor(t *testing.T, deck *domain.CardDeck, st game.State) domain.FlashCard {
	t.Helper()
	require.NotNil(t, st.Card)
	for _, c := range deck.Cards {
		if c.ID == st.Card.ID {
			return c
		}
	}
	t.Fatalf("card %s not in deck", st.Card.ID)
	return domain.FlashCard{}
}

func testConfig() game.Config {
	cfg := game.DefaultConfig()
	cfg.RevealDelay = time.Hour
	cfg.GenerationTimeout = time.Second
	return cfg
}

func newEngine(t *testing.T, cfg game.Config, options game.OptionGenerator, emitter events.EventEmitter) *game.Engine {
	t.Helper()
	if options == nil {
		options = distractor.NewGenerator(nil, discardLogger(), distractor.WithSeed(1))
	}
	e, err := game.NewEngine(cfg, scoring.NewDefaultService(), options, emitter, discardLogger())
	require.NoError(t, err)
	return e
}

func TestNewEngineValidation(t *testing.T) {
	t.Parallel()

	opts := distractor.NewGenerator(nil, nil)
	_, err := game.NewEngine(game.DefaultConfig(), nil, opts, nil, nil)
	assert.ErrorIs(t, err, domain.ErrValidation)

	_, err = game.NewEngine(game.DefaultConfig(), scoring.NewDefaultService(), nil, nil, nil)
	assert.ErrorIs(t, err, domain.ErrValidation)
}

func TestStartRejectsEmptyDeck(t *testing.T) {
	t.Parallel()

	e := newEngine(t, testConfig(), nil, nil)
	empty := &domain.CardDeck{ID: uuid.New(), UserID: uuid.New(), Title: "Empty"}

	s, err := e.Start(context.Background(), uuid.New(), empty, domain.GameModeFlashcard)
	assert.ErrorIs(t, err, domain.ErrEmptyDeck)
	assert.Nil(t, s)

	s, err = e.Start(context.Background(), uuid.New(), nil, domain.GameModeQuiz)
	assert.ErrorIs(t, err, domain.ErrEmptyDeck)
	assert.Nil(t, s)
}

func TestStartRejectsNonDeckModes(t *testing.T) {
	t.Parallel()

	e := newEngine(t, testConfig(), nil, nil)
	deck := newDeck(t, domain.DifficultyEasy)

	for _, mode := range []domain.GameMode{domain.GameModeFriend, "matching"} {
		_, err := e.Start(context.Background(), uuid.New(), deck, mode)
		assert.ErrorIs(t, err, domain.ErrInvalidGameMode, mode)
	}
}

func TestStartShufflesACopyOnce(t *testing.T) {
	t.Parallel()

	e := newEngine(t, testConfig(), nil, nil)
	deck := newDeck(t, domain.DifficultyEasy, domain.DifficultyEasy, domain.DifficultyEasy,
		domain.DifficultyEasy, domain.DifficultyEasy, domain.DifficultyEasy)
	original := append([]domain.FlashCard(nil), deck.Cards...)

	s, err := e.Start(context.Background(), uuid.New(), deck, domain.GameModeFlashcard, game.WithShuffleSeed(7))
	require.NoError(t, err)
	defer s.Close()

	assert.Equal(t, original, deck.Cards, "the deck itself is not reordered")

	seen := make(map[uuid.UUID]bool)
	for i := 0; i < len(deck.Cards); i++ {
		st := s.State()
		first := st.Card.ID
		assert.Equal(t, first, s.State().Card.ID, "order is stable between reads")
		seen[first] = true
		require.NoError(t, s.MarkCard(true))
	}
	assert.Len(t, seen, len(deck.Cards), "every card is played exactly once")
}

func TestFlashcardSession(t *testing.T) {
	t.Parallel()

	emitter := &recordingEmitter{}
	e := newEngine(t, testConfig(), nil, emitter)
	deck := newDeck(t, domain.DifficultyEasy, domain.DifficultyMedium, domain.DifficultyHard)
	userID := uuid.New()

	s, err := e.Start(context.Background(), userID, deck, domain.GameModeFlashcard)
	require.NoError(t, err)

	st := s.State()
	assert.Equal(t, game.PhaseAwaitingAnswer, st.Phase)
	assert.Equal(t, 3, st.TotalCards)
	assert.NotEmpty(t, st.Card.Answer, "flashcards show their answer")
	assert.Empty(t, st.Options)
	assert.Zero(t, st.TimeRemainingMs)

	assert.ErrorIs(t, s.SelectAnswer("x"), game.ErrWrongMode)

	expected := 0
	for i, known := range []bool{true, true, false} {
		card := answerFor(t, deck, s.State())
		if known {
			expected += card.Difficulty.Points()
		}
		require.NoError(t, s.MarkCard(known))
		if i < 2 {
			assert.Equal(t, i+1, s.State().CurrentIndex, "mark advances immediately")
		}
	}

	st = s.State()
	assert.True(t, st.IsComplete)
	assert.Equal(t, game.PhaseComplete, st.Phase)
	assert.Nil(t, st.Card)
	assert.Equal(t, expected, st.Score)
	assert.Equal(t, 2, st.CorrectAnswers)
	assert.Equal(t, 1, st.IncorrectAnswers)
	assert.Equal(t, 0, st.Streak)
	assert.Equal(t, 2, st.MaxStreak)

	result, ok := s.Result()
	require.True(t, ok)
	assert.Equal(t, s.ID(), result.SessionID)
	assert.Equal(t, deck.ID, result.DeckID)
	assert.Equal(t, userID, result.UserID)
	assert.Equal(t, 3, result.TotalCards)
	assert.Len(t, result.CardOutcomes, 3)
	assert.GreaterOrEqual(t, result.TimeTakenMs, int64(0))

	published := emitter.results(t)
	require.Len(t, published, 1)
	assert.Equal(t, expected, published[0].Score)
	assert.Equal(t, domain.GameModeFlashcard, published[0].Mode)
}

func TestTerminalStability(t *testing.T) {
	t.Parallel()

	emitter := &recordingEmitter{}
	e := newEngine(t, testConfig(), nil, emitter)
	deck := newDeck(t, domain.DifficultyHard)

	s, err := e.Start(context.Background(), uuid.New(), deck, domain.GameModeFlashcard)
	require.NoError(t, err)
	require.NoError(t, s.MarkCard(true))

	before := s.State()
	require.True(t, before.IsComplete)

	assert.ErrorIs(t, s.MarkCard(true), game.ErrSessionComplete)
	assert.ErrorIs(t, s.SubmitAnswer("Answer 0"), game.ErrSessionComplete)
	assert.ErrorIs(t, s.Skip(), game.ErrSessionComplete)
	assert.ErrorIs(t, s.Next(), game.ErrSessionComplete)

	after := s.State()
	assert.Equal(t, before.Score, after.Score)
	assert.Equal(t, before.CorrectAnswers, after.CorrectAnswers)
	assert.Equal(t, before.IncorrectAnswers, after.IncorrectAnswers)
	assert.Equal(t, before.MaxStreak, after.MaxStreak)
	assert.Len(t, emitter.results(t), 1, "completion is published once")
}

func TestStreakBonusUsesPriorStreak(t *testing.T) {
	t.Parallel()

	e := newEngine(t, testConfig(), nil, nil)
	deck := newDeck(t, domain.DifficultyHard, domain.DifficultyHard, domain.DifficultyHard,
		domain.DifficultyHard, domain.DifficultyHard, domain.DifficultyHard, domain.DifficultyHard)

	s, err := e.Start(context.Background(), uuid.New(), deck, domain.GameModeFlashcard)
	require.NoError(t, err)

	var points []int
	for range deck.Cards {
		require.NoError(t, s.MarkCard(true))
		points = append(points, s.State().LastPoints)
	}

	assert.Equal(t, []int{30, 30, 30, 30, 30, 45, 45}, points)
	st := s.State()
	assert.Equal(t, 240, st.Score)
	assert.Equal(t, 7, st.MaxStreak)
}

func TestQuizSession(t *testing.T) {
	t.Parallel()

	e := newEngine(t, testConfig(), nil, nil)
	deck := newDeck(t, domain.DifficultyEasy, domain.DifficultyMedium, domain.DifficultyHard,
		domain.DifficultyEasy, domain.DifficultyMedium)

	s, err := e.Start(context.Background(), uuid.New(), deck, domain.GameModeQuiz)
	require.NoError(t, err)
	defer s.Close()

	st := s.State()
	require.True(t, st.OptionsReady, "a large enough deck supplies options immediately")
	require.Len(t, st.Options, 4)
	assert.Empty(t, st.Card.Answer, "quiz answers stay hidden until revealed")

	card := answerFor(t, deck, st)
	count := 0
	for _, o := range st.Options {
		if o == card.Answer {
			count++
		}
	}
	assert.Equal(t, 1, count)

	assert.ErrorIs(t, s.MarkCard(true), game.ErrWrongMode)
	assert.ErrorIs(t, s.Next(), game.ErrNotRevealed)

	require.NoError(t, s.SelectAnswer("something"))
	st = s.State()
	assert.Equal(t, "something", st.SelectedAnswer)
	assert.Zero(t, st.Score)
	assert.Equal(t, 0, st.CorrectAnswers+st.IncorrectAnswers)

	require.NoError(t, s.SubmitAnswer("  "+card.Answer+"  "))
	st = s.State()
	assert.Equal(t, game.PhaseRevealed, st.Phase)
	assert.True(t, st.LastAnswerCorrect)
	assert.Equal(t, card.Difficulty.Points(), st.Score)
	assert.Equal(t, card.Answer, st.Card.Answer)
	assert.Equal(t, 0, st.CurrentIndex, "index advances only after the reveal")

	assert.ErrorIs(t, s.SubmitAnswer(card.Answer), game.ErrAnswerRevealed)
	require.NoError(t, s.SelectAnswer("ignored"))
	assert.NotEqual(t, "ignored", s.State().SelectedAnswer)

	require.NoError(t, s.Next())
	st = s.State()
	assert.Equal(t, 1, st.CurrentIndex)
	assert.Equal(t, game.PhaseAwaitingAnswer, st.Phase)
	assert.Empty(t, st.SelectedAnswer)
	assert.Len(t, st.Options, 4)

	next := answerFor(t, deck, st)
	require.NoError(t, s.SubmitAnswer(next.Answer+" (wrong)"))
	st = s.State()
	assert.False(t, st.LastAnswerCorrect)
	assert.Equal(t, 0, st.Streak)
	assert.Equal(t, 1, st.MaxStreak)
	assert.Equal(t, 1, st.IncorrectAnswers)

	require.NoError(t, s.Next())
	require.NoError(t, s.Skip())
	assert.Equal(t, 2, s.State().IncorrectAnswers)
}

func TestRevealDelayAdvances(t *testing.T) {
	t.Parallel()

	cfg := testConfig()
	cfg.RevealDelay = 20 * time.Millisecond
	e := newEngine(t, cfg, nil, nil)
	deck := newDeck(t, domain.DifficultyEasy, domain.DifficultyMedium)

	s, err := e.Start(context.Background(), uuid.New(), deck, domain.GameModeQuiz)
	require.NoError(t, err)
	defer s.Close()

	require.NoError(t, s.Skip())
	assert.Equal(t, game.PhaseRevealed, s.State().Phase)

	assert.Eventually(t, func() bool {
		st := s.State()
		return st.CurrentIndex == 1 && st.Phase == game.PhaseAwaitingAnswer
	}, time.Second, 5*time.Millisecond)

	// An explicit Next after the delayed advance must not skip a card.
	assert.ErrorIs(t, s.Next(), game.ErrNotRevealed)
}

func TestSpeedRoundTimerExpiry(t *testing.T) {
	t.Parallel()

	cfg := testConfig()
	cfg.SpeedRoundDuration = 50 * time.Millisecond
	cfg.TickInterval = 10 * time.Millisecond
	e := newEngine(t, cfg, nil, nil)
	deck := newDeck(t, domain.DifficultyEasy, domain.DifficultyMedium)

	s, err := e.Start(context.Background(), uuid.New(), deck, domain.GameModeSpeedRound)
	require.NoError(t, err)
	defer s.Close()

	assert.Eventually(t, func() bool { return s.State().Phase == game.PhaseRevealed }, time.Second, 5*time.Millisecond)

	st := s.State()
	assert.Equal(t, 1, st.IncorrectAnswers)
	assert.Equal(t, 0, st.CorrectAnswers)
	assert.Equal(t, 0, st.Streak)
	assert.Zero(t, st.Score)
	assert.Zero(t, st.TimeRemainingMs)

	time.Sleep(100 * time.Millisecond)
	assert.Equal(t, 1, s.State().IncorrectAnswers, "the timer fires once per card")

	require.NoError(t, s.Next())
	st = s.State()
	assert.Equal(t, 1, st.CurrentIndex)
	assert.Equal(t, game.PhaseAwaitingAnswer, st.Phase)
	assert.Positive(t, st.TimeRemainingMs, "a fresh countdown starts for the next card")
}

func TestSpeedRoundTimeBonus(t *testing.T) {
	t.Parallel()

	e := newEngine(t, testConfig(), nil, nil)
	deck := newDeck(t, domain.DifficultyMedium)

	s, err := e.Start(context.Background(), uuid.New(), deck, domain.GameModeSpeedRound)
	require.NoError(t, err)
	defer s.Close()

	card := answerFor(t, deck, s.State())
	require.NoError(t, s.SubmitAnswer(card.Answer))

	st := s.State()
	// 20 base plus floor(seconds left) * 2 with 29-30 seconds left.
	assert.GreaterOrEqual(t, st.Score, 20+29*2)
	assert.LessOrEqual(t, st.Score, 20+30*2)
	assert.Positive(t, st.TimeRemainingMs)

	remaining := st.TimeRemainingMs
	time.Sleep(250 * time.Millisecond)
	assert.Equal(t, remaining, s.State().TimeRemainingMs, "the countdown stops on submission")
}

func TestCloseCancelsTimers(t *testing.T) {
	t.Parallel()

	cfg := testConfig()
	cfg.SpeedRoundDuration = 30 * time.Millisecond
	cfg.TickInterval = 10 * time.Millisecond
	emitter := &recordingEmitter{}
	e := newEngine(t, cfg, nil, emitter)

	var log stateLog
	s, err := e.Start(context.Background(), uuid.New(), newDeck(t, domain.DifficultyEasy),
		domain.GameModeSpeedRound, game.WithObserver(log.observe))
	require.NoError(t, err)

	s.Close()
	s.Close()
	time.Sleep(80 * time.Millisecond)

	st := s.State()
	assert.True(t, st.Closed)
	assert.Equal(t, 0, st.IncorrectAnswers)
	assert.ErrorIs(t, s.SubmitAnswer("x"), game.ErrSessionClosed)
	assert.ErrorIs(t, s.Skip(), game.ErrSessionClosed)
	assert.Empty(t, emitter.results(t))

	states := log.ordered()
	require.NotEmpty(t, states)
	assert.True(t, states[len(states)-1].Closed)
}

// blockingOptions never has enough deck answers and holds each generation
// call until the answer it was made for is released.
type blockingOptions struct {
	mu    sync.Mutex
	gates map[string]chan struct{}
}

func (b *blockingOptions) gate(answer string) chan struct{} {
	b.mu.Lock()
	defer b.mu.Unlock()
	if b.gates == nil {
		b.gates = make(map[string]chan struct{})
	}
	ch, ok := b.gates[answer]
	if !ok {
		ch = make(chan struct{})
		b.gates[answer] = ch
	}
	return ch
}

func (b *blockingOptions) release(answer string) {
	close(b.gate(answer))
}

func (b *blockingOptions) FromDeck(string, []string, int) ([]string, bool) {
	return nil, false
}

func (b *blockingOptions) GenerateOptions(ctx context.Context, correct string, _ []string, _ int) []string {
	select {
	case <-b.gate(correct):
	case <-ctx.Done():
	}
	return []string{correct, "for " + correct}
}

func TestStaleOptionsAreDiscarded(t *testing.T) {
	t.Parallel()

	options := &blockingOptions{}
	e := newEngine(t, testConfig(), options, nil)
	deck := newDeck(t, domain.DifficultyEasy, domain.DifficultyEasy)

	s, err := e.Start(context.Background(), uuid.New(), deck, domain.GameModeQuiz)
	require.NoError(t, err)
	defer s.Close()

	st := s.State()
	assert.False(t, st.OptionsReady)
	first := answerFor(t, deck, st)

	require.NoError(t, s.Skip())
	require.NoError(t, s.Next())

	second := answerFor(t, deck, s.State())
	options.release(second.Answer)
	assert.Eventually(t, func() bool { return s.State().OptionsReady }, time.Second, 5*time.Millisecond)
	assert.Contains(t, s.State().Options, second.Answer)

	options.release(first.Answer)
	time.Sleep(50 * time.Millisecond)
	assert.Equal(t, []string{second.Answer, "for " + second.Answer}, s.State().Options)
}

func TestSessionInvariants(t *testing.T) {
	t.Parallel()

	cfg := testConfig()
	cfg.RevealDelay = 0
	e := newEngine(t, cfg, nil, nil)

	difficulties := make([]domain.Difficulty, 0, 12)
	for i := 0; i < 12; i++ {
		difficulties = append(difficulties, []domain.Difficulty{
			domain.DifficultyEasy, domain.DifficultyMedium, domain.DifficultyHard,
		}[i%3])
	}
	deck := newDeck(t, difficulties...)

	for _, mode := range []domain.GameMode{domain.GameModeFlashcard, domain.GameModeQuiz} {
		t.Run(string(mode), func(t *testing.T) {
			t.Parallel()

			var log stateLog
			s, err := e.Start(context.Background(), uuid.New(), deck, mode, game.WithObserver(log.observe))
			require.NoError(t, err)
			defer s.Close()

			for i := 0; i < len(deck.Cards); i++ {
				var st game.State
				require.Eventually(t, func() bool {
					st = s.State()
					return st.Phase == game.PhaseAwaitingAnswer && st.CurrentIndex == i
				}, time.Second, time.Millisecond)

				card := answerFor(t, deck, st)
				switch {
				case mode == domain.GameModeFlashcard:
					require.NoError(t, s.MarkCard(i%4 != 3))
				case i%5 == 4:
					require.NoError(t, s.Skip())
				default:
					require.NoError(t, s.SubmitAnswer(card.Answer))
				}
			}
			require.Eventually(t, func() bool { return s.State().IsComplete }, time.Second, time.Millisecond)

			prevScore, prevMax := 0, 0
			for _, st := range log.ordered() {
				answered := st.CorrectAnswers + st.IncorrectAnswers
				switch st.Phase {
				case game.PhaseAwaitingAnswer:
					assert.Equal(t, st.CurrentIndex, answered)
				case game.PhaseRevealed:
					assert.Equal(t, st.CurrentIndex+1, answered)
				case game.PhaseComplete:
					assert.Equal(t, st.TotalCards, answered)
					assert.Equal(t, st.TotalCards, st.CurrentIndex)
				}
				assert.GreaterOrEqual(t, st.Streak, 0)
				assert.LessOrEqual(t, st.Streak, st.MaxStreak)
				assert.GreaterOrEqual(t, st.Score, prevScore)
				assert.GreaterOrEqual(t, st.MaxStreak, prevMax)
				prevScore, prevMax = st.Score, st.MaxStreak
			}
		})
	}
}

func TestNewConfigFillsDefaults(t *testing.T) {
	t.Parallel()

	cfg := game.NewConfig(config.GameConfig{RevealDelay: 0, OptionCount: 1})

	assert.Equal(t, game.DefaultSpeedRoundDuration, cfg.SpeedRoundDuration)
	assert.Equal(t, game.DefaultTickInterval, cfg.TickInterval)
	assert.Equal(t, time.Duration(0), cfg.RevealDelay)
	assert.Equal(t, game.DefaultOptionCount, cfg.OptionCount)

	negative := game.NewConfig(config.GameConfig{RevealDelay: -time.Second})
	assert.Equal(t, game.DefaultRevealDelay, negative.RevealDelay)
}

func TestZeroRevealDelayAdvancesImmediately(t *testing.T) {
	t.Parallel()

	cfg := testConfig()
	cfg.RevealDelay = 0
	e := newEngine(t, cfg, nil, nil)
	deck := newDeck(t, domain.DifficultyEasy, domain.DifficultyMedium)

	s, err := e.Start(context.Background(), uuid.New(), deck, domain.GameModeQuiz)
	require.NoError(t, err)
	defer s.Close()

	require.NoError(t, s.Skip())
	require.Eventually(t, func() bool {
		return s.State().CurrentIndex == 1
	}, time.Second, 5*time.Millisecond)
}
