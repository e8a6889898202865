package friend

import (
	"context"
	"fmt"
	"log/slog"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/scrynotes/memorygame/internal/domain"
	"github.com/scrynotes/memorygame/internal/domain/scoring"
	"github.com/scrynotes/memorygame/internal/events"
)

// Engine starts friend-mode games.
type Engine struct {
	scorer  scoring.Service
	emitter events.EventEmitter
	logger  *slog.Logger
}

// NewEngine creates an Engine. emitter may be nil, in which case ended games
// are not published.
func NewEngine(scorer scoring.Service, emitter events.EventEmitter, logger *slog.Logger) (*Engine, error) {
	if scorer == nil {
		return nil, fmt.Errorf("%w: scorer cannot be nil", domain.ErrValidation)
	}
	if logger == nil {
		logger = slog.Default()
	}
	return &Engine{
		scorer:  scorer,
		emitter: emitter,
		logger:  logger.With(slog.String("component", "friend_engine")),
	}, nil
}

// Option configures a single game.
type Option func(*Game)

// WithObserver registers fn to receive a snapshot after every transition.
func WithObserver(fn func(State)) Option {
	return func(g *Game) {
		g.observer = fn
	}
}

// Start begins a game in the quiz master's turn with question number 1.
func (e *Engine) Start(ctx context.Context, userID uuid.UUID, opts ...Option) *Game {
	g := &Game{
		id:             uuid.New(),
		userID:         userID,
		scorer:         e.scorer,
		emitter:        e.emitter,
		ctx:            context.WithoutCancel(ctx),
		phase:          PhaseQuizMasterTurn,
		questionNumber: 1,
		startTime:      time.Now().UTC(),
	}
	for _, opt := range opts {
		opt(g)
	}
	g.logger = e.logger.With(slog.String("game_id", g.id.String()))
	g.logger.InfoContext(ctx, "friend game started")
	return g
}

// Game is one friend-mode play-through.
type Game struct {
	id       uuid.UUID
	userID   uuid.UUID
	scorer   scoring.Service
	emitter  events.EventEmitter
	observer func(State)
	logger   *slog.Logger
	ctx      context.Context

	mu             sync.Mutex
	phase          Phase
	questionNumber int
	question       string
	answer         string
	score          int
	correct        int
	judged         int
	streak         int
	maxStreak      int
	lastCorrect    bool
	version        uint64
	startTime      time.Time
	result         *domain.GameResult
}

// ID returns the game identifier.
func (g *Game) ID() uuid.UUID {
	return g.id
}

// UserID returns the user who started the game.
func (g *Game) UserID() uuid.UUID {
	return g.userID
}

// SubmitQuestion records the quiz master's question and moves to the hand-off to the player.
func (g *Game) SubmitQuestion(text string) error {
	return g.transition("SubmitQuestion", PhaseQuizMasterTurn, func() error {
		text = strings.TrimSpace(text)
		if text == "" {
			return ErrBlankQuestion
		}
		g.question = text
		g.phase = PhaseWaitingForPlayer
		return nil
	})
}

// ConfirmHandoffToPlayer confirms the device reached the player.
func (g *Game) ConfirmHandoffToPlayer() error {
	return g.transition("ConfirmHandoffToPlayer", PhaseWaitingForPlayer, func() error {
		g.phase = PhasePlayerTurn
		return nil
	})
}

// SubmitAnswer records the player's answer and moves to the hand-off back to the quiz master.
func (g *Game) SubmitAnswer(text string) error {
	return g.transition("SubmitAnswer", PhasePlayerTurn, func() error {
		text = strings.TrimSpace(text)
		if text == "" {
			return ErrBlankAnswer
		}
		g.answer = text
		g.phase = PhaseWaitingForQuizMaster
		return nil
	})
}

// ConfirmHandoffToQuizMaster confirms the device is back with the quiz master.
func (g *Game) ConfirmHandoffToQuizMaster() error {
	return g.transition("ConfirmHandoffToQuizMaster", PhaseWaitingForQuizMaster, func() error {
		g.phase = PhaseJudging
		return nil
	})
}

// Judge applies the quiz master's verdict and moves to feedback.
func (g *Game) Judge(correct bool) error {
	return g.transition("Judge", PhaseJudging, func() error {
		g.score += g.scorer.FriendPoints(correct)
		g.judged++
		if correct {
			g.correct++
			g.streak++
			if g.streak > g.maxStreak {
				g.maxStreak = g.streak
			}
		} else {
			g.streak = 0
		}
		g.lastCorrect = correct
		g.phase = PhaseFeedback
		return nil
	})
}

// Next starts the following question.
func (g *Game) Next() error {
	return g.transition("Next", PhaseFeedback, func() error {
		g.questionNumber++
		g.question = ""
		g.answer = ""
		g.phase = PhaseQuizMasterTurn
		return nil
	})
}

// End finishes the game from feedback or from the start of a question and
// returns the result. TotalCards counts the judged questions rather than
// questionNumber-1: ending straight from feedback happens before Next bumps
// questionNumber, so the question just judged would otherwise be dropped.
func (g *Game) End() (*domain.GameResult, error) {
	g.mu.Lock()
	if g.phase != PhaseFeedback && g.phase != PhaseQuizMasterTurn {
		err := &TransitionError{Operation: "End", Phase: g.phase}
		g.mu.Unlock()
		return nil, err
	}

	now := time.Now().UTC()
	g.phase = PhaseEnded
	g.result = &domain.GameResult{
		ID:             uuid.New(),
		SessionID:      g.id,
		UserID:         g.userID,
		Mode:           domain.GameModeFriend,
		Score:          g.score,
		CorrectAnswers: g.correct,
		TotalCards:     g.judged,
		MaxStreak:      g.maxStreak,
		TimeTakenMs:    now.Sub(g.startTime).Milliseconds(),
		PlayedAt:       now,
	}
	g.version++
	state := g.snapshotLocked()
	result := *g.result
	g.mu.Unlock()

	g.logger.Info("friend game ended",
		slog.Int("score", result.Score),
		slog.Int("total_questions", result.TotalCards))

	g.notify(state)
	g.publish(&result)
	return &result, nil
}

// State returns a snapshot of the game with hidden fields blanked for the current phase.
func (g *Game) State() State {
	g.mu.Lock()
	defer g.mu.Unlock()
	return g.snapshotLocked()
}

// transition runs fn if the game is in phase from.
func (g *Game) transition(op string, from Phase, fn func() error) error {
	g.mu.Lock()
	if g.phase != from {
		err := &TransitionError{Operation: op, Phase: g.phase}
		g.mu.Unlock()
		return err
	}
	if err := fn(); err != nil {
		g.mu.Unlock()
		return err
	}
	g.version++
	state := g.snapshotLocked()
	g.mu.Unlock()

	g.logger.Debug("friend game transition",
		slog.String("operation", op),
		slog.String("phase", string(state.Phase)))
	g.notify(state)
	return nil
}

func (g *Game) notify(state State) {
	if g.observer != nil {
		g.observer(state)
	}
}

// publish emits the completion event; failures are logged only.
func (g *Game) publish(result *domain.GameResult) {
	if g.emitter == nil {
		return
	}
	event, err := events.NewEvent(events.TypeFriendGameCompleted, result)
	if err != nil {
		g.logger.ErrorContext(g.ctx, "failed to build completion event", slog.String("error", err.Error()))
		return
	}
	if err := g.emitter.EmitEvent(g.ctx, event); err != nil {
		g.logger.WarnContext(g.ctx, "failed to publish friend game result",
			slog.String("error", err.Error()),
			slog.String("event_id", event.ID.String()))
	}
}
