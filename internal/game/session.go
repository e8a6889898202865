package game

import (
	"context"
	"errors"
	"log/slog"
	"math/rand"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/scrynotes/memorygame/internal/domain"
	"github.com/scrynotes/memorygame/internal/domain/scoring"
	"github.com/scrynotes/memorygame/internal/events"
)

// Session is one play-through of a deck in a single-player mode.
type Session struct {
	id        uuid.UUID
	userID    uuid.UUID
	deckID    uuid.UUID
	deckTitle string
	mode      domain.GameMode
	cards     []domain.FlashCard
	pool      []string

	cfg       Config
	scorer    scoring.Service
	optionGen OptionGenerator
	emitter   events.EventEmitter
	observer  func(State)
	logger    *slog.Logger
	rng       *rand.Rand

	ctx    context.Context
	cancel context.CancelFunc

	mu sync.Mutex

	index     int
	correct   int
	incorrect int
	score     int
	streak    int
	maxStreak int
	outcomes  []domain.CardOutcome

	// generation is bumped whenever the current card changes or the session
	// closes; timer and option callbacks compare against it.
	generation uint64
	version    uint64

	selected     string
	revealed     bool
	lastCorrect  bool
	lastPoints   int
	options      []string
	optionsReady bool

	timer         *countdown
	remainingAtOp time.Duration
	advanceTimer  *time.Timer

	complete  bool
	closed    bool
	startTime time.Time
	endTime   time.Time
	result    *domain.GameResult
	pending   *domain.GameResult
}

// ID returns the session identifier.
func (s *Session) ID() uuid.UUID {
	return s.id
}

// UserID returns the player who started the session.
func (s *Session) UserID() uuid.UUID {
	return s.userID
}

// Mode returns the session's game mode.
func (s *Session) Mode() domain.GameMode {
	return s.mode
}

// State returns a snapshot of the session.
func (s *Session) State() State {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.snapshotLocked()
}

// Result returns the terminal result once the session is complete.
func (s *Session) Result() (*domain.GameResult, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.result == nil {
		return nil, false
	}
	r := *s.result
	return &r, true
}

// SelectAnswer records a tentative choice in quiz and speed-round modes.
// It does not score and is ignored once the card is revealed.
func (s *Session) SelectAnswer(candidate string) error {
	return s.update(func() error {
		if err := s.checkOpenLocked(); err != nil {
			return err
		}
		if !s.mode.HasOptions() {
			return ErrWrongMode
		}
		if s.revealed {
			return errStale
		}
		s.selected = candidate
		return nil
	})
}

// SubmitAnswer judges candidate against the current card.
func (s *Session) SubmitAnswer(candidate string) error {
	return s.update(func() error {
		return s.submitLocked(&candidate)
	})
}

// Skip submits no answer for the current card. It always counts as incorrect.
func (s *Session) Skip() error {
	return s.update(func() error {
		return s.submitLocked(nil)
	})
}

// MarkCard grades the current flashcard as known or not and advances immediately.
func (s *Session) MarkCard(known bool) error {
	return s.update(func() error {
		if err := s.checkOpenLocked(); err != nil {
			return err
		}
		if s.mode != domain.GameModeFlashcard {
			return ErrWrongMode
		}
		if s.revealed {
			return ErrAnswerRevealed
		}
		s.judgeLocked(known, 0)
		s.advanceLocked()
		return nil
	})
}

// Next advances past a revealed card without waiting for the reveal delay.
func (s *Session) Next() error {
	return s.update(func() error {
		if err := s.checkOpenLocked(); err != nil {
			return err
		}
		if !s.revealed {
			return ErrNotRevealed
		}
		s.advanceLocked()
		return nil
	})
}

// Close discards the session, cancelling its timers and in-flight generation.
// It is safe to call more than once.
func (s *Session) Close() {
	_ = s.update(func() error {
		if s.closed {
			return errStale
		}
		s.closed = true
		s.generation++
		s.stopTimersLocked()
		s.cancel()
		return nil
	})
	s.logger.Debug("game session closed")
}

// update runs fn under the lock and, when it changed state, notifies the
// observer and publishes a pending result after the lock is released.
func (s *Session) update(fn func() error) error {
	s.mu.Lock()
	if err := fn(); err != nil {
		s.mu.Unlock()
		if errors.Is(err, errStale) {
			return nil
		}
		return err
	}
	s.version++
	state := s.snapshotLocked()
	result := s.pending
	s.pending = nil
	s.mu.Unlock()

	if s.observer != nil {
		s.observer(state)
	}
	if result != nil {
		s.publish(result)
	}
	return nil
}

func (s *Session) checkOpenLocked() error {
	if s.closed {
		return ErrSessionClosed
	}
	if s.complete {
		return ErrSessionComplete
	}
	return nil
}

// submitLocked scores an answer. A nil candidate is a skip or a timeout.
func (s *Session) submitLocked(candidate *string) error {
	if err := s.checkOpenLocked(); err != nil {
		return err
	}
	if s.revealed {
		return ErrAnswerRevealed
	}

	var remaining time.Duration
	if s.timer != nil {
		s.timer.Cancel()
		remaining = s.timer.Remaining()
	}

	card := s.cards[s.index]
	correct := candidate != nil && card.Matches(*candidate)
	if candidate != nil {
		s.selected = *candidate
	}
	s.judgeLocked(correct, remaining)
	s.remainingAtOp = remaining

	gen := s.generation
	s.advanceTimer = time.AfterFunc(s.cfg.RevealDelay, func() {
		_ = s.update(func() error {
			if s.closed || s.complete || gen != s.generation || !s.revealed {
				return errStale
			}
			s.advanceLocked()
			return nil
		})
	})
	return nil
}

// judgeLocked applies a correctness decision to the counters. The streak
// bonus reads the streak before this answer updates it.
func (s *Session) judgeLocked(correct bool, remaining time.Duration) {
	card := s.cards[s.index]
	points := s.scorer.Points(scoring.Answer{
		Difficulty:       card.Difficulty,
		PriorStreak:      s.streak,
		Mode:             s.mode,
		Correct:          correct,
		SecondsRemaining: remaining.Seconds(),
	})

	if correct {
		s.correct++
		s.streak++
		if s.streak > s.maxStreak {
			s.maxStreak = s.streak
		}
	} else {
		s.incorrect++
		s.streak = 0
	}
	s.score += points
	s.outcomes = append(s.outcomes, domain.CardOutcome{CardID: card.ID, Correct: correct})

	s.revealed = true
	s.lastCorrect = correct
	s.lastPoints = points
}

// advanceLocked moves to the next card or completes the session.
func (s *Session) advanceLocked() {
	s.stopTimersLocked()
	s.generation++
	s.index++

	s.selected = ""
	s.revealed = false
	s.options = nil
	s.optionsReady = false
	s.remainingAtOp = 0

	if s.index < len(s.cards) {
		s.prepareCardLocked()
		return
	}

	s.complete = true
	s.endTime = time.Now().UTC()
	s.result = &domain.GameResult{
		ID:             uuid.New(),
		SessionID:      s.id,
		DeckID:         s.deckID,
		UserID:         s.userID,
		Mode:           s.mode,
		Score:          s.score,
		CorrectAnswers: s.correct,
		TotalCards:     len(s.cards),
		MaxStreak:      s.maxStreak,
		TimeTakenMs:    s.endTime.Sub(s.startTime).Milliseconds(),
		CardOutcomes:   append([]domain.CardOutcome(nil), s.outcomes...),
		PlayedAt:       s.endTime,
	}
	s.pending = s.result
	s.cancel()

	s.logger.Info("game session complete",
		slog.Int("score", s.score),
		slog.Int("correct_answers", s.correct),
		slog.Int("total_cards", len(s.cards)),
		slog.Int("max_streak", s.maxStreak))
}

// prepareCardLocked loads options and starts the countdown for the current card.
func (s *Session) prepareCardLocked() {
	gen := s.generation

	if s.mode.HasOptions() {
		s.loadOptionsLocked(gen)
	}

	if s.mode == domain.GameModeSpeedRound {
		s.timer = startCountdown(s.cfg.SpeedRoundDuration, s.cfg.TickInterval,
			func(time.Duration) {
				_ = s.update(func() error {
					if s.closed || s.complete || gen != s.generation || s.revealed {
						return errStale
					}
					return nil
				})
			},
			func() {
				_ = s.update(func() error {
					if s.closed || s.complete || gen != s.generation || s.revealed {
						return errStale
					}
					s.logger.Debug("speed round timer expired", slog.Int("card_index", s.index))
					return s.submitLocked(nil)
				})
			},
		)
	}
}

// loadOptionsLocked uses in-deck options when possible and otherwise
// generates them in the background.
func (s *Session) loadOptionsLocked(gen uint64) {
	answer := s.cards[s.index].Answer
	if options, ok := s.optionGen.FromDeck(answer, s.pool, s.cfg.OptionCount); ok {
		s.options = options
		s.optionsReady = true
		return
	}

	go func() {
		ctx, cancel := context.WithTimeout(s.ctx, s.cfg.GenerationTimeout)
		defer cancel()

		options := s.optionGen.GenerateOptions(ctx, answer, s.pool, s.cfg.OptionCount)
		_ = s.update(func() error {
			if s.closed || gen != s.generation {
				s.logger.Debug("discarding options for a card the session has left")
				return errStale
			}
			s.options = options
			s.optionsReady = true
			return nil
		})
	}()
}

func (s *Session) stopTimersLocked() {
	if s.timer != nil {
		s.timer.Cancel()
		s.timer = nil
	}
	if s.advanceTimer != nil {
		s.advanceTimer.Stop()
		s.advanceTimer = nil
	}
}

// publish emits the completion event. Failures are logged and never reach the player.
func (s *Session) publish(result *domain.GameResult) {
	if s.emitter == nil {
		return
	}
	ctx := context.WithoutCancel(s.ctx)

	event, err := events.NewEvent(events.TypeGameCompleted, result)
	if err != nil {
		s.logger.ErrorContext(ctx, "failed to build completion event", slog.String("error", err.Error()))
		return
	}
	if err := s.emitter.EmitEvent(ctx, event); err != nil {
		s.logger.WarnContext(ctx, "failed to publish game result",
			slog.String("error", err.Error()),
			slog.String("event_id", event.ID.String()))
	}
}

func (s *Session) snapshotLocked() State {
	st := State{
		SessionID:         s.id,
		DeckID:            s.deckID,
		DeckTitle:         s.deckTitle,
		Mode:              s.mode,
		CurrentIndex:      s.index,
		TotalCards:        len(s.cards),
		OptionsReady:      s.optionsReady,
		SelectedAnswer:    s.selected,
		LastAnswerCorrect: s.lastCorrect,
		LastPoints:        s.lastPoints,
		Score:             s.score,
		CorrectAnswers:    s.correct,
		IncorrectAnswers:  s.incorrect,
		Streak:            s.streak,
		MaxStreak:         s.maxStreak,
		IsComplete:        s.complete,
		Closed:            s.closed,
		Version:           s.version,
	}

	switch {
	case s.complete:
		st.Phase = PhaseComplete
		r := *s.result
		st.Result = &r
	case s.revealed:
		st.Phase = PhaseRevealed
	default:
		st.Phase = PhaseAwaitingAnswer
	}

	if s.options != nil {
		st.Options = append([]string(nil), s.options...)
	}

	if !s.complete {
		card := s.cards[s.index]
		view := &CardView{
			ID:         card.ID,
			Question:   card.Question,
			Hint:       card.Hint,
			Category:   card.Category,
			Difficulty: card.Difficulty,
		}
		if s.revealed || s.mode == domain.GameModeFlashcard {
			view.Answer = card.Answer
		}
		st.Card = view

		switch {
		case s.revealed:
			st.TimeRemainingMs = s.remainingAtOp.Milliseconds()
		case s.timer != nil:
			st.TimeRemainingMs = s.timer.Remaining().Milliseconds()
		}
	}

	return st
}
