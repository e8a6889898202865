package friend

import (
	"github.com/google/uuid"
	"github.com/scrynotes/memorygame/internal/domain"
)

// State is a snapshot of a friend-mode game as it may be shown on the
// shared device. Question and PlayerAnswer are empty in phases where the
// participant holding the device must not see them.
type State struct {
	GameID            uuid.UUID          `json:"game_id"`
	Phase             Phase              `json:"phase"`
	QuestionNumber    int                `json:"question_number"`
	Question          string             `json:"question,omitempty"`
	PlayerAnswer      string             `json:"player_answer,omitempty"`
	LastAnswerCorrect bool               `json:"last_answer_correct"`
	Score             int                `json:"score"`
	CorrectAnswers    int                `json:"correct_answers"`
	Streak            int                `json:"streak"`
	MaxStreak         int                `json:"max_streak"`
	Ended             bool               `json:"ended"`
	Result            *domain.GameResult `json:"result,omitempty"`
	Version           uint64             `json:"version"`
}

func (g *Game) snapshotLocked() State {
	st := State{
		GameID:         g.id,
		Phase:          g.phase,
		QuestionNumber: g.questionNumber,
		Score:          g.score,
		CorrectAnswers: g.correct,
		Streak:         g.streak,
		MaxStreak:      g.maxStreak,
		Ended:          g.phase == PhaseEnded,
		Version:        g.version,
	}
	if g.phase.showsQuestion() {
		st.Question = g.question
	}
	if g.phase.showsAnswer() {
		st.PlayerAnswer = g.answer
	}
	if g.phase == PhaseFeedback {
		st.LastAnswerCorrect = g.lastCorrect
	}
	if g.result != nil {
		r := *g.result
		st.Result = &r
	}
	return st
}
