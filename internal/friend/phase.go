package friend

// Phase is the active step of the friend-mode cycle.
type Phase string

// Friend-mode phases, in cycle order.
const (
	PhaseQuizMasterTurn       Phase = "quiz_master_turn"
	PhaseWaitingForPlayer     Phase = "waiting_for_player"
	PhasePlayerTurn           Phase = "player_turn"
	PhaseWaitingForQuizMaster Phase = "waiting_for_quiz_master"
	PhaseJudging              Phase = "judging"
	PhaseFeedback             Phase = "feedback"
	PhaseEnded                Phase = "ended"
)

// IsHandoff reports whether p is a device hand-off gate.
func (p Phase) IsHandoff() bool {
	return p == PhaseWaitingForPlayer || p == PhaseWaitingForQuizMaster
}

// showsQuestion reports whether the question may be displayed in p.
func (p Phase) showsQuestion() bool {
	switch p {
	case PhasePlayerTurn, PhaseJudging, PhaseFeedback, PhaseQuizMasterTurn:
		return true
	default:
		return false
	}
}

// showsAnswer reports whether the player's answer may be displayed in p.
func (p Phase) showsAnswer() bool {
	return p == PhaseJudging || p == PhaseFeedback
}
