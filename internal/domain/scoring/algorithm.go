package scoring

import (
	"math"

	"github.com/scrynotes/memorygame/internal/domain"
)

// basePoints returns the points for a correct answer at the given difficulty.
func basePoints(difficulty domain.Difficulty, correct bool) int {
	if !correct {
		return 0
	}
	return difficulty.Points()
}

// streakBonus applies to correct answers whose prior streak reached the threshold.
// priorStreak is the streak before the current answer takes effect.
func streakBonus(base, priorStreak int, params *Params) int {
	if base == 0 || priorStreak < params.StreakBonusThreshold {
		return 0
	}
	return base / params.StreakBonusDivisor
}

// speedBonus rewards whole seconds left on the countdown in speed rounds.
func speedBonus(mode domain.GameMode, correct bool, secondsRemaining float64, params *Params) int {
	if mode != domain.GameModeSpeedRound || !correct || secondsRemaining <= 0 {
		return 0
	}
	return int(math.Floor(secondsRemaining)) * params.SpeedBonusPerSecond
}

// calculatePoints combines the base, streak and speed components.
func calculatePoints(a Answer, params *Params) int {
	base := basePoints(a.Difficulty, a.Correct)
	if base == 0 {
		return 0
	}
	return base + streakBonus(base, a.PriorStreak, params) + speedBonus(a.Mode, a.Correct, a.SecondsRemaining, params)
}

// friendPoints is the fixed award for a friend-mode judgment.
func friendPoints(correct bool, params *Params) int {
	if !correct {
		return 0
	}
	return params.FriendCorrectPoints
}
