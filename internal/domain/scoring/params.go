package scoring

// Params defines all configurable parameters for the scoring policy
type Params struct {
	// StreakBonusThreshold is the streak entering a question from which
	// a correct answer earns the streak bonus.
	StreakBonusThreshold int

	// StreakBonusDivisor divides the base points to give the streak bonus.
	StreakBonusDivisor int

	// SpeedBonusPerSecond is awarded per whole second left on the countdown
	// in speed-round mode.
	SpeedBonusPerSecond int

	// FriendCorrectPoints is the fixed award for a correct friend-mode judgment.
	FriendCorrectPoints int
}

// ParamsConfig allows overriding the default parameters when creating a new Params instance.
// Zero values keep the default.
type ParamsConfig struct {
	StreakBonusThreshold int
	StreakBonusDivisor   int
	SpeedBonusPerSecond  int
	FriendCorrectPoints  int
}

// NewDefaultParams creates a new Params instance with default values
func NewDefaultParams() *Params {
	return &Params{
		StreakBonusThreshold: 5,
		StreakBonusDivisor:   2,
		SpeedBonusPerSecond:  2,
		FriendCorrectPoints:  20,
	}
}

// NewParams creates a new Params instance with custom values
func NewParams(config ParamsConfig) *Params {
	params := NewDefaultParams()

	if config.StreakBonusThreshold > 0 {
		params.StreakBonusThreshold = config.StreakBonusThreshold
	}
	if config.StreakBonusDivisor > 0 {
		params.StreakBonusDivisor = config.StreakBonusDivisor
	}
	if config.SpeedBonusPerSecond > 0 {
		params.SpeedBonusPerSecond = config.SpeedBonusPerSecond
	}
	if config.FriendCorrectPoints > 0 {
		params.FriendCorrectPoints = config.FriendCorrectPoints
	}

	return params
}
