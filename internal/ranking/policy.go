package ranking

import "math"

// Policy holds the step tables that shape the rating coefficient. The default
// policy stages K by the average number of rated matches of the four players;
// LevelPolicy stages it by their average division level instead.
type Policy struct {
	// KSteps are checked in order; the first step whose MaxExperience exceeds the
	// average experience wins. ExperiencedK applies past the last step.
	KSteps       []KStep
	ExperiencedK float64
	// LevelKSteps, when set, replace KSteps. The first step whose MaxLevel is at
	// least the average division level wins; TopLevelK applies past the last step.
	LevelKSteps []LevelKStep
	TopLevelK   float64
	// ScoreSteps map games lost by the winner to a multiplier. Games above the
	// last step use NarrowWinFactor.
	ScoreSteps      []ScoreStep
	NarrowWinFactor float64
	// GapSteps are checked from the largest gap down.
	GapSteps []GapStep
}

// KStep applies K while average experience is below MaxExperience.
type KStep struct {
	MaxExperience float64
	K             float64
}

// LevelKStep applies K while the average division level is at most MaxLevel.
type LevelKStep struct {
	MaxLevel float64
	K        float64
}

// ScoreStep applies Factor while games lost by the winner are at most MaxGamesLost.
type ScoreStep struct {
	MaxGamesLost int
	Factor       float64
}

// GapStep applies Bonus when the team rating gap is above MinGap.
type GapStep struct {
	MinGap float64
	Bonus  float64
}

const (
	minScoreFactor    = 1.0
	maxScoreFactor    = 3.0
	minSurpriseFactor = 1.0
	maxSurpriseFactor = 2.5
	surpriseWeight    = 1.5
)

// DefaultPolicy returns the experience-keyed coefficient policy.
func DefaultPolicy() Policy {
	return Policy{
		KSteps: []KStep{
			{MaxExperience: 5, K: 150},
			{MaxExperience: 10, K: 120},
			{MaxExperience: 20, K: 90},
			{MaxExperience: 50, K: 70},
		},
		ExperiencedK: 50,
		ScoreSteps: []ScoreStep{
			{MaxGamesLost: 0, Factor: 3.0},
			{MaxGamesLost: 3, Factor: 2.5},
			{MaxGamesLost: 6, Factor: 2.0},
			{MaxGamesLost: 9, Factor: 1.5},
		},
		NarrowWinFactor: 1.2,
		GapSteps: []GapStep{
			{MinGap: 3000, Bonus: 2.5},
			{MinGap: 2000, Bonus: 2.0},
			{MinGap: 1000, Bonus: 1.6},
			{MinGap: 500, Bonus: 1.3},
		},
	}
}

// LevelPolicy returns the default policy with K keyed on division level:
// 40 up to level 5, 30 up to level 10, 20 above.
func LevelPolicy() Policy {
	p := DefaultPolicy()
	p.LevelKSteps = []LevelKStep{
		{MaxLevel: 5, K: 40},
		{MaxLevel: 10, K: 30},
	}
	p.TopLevelK = 20
	return p
}

// KeyedByLevel reports whether K depends on division level rather than experience.
func (p Policy) KeyedByLevel() bool {
	return len(p.LevelKSteps) > 0
}

// MatchKFactor picks the base coefficient from whichever average the policy is keyed on.
func (p Policy) MatchKFactor(avgExperience, avgLevel float64) float64 {
	if !p.KeyedByLevel() {
		return p.KFactor(avgExperience)
	}
	for _, step := range p.LevelKSteps {
		if avgLevel <= step.MaxLevel {
			return step.K
		}
	}
	return p.TopLevelK
}

// KFactor returns the base coefficient for the average experience of the match.
func (p Policy) KFactor(avgExperience float64) float64 {
	for _, step := range p.KSteps {
		if avgExperience < step.MaxExperience {
			return step.K
		}
	}
	return p.ExperiencedK
}

// ScoreFactor rewards decisive wins; the result is clamped to [1, 3].
func (p Policy) ScoreFactor(gamesLostByWinner int) float64 {
	factor := p.NarrowWinFactor
	for _, step := range p.ScoreSteps {
		if gamesLostByWinner <= step.MaxGamesLost {
			factor = step.Factor
			break
		}
	}
	return clamp(factor, minScoreFactor, maxScoreFactor)
}

// SurpriseFactor grows as the side's expected probability shrinks; clamped to [1, 2.5].
func (p Policy) SurpriseFactor(expected float64) float64 {
	return clamp(1+(1-expected)*surpriseWeight, minSurpriseFactor, maxSurpriseFactor)
}

// GapBonus amplifies the coefficient for lopsided pairings.
func (p Policy) GapBonus(gap float64) float64 {
	gap = math.Abs(gap)
	for _, step := range p.GapSteps {
		if gap > step.MinGap {
			return step.Bonus
		}
	}
	return 1.0
}

func clamp(v, lo, hi float64) float64 {
	return math.Max(lo, math.Min(hi, v))
}
