// Package leveling maps experience to levels and pet life stages.
package leveling

import "github.com/julianstephens/stampet/internal/constants"

// Stage is a pet life stage
type Stage string

const (
	StageEgg   Stage = "egg"
	StageBaby  Stage = "baby"
	StageChild Stage = "child"
	StageAdult Stage = "adult"
)

// StageInfo is display metadata for a stage. Only the Stage and thresholds are
// load-bearing; labels belong to whoever renders them.
type StageInfo struct {
	Stage       Stage
	Label       string
	Emoji       string
	Description string
	MinLevel    int
}

var stages = []StageInfo{
	{Stage: StageEgg, Label: "Egg", Emoji: "🥚", Description: "Something is stirring inside.", MinLevel: 1},
	{Stage: StageBaby, Label: "Baby", Emoji: "🐣", Description: "Freshly hatched and hungry for stamps.", MinLevel: constants.BabyMinLevel},
	{Stage: StageChild, Label: "Child", Emoji: "🐥", Description: "Growing fast and full of energy.", MinLevel: constants.ChildMinLevel},
	{Stage: StageAdult, Label: "Adult", Emoji: "🐓", Description: "Fully grown and ready for the Hall of Fame.", MinLevel: constants.AdultMinLevel},
}

// LevelFromExp returns 1 + floor(exp / ExpPerLevel). Negative exp is treated as zero.
func LevelFromExp(exp int) int {
	if exp < 0 {
		exp = 0
	}
	return 1 + exp/constants.ExpPerLevel
}

// StageFromLevel bands a level into a life stage.
func StageFromLevel(level int) Stage {
	switch {
	case level >= constants.AdultMinLevel:
		return StageAdult
	case level >= constants.ChildMinLevel:
		return StageChild
	case level >= constants.BabyMinLevel:
		return StageBaby
	default:
		return StageEgg
	}
}

// Info returns display metadata for a stage, falling back to the egg.
func Info(s Stage) StageInfo {
	for _, info := range stages {
		if info.Stage == s {
			return info
		}
	}
	return stages[0]
}

// ExpToNextLevel returns the exp still needed to reach the next level.
func ExpToNextLevel(exp int) int {
	if exp < 0 {
		exp = 0
	}
	return constants.ExpPerLevel - exp%constants.ExpPerLevel
}

// LevelsToNextStage returns how many levels remain until the next stage, or 0 at adult.
func LevelsToNextStage(level int) int {
	for _, info := range stages {
		if info.MinLevel > level {
			return info.MinLevel - level
		}
	}
	return 0
}

// CanRetire reports whether a pet at this level may enter the Hall of Fame.
func CanRetire(level int) bool {
	return StageFromLevel(level) == StageAdult
}

// WillLevelUp returns true if adding gainedExp to currentExp crosses a level boundary.
func WillLevelUp(currentExp, gainedExp int) bool {
	return LevelFromExp(currentExp+gainedExp) > LevelFromExp(currentExp)
}
