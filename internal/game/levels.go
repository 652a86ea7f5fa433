package game

import (
	"fmt"
	"math"
)

// LevelGoal returns the score threshold that must be exceeded to leave the
// given level. Goals grow geometrically, never drop below the base goal, and
// saturate at the int64 maximum once the curve leaves integer range, so the
// progression loop always terminates for any representable score.
func LevelGoal(level int) int64 {
	if level < 0 {
		level = 0
	}
	goal := math.Round(baseLevelGoal * math.Pow(levelGoalGrowth, float64(level)))
	if goal < baseLevelGoal {
		goal = baseLevelGoal
	}
	if goal >= math.MaxInt64 {
		return math.MaxInt64
	}
	return int64(goal)
}

// LevelTitle maps a level to its display title. Levels past the ladder get a
// numbered fallback so the progression never runs out of names.
func (c *Catalog) LevelTitle(level int) string {
	if level < 0 {
		level = 0
	}
	if level < len(c.LevelTitles) {
		return c.LevelTitles[level]
	}
	return fmt.Sprintf("Покоритель #%d", level+1)
}

// LevelForScore rederives the level a score implies, walking the same goal
// ladder the click path uses. Restored snapshots are normalized through this
// so level and score can never disagree.
func LevelForScore(score int64) int {
	level := 0
	for score > LevelGoal(level) {
		level++
	}
	return level
}
