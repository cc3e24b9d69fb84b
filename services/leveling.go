// services/leveling.go - Leveling Calculator
package services

// levelThresholds maps level N to the cumulative XP required to reach it
// (index 0 = level 1 at 0 XP). The table is the single source of truth for
// levels: user.Level is always recomputed from XP through LevelForXP, never
// incremented ad hoc.
var levelThresholds = [10]int{
	0,    // level 1
	100,  // level 2
	250,  // level 3
	450,  // level 4
	700,  // level 5
	1000, // level 6
	1350, // level 7
	1750, // level 8
	2200, // level 9
	2700, // level 10
}

const MaxLevel = len(levelThresholds)

// LevelForXP maps cumulative XP to a level in [1, MaxLevel]. Monotonic
// non-decreasing in xp.
func LevelForXP(xp int) int {
	if xp < 0 {
		return 1
	}
	level := 1
	for i, threshold := range levelThresholds {
		if xp >= threshold {
			level = i + 1
		} else {
			break
		}
	}
	return level
}

// LevelProgress describes where within the current level an XP total sits.
// Next is nil at max level. Ratio is the fraction of the current span covered,
// clamped to [0, 1].
type LevelProgress struct {
	Level int      `json:"level"`
	Start int      `json:"start"`
	Next  *int     `json:"next"`
	Ratio float64  `json:"ratio"`
}

// ProgressForXP returns the level and fraction-of-span progress for an XP total.
func ProgressForXP(xp int) LevelProgress {
	if xp < 0 {
		xp = 0
	}
	level := LevelForXP(xp)
	start := levelThresholds[level-1]

	if level >= MaxLevel {
		return LevelProgress{Level: level, Start: start, Next: nil, Ratio: 1}
	}

	next := levelThresholds[level]
	ratio := float64(xp-start) / float64(next-start)
	if ratio < 0 {
		ratio = 0
	}
	if ratio > 1 {
		ratio = 1
	}
	return LevelProgress{Level: level, Start: start, Next: &next, Ratio: ratio}
}
