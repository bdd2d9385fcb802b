package leveling

import "math"

// MaxPlayerLevel caps experience-driven levels
const MaxPlayerLevel = 50

// XPForLevel returns the total XP required to reach a given level.
// Uses polynomial curve: 100 * level^1.5
func XPForLevel(level int) int {
	if level <= 1 {
		return 0
	}
	return int(100 * math.Pow(float64(level), 1.5))
}

// XPToNextLevel returns XP needed from current level to next level.
func XPToNextLevel(currentLevel int) int {
	if currentLevel >= MaxPlayerLevel {
		return 0
	}
	return XPForLevel(currentLevel+1) - XPForLevel(currentLevel)
}

// LevelForXP returns the level a player with the given total XP has reached.
func LevelForXP(xp int) int {
	level := 1
	for level < MaxPlayerLevel && xp >= XPForLevel(level+1) {
		level++
	}
	return level
}

// LevelUpInfo contains information about a level-up event
type LevelUpInfo struct {
	NewLevel   int
	Experience int // Total XP at the moment of the level-up
}
