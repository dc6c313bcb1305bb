package services

import "github.com/culturallm/culturallm-backend/internal/types"

// fibonacciThreshold is the score required to hold a given level. Levels 1
// and 2 both sit at 50 points; from level 3 on the threshold follows the
// Fibonacci sequence seeded at (1, 1), scaled by 50: 50, 50, 100, 150, 250...
func fibonacciThreshold(level int) int {
	if level <= 1 {
		return 50
	}
	a, b := 1, 1
	for i := 2; i < level; i++ {
		a, b = b, a+b
	}
	return b * 50
}

// levelForScore returns the current level and the score needed to reach the
// next one. Level is the largest L >= 1 with score >= fibonacciThreshold(L);
// a score of 0 is level 1.
func levelForScore(score int) types.LevelInfo {
	level := 1
	for score >= fibonacciThreshold(level+1) {
		level++
	}
	return types.LevelInfo{
		Level:         level,
		NextThreshold: fibonacciThreshold(level + 1),
	}
}
