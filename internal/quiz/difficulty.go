package quiz

import (
	"fmt"
	"strings"
)

// Difficulty is the level a quiz is generated for.
type Difficulty string

const (
	Beginner     Difficulty = "Beginner"
	Intermediate Difficulty = "Intermediate"
	Advanced     Difficulty = "Advanced"
)

// Difficulties lists every level in ascending order.
var Difficulties = []Difficulty{Beginner, Intermediate, Advanced}

// ParseDifficulty matches s case-insensitively against the known levels.
func ParseDifficulty(s string) (Difficulty, error) {
	for _, d := range Difficulties {
		if strings.EqualFold(strings.TrimSpace(s), string(d)) {
			return d, nil
		}
	}
	return "", fmt.Errorf("unknown difficulty %q (want Beginner, Intermediate or Advanced)", s)
}

// Valid reports whether d is one of the known levels.
func (d Difficulty) Valid() bool {
	for _, k := range Difficulties {
		if d == k {
			return true
		}
	}
	return false
}

// Next returns the level a follow-up quiz uses. Advanced stays Advanced.
// An unrecognized level restarts the ladder at Beginner.
func (d Difficulty) Next() Difficulty {
	for i, k := range Difficulties {
		if d != k {
			continue
		}
		if i == len(Difficulties)-1 {
			return k
		}
		return Difficulties[i+1]
	}
	return Beginner
}

func (d Difficulty) String() string { return string(d) }
