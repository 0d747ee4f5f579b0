package model

import (
	"fmt"
	"strings"
)

// Score is a hard/soft penalty pair. Both components accumulate negative
// magnitudes; a schedule is feasible iff Hard == 0. Comparison is
// lexicographic: hard first, soft as tie-breaker.
type Score struct {
	Hard int64
	Soft int64
}

// HardScore returns a score with only a hard component.
func HardScore(hard int64) Score { return Score{Hard: hard} }

// SoftScore returns a score with only a soft component.
func SoftScore(soft int64) Score { return Score{Soft: soft} }

// Add returns the component-wise sum of two scores.
func (s Score) Add(o Score) Score {
	return Score{Hard: s.Hard + o.Hard, Soft: s.Soft + o.Soft}
}

// Feasible reports whether no hard rule is violated.
func (s Score) Feasible() bool {
	return s.Hard == 0
}

// Cmp compares two scores lexicographically. Higher (closer to zero) is
// better. Returns -1, 0 or 1.
func (s Score) Cmp(o Score) int {
	if s.Hard != o.Hard {
		if s.Hard < o.Hard {
			return -1
		}
		return 1
	}
	if s.Soft != o.Soft {
		if s.Soft < o.Soft {
			return -1
		}
		return 1
	}
	return 0
}

// String renders the score in "0hard/0soft" notation.
func (s Score) String() string {
	return fmt.Sprintf("%dhard/%dsoft", s.Hard, s.Soft)
}

// ParseScore parses the "0hard/0soft" notation produced by String.
func ParseScore(s string) (Score, error) {
	var score Score
	if _, err := fmt.Sscanf(s, "%dhard/%dsoft", &score.Hard, &score.Soft); err != nil {
		return Score{}, fmt.Errorf("invalid score %q: %w", s, err)
	}
	return score, nil
}

// Score marshals as its string notation so clients see "0hard/0soft".
func (s Score) MarshalJSON() ([]byte, error) {
	return []byte(`"` + s.String() + `"`), nil
}

func (s *Score) UnmarshalJSON(data []byte) error {
	parsed, err := ParseScore(strings.Trim(string(data), `"`))
	if err != nil {
		return err
	}
	*s = parsed
	return nil
}

// ScoreAnalysis is the result of scoring a schedule rule by rule.
type ScoreAnalysis struct {
	Score       Score                `json:"score"`
	Constraints []ConstraintAnalysis `json:"constraints"`
}

// ConstraintAnalysis is one rule's contribution to the total score.
type ConstraintAnalysis struct {
	Name       string          `json:"name"`
	Score      Score           `json:"score"`
	MatchCount int             `json:"matchCount"`
	Matches    []MatchAnalysis `json:"matches,omitempty"`
}

// MatchAnalysis is a single violation of a rule, with the entities involved
// and the penalty it contributed.
type MatchAnalysis struct {
	Justification string `json:"justification"`
	Score         Score  `json:"score"`
}
