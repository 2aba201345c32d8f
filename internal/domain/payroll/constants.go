package payroll

import "fmt"

const (
	// DaysPerMonth is the fixed 30-day month convention every wage
	// derivation divides by, regardless of calendar month length.
	DaysPerMonth = 30

	MinutesPerHour = 60

	// LatePenaltyMultiplier prices each late minute at three minutes of
	// wage under the penalized policy. Fixed business rule, not tunable.
	LatePenaltyMultiplier = 3

	// DefaultHoursPerDay is assumed when a snapshot record omits
	// hours_per_day.
	DefaultHoursPerDay = 8
)

// LatePolicy selects how lateness is priced. The two deployed variants
// differ only in whether the per-minute rate carries the penalty
// multiplier.
type LatePolicy string

const (
	// PenalizedLateness deducts late_minutes at LatePenaltyMultiplier
	// times the minute wage.
	PenalizedLateness LatePolicy = "penalized"

	// ProportionalLateness deducts late_minutes at exactly the minute
	// wage.
	ProportionalLateness LatePolicy = "proportional"
)

func (p LatePolicy) multiplier() float64 {
	if p == ProportionalLateness {
		return 1
	}
	return LatePenaltyMultiplier
}

func ParseLatePolicy(value string) (LatePolicy, error) {
	switch LatePolicy(value) {
	case PenalizedLateness, ProportionalLateness:
		return LatePolicy(value), nil
	case "":
		return PenalizedLateness, nil
	}
	return "", fmt.Errorf("unknown late policy %q", value)
}
