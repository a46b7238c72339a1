package policy

import "errors"

// DefaultMinPercentage is the minimum-attendance percentage applied when a
// course configures neither a percentage nor an absolute class count.
const DefaultMinPercentage = 75.0

// Policy captures the minimum-attendance configuration of a single course.
// Every field is optional; a nil (or non-positive) value means the field does
// not participate in evaluation.
type Policy struct {
	// MinPercentage is the required attendance percentage (0-100].
	MinPercentage *float64
	// MinClasses is the absolute number of classes that must be attended.
	MinClasses *int
	// SemesterTotal is the planned number of class meetings for the whole
	// semester. When known it is the authoritative denominator for
	// percentage and remaining-classes arithmetic.
	SemesterTotal *int
}

// Counters holds the attendance tallies derived from a course's records.
type Counters struct {
	Total    int
	Attended int
}

// Band classifies how close the current percentage is to the threshold.
type Band string

const (
	BandOK      Band = "ok"
	BandWarning Band = "warning"
	BandDanger  Band = "danger"
)

// Status is the evaluation result for one course at one point in time.
type Status struct {
	// Percentage is the current attendance percentage, rounded to one
	// decimal place.
	Percentage float64
	// ThresholdPercent is the effective percentage the banding compares
	// against, which may be derived from an absolute class minimum.
	ThresholdPercent float64
	// AboveThreshold reports whether the configured requirement is met.
	AboveThreshold bool
	// CanStillMiss is the number of additional absences tolerable while
	// staying at or above the threshold.
	CanStillMiss int
	// StillNeeded is the number of additional attended classes required to
	// reach the minimum.
	StillNeeded int
	// Band is the tri-state classification used for status display.
	Band Band
	// Applicable is false while no classes have been marked, in which case
	// Band carries the neutral BandOK value.
	Applicable bool
}

// ErrInvalidInput indicates counters or policy fields that violate the
// evaluator's preconditions: negative values, or attended exceeding total.
// The evaluator fails closed on such input rather than clamping it.
var ErrInvalidInput = errors.New("policy: invalid input")

// requirementKind tags the resolved policy variant.
type requirementKind int

const (
	requirementDefault requirementKind = iota
	requirementPercentage
	requirementAbsoluteCount
)

// requirement is the resolved form of a Policy: exactly one variant applies.
type requirement struct {
	kind       requirementKind
	percentage float64
	classes    int
}

// resolve picks the governing variant. A configured percentage wins over an
// absolute class count; zero-valued fields are treated as absent.
func (p Policy) resolve() requirement {
	if p.MinPercentage != nil && *p.MinPercentage > 0 {
		return requirement{kind: requirementPercentage, percentage: *p.MinPercentage}
	}
	if p.MinClasses != nil && *p.MinClasses > 0 {
		return requirement{kind: requirementAbsoluteCount, classes: *p.MinClasses}
	}
	return requirement{kind: requirementDefault}
}

// semesterTotal returns the planned semester total, or 0 when unknown.
func (p Policy) semesterTotal() int {
	if p.SemesterTotal != nil && *p.SemesterTotal > 0 {
		return *p.SemesterTotal
	}
	return 0
}
