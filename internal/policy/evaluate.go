package policy

import (
	"fmt"
	"math"
)

// warningMargin is how far below the threshold a percentage may fall before
// the band moves from warning to danger.
const warningMargin = 5.0

// Evaluator computes attendance statuses against a configurable default
// threshold. The zero value is not usable; construct with NewEvaluator.
type Evaluator struct {
	defaultMinPercentage float64
}

// NewEvaluator returns an Evaluator using the supplied fallback percentage
// for courses that configure no requirement. Non-positive values fall back to
// DefaultMinPercentage.
func NewEvaluator(defaultMinPercentage float64) *Evaluator {
	if defaultMinPercentage <= 0 || defaultMinPercentage > 100 {
		defaultMinPercentage = DefaultMinPercentage
	}
	return &Evaluator{defaultMinPercentage: defaultMinPercentage}
}

// Evaluate computes the attendance status for one course. It is a pure
// function: identical inputs always yield the identical Status, and no state
// is read or written.
func Evaluate(p Policy, c Counters) (Status, error) {
	return NewEvaluator(DefaultMinPercentage).Evaluate(p, c)
}

// Evaluate derives the current percentage, threshold banding, remaining
// can-miss budget, and outstanding class deficit for the supplied policy and
// counters.
func (e *Evaluator) Evaluate(p Policy, c Counters) (Status, error) {
	if err := validateInput(p, c); err != nil {
		return Status{}, err
	}

	req := p.resolve()
	semester := p.semesterTotal()

	// Denominator: the planned semester total when known, otherwise the
	// classes marked so far.
	total := c.Total
	if semester > 0 {
		total = semester
	}

	var percentage float64
	if total > 0 {
		percentage = round1(100 * float64(c.Attended) / float64(total))
	}

	threshold := e.effectiveThreshold(req, semester)

	status := Status{
		Percentage:       percentage,
		ThresholdPercent: threshold,
		AboveThreshold:   e.aboveThreshold(req, percentage, c.Attended),
		StillNeeded:      e.stillNeeded(p, semester, total, c.Attended),
		CanStillMiss:     canStillMiss(threshold, total, semester, c),
		Band:             BandOK,
		Applicable:       c.Total > 0,
	}

	if status.Applicable {
		status.Band = band(percentage, threshold)
	}

	return status, nil
}

func validateInput(p Policy, c Counters) error {
	if c.Total < 0 || c.Attended < 0 {
		return fmt.Errorf("%w: negative counters (total=%d, attended=%d)", ErrInvalidInput, c.Total, c.Attended)
	}
	if c.Attended > c.Total {
		return fmt.Errorf("%w: attended %d exceeds total %d", ErrInvalidInput, c.Attended, c.Total)
	}
	if p.MinPercentage != nil && (*p.MinPercentage < 0 || *p.MinPercentage > 100) {
		return fmt.Errorf("%w: minimum percentage %v out of range", ErrInvalidInput, *p.MinPercentage)
	}
	if p.MinClasses != nil && *p.MinClasses < 0 {
		return fmt.Errorf("%w: negative minimum class count %d", ErrInvalidInput, *p.MinClasses)
	}
	if p.SemesterTotal != nil && *p.SemesterTotal < 0 {
		return fmt.Errorf("%w: negative semester total %d", ErrInvalidInput, *p.SemesterTotal)
	}
	return nil
}

// effectiveThreshold is the percentage the banding and can-miss math compare
// against. An absolute class minimum converts to a percentage only when the
// semester total is known.
func (e *Evaluator) effectiveThreshold(req requirement, semester int) float64 {
	switch req.kind {
	case requirementPercentage:
		return req.percentage
	case requirementAbsoluteCount:
		if semester > 0 {
			return 100 * float64(req.classes) / float64(semester)
		}
	}
	return e.defaultMinPercentage
}

// aboveThreshold gates the "met requirement" versus "need N more" messaging.
// Unlike banding, an absolute class minimum is compared directly against the
// attended count.
func (e *Evaluator) aboveThreshold(req requirement, percentage float64, attended int) bool {
	switch req.kind {
	case requirementPercentage:
		return percentage >= req.percentage
	case requirementAbsoluteCount:
		return attended >= req.classes
	default:
		return percentage >= e.defaultMinPercentage
	}
}

// stillNeeded is the outstanding deficit against the minimum attended-class
// target. A configured class minimum governs the deficit even when a
// percentage is also set; the percentage-first resolution applies only to the
// threshold and above-threshold checks. Counts are compared directly instead
// of solving a ratio-preserving equation, which is unstable near a 100%
// threshold.
func (e *Evaluator) stillNeeded(p Policy, semester, total, attended int) int {
	var minRequired int
	switch {
	case p.MinClasses != nil && *p.MinClasses > 0:
		minRequired = *p.MinClasses
	case p.MinPercentage != nil && *p.MinPercentage > 0 && semester > 0:
		minRequired = int(math.Ceil(*p.MinPercentage / 100 * float64(semester)))
	default:
		minRequired = int(math.Ceil(e.defaultMinPercentage / 100 * float64(total)))
	}
	if needed := minRequired - attended; needed > 0 {
		return needed
	}
	return 0
}

// canStillMiss solves attended/(total+x) >= threshold for the largest integer
// x, then caps it by the classes actually left in the semester when that
// ceiling is known.
func canStillMiss(threshold float64, total, semester int, c Counters) int {
	ratio := threshold / 100
	theoretical := int(math.Floor((float64(c.Attended) - ratio*float64(total)) / ratio))

	remaining := theoretical
	if semester > 0 {
		remaining = semester - c.Total
		if remaining < 0 {
			remaining = 0
		}
	}

	result := min(theoretical, remaining)
	if result < 0 {
		return 0
	}
	return result
}

func band(percentage, threshold float64) Band {
	switch {
	case percentage >= threshold:
		return BandOK
	case percentage >= threshold-warningMargin:
		return BandWarning
	default:
		return BandDanger
	}
}

// round1 rounds to one decimal place, halves away from zero.
func round1(v float64) float64 {
	return math.Round(v*10) / 10
}
