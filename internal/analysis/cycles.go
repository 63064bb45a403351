package analysis

import "math"

// CountCompleteCycles counts excursions that rose above the threshold and
// later returned to the neutral band. Counting threshold breaches alone
// would overcount opportunities that can never be closed at break-even, so a
// cycle only completes on the return to neutral.
//
// The scan is a two-state machine evaluated row by row in timestamp order:
// idle until above[i] arms it, armed until neutral[i] completes the cycle
// and disarms it. Rows where neither flag holds leave the state unchanged.
// A breach with no subsequent neutral return before the series ends
// contributes nothing.
func CountCompleteCycles(above, neutral []bool) int {
	cycles := 0
	armed := false

	for i := range above {
		if above[i] {
			armed = true
		} else if neutral[i] && armed {
			cycles++
			armed = false
		}
	}

	return cycles
}

// CountZeroCrossings counts true sign flips of the deviation between
// consecutive rows: sign(d[i]) * sign(d[i-1]) < 0. Multiplying signs rather
// than comparing values means a pass that lands exactly on zero is counted
// once, not twice. The first row has no predecessor and cannot be a
// crossing; NaN entries never form a crossing with either neighbor.
func CountZeroCrossings(deviations []float64) int {
	crossings := 0
	for i := 1; i < len(deviations); i++ {
		if math.IsNaN(deviations[i]) || math.IsNaN(deviations[i-1]) {
			continue
		}
		if sign(deviations[i])*sign(deviations[i-1]) < 0 {
			crossings++
		}
	}
	return crossings
}

func sign(x float64) int {
	switch {
	case x > 0:
		return 1
	case x < 0:
		return -1
	default:
		return 0
	}
}

// IsPatternBreak reports whether the series ended still outside the
// threshold, i.e. the most recent excursion is open and the cycle count
// understates what a longer capture might show. A NaN final row cannot
// exceed any threshold.
func IsPatternBreak(deviations []float64, level float64) bool {
	if len(deviations) == 0 {
		return false
	}
	last := deviations[len(deviations)-1]
	return math.Abs(last) > level
}
