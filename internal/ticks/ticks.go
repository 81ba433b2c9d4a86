// Package ticks decides which heatmap columns get an axis label.
package ticks

// DefaultTarget is the number of labels aimed for on long horizons.
const DefaultTarget = 20

// TickPlan lists the column positions to label.
type TickPlan struct {
	Stride    int
	Positions []int
}

// Plan returns the plan for columnCount columns with the default target.
func Plan(columnCount int) TickPlan {
	return PlanWithTarget(columnCount, DefaultTarget)
}

// PlanWithTarget labels every stride-th column starting at column 0, where
// stride = max(1, columnCount/target). A target below 1 means DefaultTarget.
func PlanWithTarget(columnCount, target int) TickPlan {
	if target < 1 {
		target = DefaultTarget
	}
	stride := columnCount / target
	if stride < 1 {
		stride = 1
	}

	plan := TickPlan{Stride: stride}
	if columnCount <= 0 {
		return plan
	}
	plan.Positions = make([]int, 0, (columnCount+stride-1)/stride)
	for p := 0; p < columnCount; p += stride {
		plan.Positions = append(plan.Positions, p)
	}
	return plan
}

// Labels picks the labels at the planned positions. Positions past the end of
// labels are ignored.
func (p TickPlan) Labels(labels []string) []string {
	out := make([]string, 0, len(p.Positions))
	for _, pos := range p.Positions {
		if pos < len(labels) {
			out = append(out, labels[pos])
		}
	}
	return out
}

// Contains reports whether position is labelled.
func (p TickPlan) Contains(position int) bool {
	if position < 0 || len(p.Positions) == 0 {
		return false
	}
	return position%p.Stride == 0 && position <= p.Positions[len(p.Positions)-1]
}
