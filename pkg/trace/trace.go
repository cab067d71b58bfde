package trace

import (
	"github.com/ja7ad/chipletpower/pkg/chiplet"
	"github.com/ja7ad/chipletpower/pkg/types"
	"github.com/ja7ad/chipletpower/pkg/util"
)

// Interval is the constant power held by one stage over [Start, End).
type Interval struct {
	Stage string
	Start float64 // s
	End   float64 // s
	Power float64 // W
}

// Width returns End - Start. Zero-duration stages have zero width.
func (iv Interval) Width() float64 { return iv.End - iv.Start }

// Trace is a piecewise-constant, right-continuous power signal with one
// interval per stage, in input order.
type Trace struct {
	boundaries []float64
	intervals  []Interval
	energy     types.Picojoules
}

// Boundaries returns the cumulative stage boundaries: len(stages)+1 entries,
// starting at 0 and non-decreasing.
func (t Trace) Boundaries() []float64 {
	if len(t.boundaries) == 0 {
		return []float64{0}
	}
	out := make([]float64, len(t.boundaries))
	copy(out, t.boundaries)
	return out
}

// Intervals returns one interval per stage, including zero-width ones.
func (t Trace) Intervals() []Interval {
	out := make([]Interval, len(t.intervals))
	copy(out, t.intervals)
	return out
}

// Elapsed returns the last boundary, which equals the sum of stage durations.
func (t Trace) Elapsed() float64 {
	if len(t.boundaries) == 0 {
		return 0
	}
	return t.boundaries[len(t.boundaries)-1]
}

// Energy returns the total energy of all stages.
func (t Trace) Energy() types.Picojoules { return t.energy }

// AveragePower returns total energy over elapsed time in watts, or 0 when no
// time elapses.
func (t Trace) AveragePower() float64 {
	return chiplet.EnergyToPower(t.energy, t.Elapsed())
}

// At returns the power at time sec. The value of interval i holds on
// [Start, End), so a boundary belongs to the stage that begins there.
// Zero-width intervals never match. Outside [0, Elapsed) the result is 0.
func (t Trace) At(sec float64) float64 {
	for _, iv := range t.intervals {
		if sec >= iv.Start && sec < iv.End {
			return iv.Power
		}
	}
	return 0
}

// Points returns a step polyline for plotting: each interval contributes its
// start and end with the interval's power repeated. A trace whose stages all
// take zero time collapses to the single point (0, 0).
func (t Trace) Points() (times, powers []float64) {
	if t.Elapsed() <= 0 {
		return []float64{0}, []float64{0}
	}
	times = make([]float64, 0, 2*len(t.intervals))
	powers = make([]float64, 0, 2*len(t.intervals))
	for _, iv := range t.intervals {
		times = append(times, iv.Start, iv.End)
		powers = append(powers, iv.Power, iv.Power)
	}
	return times, powers
}

// Assembler builds a Trace from stage results applied in pipeline order.
type Assembler struct {
	durations []float64
	intervals []Interval
	energyCum types.Picojoules
	elapsed   float64
}

// New returns an empty assembler.
func New() *Assembler {
	return &Assembler{}
}

// Apply appends r after the stages applied so far and returns its interval.
func (a *Assembler) Apply(r chiplet.Result) Interval {
	iv := Interval{
		Stage: r.Name(),
		Start: a.elapsed,
		End:   a.elapsed + r.Duration(),
		Power: r.Power(),
	}
	a.durations = append(a.durations, r.Duration())
	a.intervals = append(a.intervals, iv)
	a.energyCum += r.Energy()
	a.elapsed = iv.End
	return iv
}

// EnergyCum returns the energy of all applied stages.
func (a *Assembler) EnergyCum() types.Picojoules { return a.energyCum }

// Elapsed returns the end time of the last applied stage.
func (a *Assembler) Elapsed() float64 { return a.elapsed }

// Average returns the time-weighted average power of the applied stages.
func (a *Assembler) Average() float64 {
	return chiplet.EnergyToPower(a.energyCum, a.elapsed)
}

// Trace snapshots the applied stages. Further Apply calls do not affect the
// returned value.
func (a *Assembler) Trace() Trace {
	iv := make([]Interval, len(a.intervals))
	copy(iv, a.intervals)
	return Trace{
		boundaries: util.CumSum(a.durations),
		intervals:  iv,
		energy:     a.energyCum,
	}
}

// Assemble builds the trace of results in the given order.
func Assemble(results []chiplet.Result) Trace {
	a := New()
	for _, r := range results {
		a.Apply(r)
	}
	return a.Trace()
}
