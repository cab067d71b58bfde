package chiplet

import (
	"fmt"

	"github.com/ja7ad/chipletpower/pkg/types"
)

// Stage identifies one phase of the accelerator pipeline.
type Stage int

const (
	Load      Stage = iota // DRAM -> SRAM through the IO path
	Compute                // PE array
	Writeback              // results back into SRAM
)

func (s Stage) String() string {
	switch s {
	case Load:
		return "DRAM → SRAM"
	case Compute:
		return "PE Compute"
	case Writeback:
		return "Write Back"
	default:
		return fmt.Sprintf("stage(%d)", int(s))
	}
}

// Pipeline returns the stages in execution order.
func Pipeline() []Stage { return []Stage{Load, Compute, Writeback} }

// Component is one additive term of a stage's energy.
type Component struct {
	Name   string
	Energy types.Picojoules
}

// Result is the outcome of one stage model. Power is derived from energy and
// duration at construction and cannot be set independently.
type Result struct {
	stage      Stage
	energy     types.Picojoules
	duration   float64
	power      float64
	components []Component
}

func newResult(s Stage, duration float64, components ...Component) Result {
	var e types.Picojoules
	for _, c := range components {
		e += c.Energy
	}
	return Result{
		stage:      s,
		energy:     e,
		duration:   duration,
		power:      EnergyToPower(e, duration),
		components: components,
	}
}

// Stage returns which pipeline stage produced r.
func (r Result) Stage() Stage { return r.stage }

// Name returns the fixed display name of the stage.
func (r Result) Name() string { return r.stage.String() }

// Energy returns the stage energy in pJ.
func (r Result) Energy() types.Picojoules { return r.energy }

// Duration returns the stage duration in seconds.
func (r Result) Duration() float64 { return r.duration }

// Power returns the average stage power in watts.
func (r Result) Power() float64 { return r.power }

// Components returns a copy of the energy breakdown; the terms sum to Energy.
func (r Result) Components() []Component {
	out := make([]Component, len(r.components))
	copy(out, r.components)
	return out
}

// Estimate runs the model of stage s against c.
func Estimate(s Stage, c Constants) (Result, error) {
	switch s {
	case Load:
		return LoadStage(c)
	case Compute:
		return ComputeStage(c)
	case Writeback:
		return WritebackStage(c)
	default:
		return Result{}, fmt.Errorf("%w: %d", ErrUnknownStage, int(s))
	}
}

// LoadStage models moving the whole workload from DRAM into SRAM. Energy is
// the DRAM read, the IO path traversal and the SRAM write (costed as an SRAM
// read). The transfer saturates LoadBandwidth for its whole duration.
func LoadStage(c Constants) (Result, error) {
	if err := c.validateLoad(); err != nil {
		return Result{}, err
	}
	bits := c.Bits.Float()
	return newResult(Load, bits/c.LoadBandwidth,
		Component{"dram read", types.Picojoules(bits * c.EDRAMRead)},
		Component{"io transfer", types.Picojoules(bits * c.EIOTransfer)},
		Component{"sram write", types.Picojoules(bits * c.ESRAMAccess)},
	), nil
}

// ComputeStage models the PE array executing the layer's MACs. Work is split
// evenly across PEs and each PE retires one operation per cycle, so every PE
// finishes after opsPerPE cycles.
func ComputeStage(c Constants) (Result, error) {
	if err := c.validateCompute(); err != nil {
		return Result{}, err
	}
	numPE := float64(c.NumPE)
	opsPerPE := float64(c.Ops()) / numPE
	energyPerPE := opsPerPE * c.EPEOp
	return newResult(Compute, opsPerPE/float64(c.ClockFreq),
		Component{"pe ops", types.Picojoules(energyPerPE * numPE)},
	), nil
}

// WritebackStage models storing the results into SRAM.
// The output is assumed to be as large as the input workload.
func WritebackStage(c Constants) (Result, error) {
	if err := c.validateWriteback(); err != nil {
		return Result{}, err
	}
	bits := c.Bits.Float()
	return newResult(Writeback, bits/c.WriteBandwidth,
		Component{"sram write", types.Picojoules(bits * c.ESRAMAccess)},
	), nil
}
