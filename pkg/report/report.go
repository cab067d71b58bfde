// Package report renders stage results and their power trace for people:
// the per-stage summary lines, a table, file exports (CSV, JSON, YAML, HTML)
// and a step plot of power over time.
package report

import (
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/ja7ad/chipletpower/pkg/chiplet"
	"github.com/ja7ad/chipletpower/pkg/trace"
)

// Report is the serializable view of one estimation run.
type Report struct {
	RunID       string    `json:"run_id" yaml:"run_id"`
	GeneratedAt time.Time `json:"generated_at" yaml:"generated_at"`
	Title       string    `json:"title" yaml:"title"`
	Config      Config    `json:"config" yaml:"config"`
	Stages      []Row     `json:"stages" yaml:"stages"`
	Boundaries  []float64 `json:"boundaries_s" yaml:"boundaries_s"`
	ElapsedS    float64   `json:"elapsed_s" yaml:"elapsed_s"`
	EnergyPJ    float64   `json:"energy_pj" yaml:"energy_pj"`
	AvgPowerW   float64   `json:"avg_power_w" yaml:"avg_power_w"`

	trace trace.Trace
}

// Config mirrors chiplet.Constants with units in the field names.
type Config struct {
	Bits              uint64  `json:"bits" yaml:"bits"`
	WorkloadSize      string  `json:"workload_size" yaml:"workload_size"`
	MatrixDim         int     `json:"matrix_dim" yaml:"matrix_dim"`
	WordBits          int     `json:"word_bits" yaml:"word_bits"`
	NumPE             int     `json:"num_pe" yaml:"num_pe"`
	ClockHz           float64 `json:"clock_hz" yaml:"clock_hz"`
	EDRAMReadPJ       float64 `json:"e_dram_read_pj_per_bit" yaml:"e_dram_read_pj_per_bit"`
	ESRAMAccessPJ     float64 `json:"e_sram_access_pj_per_bit" yaml:"e_sram_access_pj_per_bit"`
	EPEOpPJ           float64 `json:"e_pe_op_pj" yaml:"e_pe_op_pj"`
	EIOTransferPJ     float64 `json:"e_io_transfer_pj_per_bit" yaml:"e_io_transfer_pj_per_bit"`
	LoadBandwidthBps  float64 `json:"load_bandwidth_bps" yaml:"load_bandwidth_bps"`
	WriteBandwidthBps float64 `json:"write_bandwidth_bps" yaml:"write_bandwidth_bps"`
}

// Row is one stage of the run.
type Row struct {
	Stage      string      `json:"stage" yaml:"stage"`
	PowerW     float64     `json:"power_w" yaml:"power_w"`
	TimeS      float64     `json:"time_s" yaml:"time_s"`
	EnergyPJ   float64     `json:"energy_pj" yaml:"energy_pj"`
	EnergyMJ   float64     `json:"energy_mj" yaml:"energy_mj"` // pJ / 1e6, as printed in the summary
	StartS     float64     `json:"start_s" yaml:"start_s"`
	EndS       float64     `json:"end_s" yaml:"end_s"`
	Components []Component `json:"components" yaml:"components"`
}

// Component is one additive energy term of a stage.
type Component struct {
	Name     string  `json:"name" yaml:"name"`
	EnergyPJ float64 `json:"energy_pj" yaml:"energy_pj"`
}

// New builds the report of results, whose trace is tr.
// results and tr must come from the same run, in pipeline order.
func New(c chiplet.Constants, results []chiplet.Result, tr trace.Trace) Report {
	ivs := tr.Intervals()
	rows := make([]Row, 0, len(results))
	for i, r := range results {
		row := Row{
			Stage:    r.Name(),
			PowerW:   r.Power(),
			TimeS:    r.Duration(),
			EnergyPJ: float64(r.Energy()),
			EnergyMJ: r.Energy().Mega(),
		}
		if i < len(ivs) {
			row.StartS, row.EndS = ivs[i].Start, ivs[i].End
		}
		for _, cp := range r.Components() {
			row.Components = append(row.Components, Component{Name: cp.Name, EnergyPJ: float64(cp.Energy)})
		}
		rows = append(rows, row)
	}

	return Report{
		RunID:       uuid.New().String(),
		GeneratedAt: time.Now(),
		Title:       Title(c),
		Config:      configOf(c),
		Stages:      rows,
		Boundaries:  tr.Boundaries(),
		ElapsedS:    tr.Elapsed(),
		EnergyPJ:    float64(tr.Energy()),
		AvgPowerW:   tr.AveragePower(),
		trace:       tr,
	}
}

// Trace returns the trace the report was built from.
func (r Report) Trace() trace.Trace { return r.trace }

// Title names the modeled layer.
func Title(c chiplet.Constants) string {
	return fmt.Sprintf("Power Trace: %d×%d fully-connected layer", c.MatrixDim, c.MatrixDim)
}

func configOf(c chiplet.Constants) Config {
	return Config{
		Bits:              uint64(c.Bits),
		WorkloadSize:      c.Bits.Humanized(),
		MatrixDim:         c.MatrixDim,
		WordBits:          c.WordBits,
		NumPE:             c.NumPE,
		ClockHz:           float64(c.ClockFreq),
		EDRAMReadPJ:       c.EDRAMRead,
		ESRAMAccessPJ:     c.ESRAMAccess,
		EPEOpPJ:           c.EPEOp,
		EIOTransferPJ:     c.EIOTransfer,
		LoadBandwidthBps:  c.LoadBandwidth,
		WriteBandwidthBps: c.WriteBandwidth,
	}
}
