package chiplet

import (
	"fmt"

	"github.com/ja7ad/chipletpower/pkg/types"
	"github.com/sarchlab/akita/v4/sim"
)

// Constants holds the fixed parameters of the accelerator model.
// Units:
//   - Bits: workload size in bits (MatrixDim * MatrixDim * WordBits)
//   - ClockFreq: Hz
//   - EDRAMRead/ESRAMAccess/EIOTransfer: pJ per bit
//   - EPEOp: pJ per multiply-accumulate
//   - LoadBandwidth/WriteBandwidth: bits per second
//
// Constants is a value type; stage models receive a copy and never mutate it.
type Constants struct {
	Bits      types.Bits
	MatrixDim int
	WordBits  int

	NumPE     int
	ClockFreq sim.Freq

	EDRAMRead   float64
	ESRAMAccess float64
	EPEOp       float64
	EIOTransfer float64

	LoadBandwidth  float64
	WriteBandwidth float64
}

// _defaultConstants returns the reference configuration: a 1024x1024 layer
// of 32-bit values on 16 PEs at 1 GHz behind a 10 GB/s memory channel.
func _defaultConstants() Constants {
	return Constants{
		Bits:      33_554_432, // 1024 * 1024 * 32
		MatrixDim: 1024,
		WordBits:  32,

		NumPE:     16,
		ClockFreq: 1 * sim.GHz,

		EDRAMRead:   120, // pJ/bit
		ESRAMAccess: 1.3, // pJ/bit, reads and writes cost the same
		EPEOp:       0.3, // pJ/op
		EIOTransfer: 0.1, // pJ/bit

		LoadBandwidth:  8e10, // bit/s
		WriteBandwidth: 8e10, // bit/s
	}
}

// Default returns the compiled-in constant set.
func Default() Constants { return _defaultConstants() }

// Ops returns the number of multiply-accumulate operations of the layer.
func (c Constants) Ops() int { return c.MatrixDim * c.MatrixDim }

// Validate checks every divisor and energy constant.
// The returned error wraps ErrInvalidConfiguration.
func (c Constants) Validate() error {
	if err := c.validateLoad(); err != nil {
		return err
	}
	if err := c.validateCompute(); err != nil {
		return err
	}
	return c.validateWriteback()
}

func (c Constants) validateLoad() error {
	if c.LoadBandwidth <= 0 {
		return invalid("load bandwidth must be > 0, got %g", c.LoadBandwidth)
	}
	return nonNegative(
		energy{"dram read", c.EDRAMRead},
		energy{"io transfer", c.EIOTransfer},
		energy{"sram access", c.ESRAMAccess},
	)
}

func (c Constants) validateCompute() error {
	if c.NumPE <= 0 {
		return invalid("pe count must be > 0, got %d", c.NumPE)
	}
	if c.ClockFreq <= 0 {
		return invalid("clock frequency must be > 0, got %g", float64(c.ClockFreq))
	}
	if c.MatrixDim < 0 {
		return invalid("matrix dimension must be >= 0, got %d", c.MatrixDim)
	}
	return nonNegative(energy{"pe op", c.EPEOp})
}

func (c Constants) validateWriteback() error {
	if c.WriteBandwidth <= 0 {
		return invalid("write bandwidth must be > 0, got %g", c.WriteBandwidth)
	}
	return nonNegative(energy{"sram access", c.ESRAMAccess})
}

type energy struct {
	name  string
	value float64
}

func nonNegative(es ...energy) error {
	for _, e := range es {
		if e.value < 0 {
			return invalid("%s energy must be >= 0, got %g", e.name, e.value)
		}
	}
	return nil
}

func invalid(format string, args ...any) error {
	return fmt.Errorf("%w: "+format, append([]any{ErrInvalidConfiguration}, args...)...)
}
