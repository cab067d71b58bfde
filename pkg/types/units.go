package types

import "fmt"

// Bits is a uint64 wrapper representing a data volume in bits.
type Bits uint64

// Float returns the volume as a float64, the form every model formula uses.
func (b Bits) Float() float64 { return float64(b) }

// Bytes returns the volume in whole bytes (8 bits each, truncated).
func (b Bits) Bytes() uint64 { return uint64(b) / 8 }

// Humanized returns the volume as bytes with an automatic unit (B, KB, MB, GB, TB).
func (b Bits) Humanized() string {
	v := float64(b) / 8
	switch {
	case v >= 1<<40:
		return fmt.Sprintf("%.2f TB", v/(1<<40))
	case v >= 1<<30:
		return fmt.Sprintf("%.2f GB", v/(1<<30))
	case v >= 1<<20:
		return fmt.Sprintf("%.2f MB", v/(1<<20))
	case v >= 1<<10:
		return fmt.Sprintf("%.2f KB", v/(1<<10))
	default:
		return fmt.Sprintf("%g B", v)
	}
}

// Picojoules is an energy in pJ, the unit all energy constants are given in.
type Picojoules float64

// Joules converts to SI joules (1 J = 1e12 pJ).
func (e Picojoules) Joules() float64 { return float64(e) * 1e-12 }

// Mega returns the energy divided by 1e6.
// Stage summaries print this value under an "mJ" label.
func (e Picojoules) Mega() float64 { return float64(e) / 1e6 }

// Humanized returns the energy with the largest SI unit (pJ .. J) that keeps
// the mantissa >= 1.
func (e Picojoules) Humanized() string {
	v := float64(e)
	switch {
	case v >= 1e12:
		return fmt.Sprintf("%.2f J", v/1e12)
	case v >= 1e9:
		return fmt.Sprintf("%.2f mJ", v/1e9)
	case v >= 1e6:
		return fmt.Sprintf("%.2f µJ", v/1e6)
	case v >= 1e3:
		return fmt.Sprintf("%.2f nJ", v/1e3)
	default:
		return fmt.Sprintf("%.2f pJ", v)
	}
}
