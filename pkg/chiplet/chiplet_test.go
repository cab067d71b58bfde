package chiplet

import (
	"context"
	"fmt"
	"math"
	"testing"

	"github.com/ja7ad/chipletpower/pkg/types"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestEnergyToPower(t *testing.T) {
	t.Run("positive_time_matches_identity", func(t *testing.T) {
		for _, e := range []float64{0, 1, 314_572.8, 4_076_810_931.2, 1e15} {
			for _, s := range []float64{1e-9, 6.5536e-5, 4.194304e-4, 1, 3600} {
				got := EnergyToPower(types.Picojoules(e), s)
				assert.Equal(t, e*1e-12/s, got, "e=%g s=%g", e, s)
				assert.GreaterOrEqual(t, got, 0.0)
			}
		}
	})
	t.Run("zero_time_yields_zero", func(t *testing.T) {
		for _, e := range []float64{0, 1, 1e12, math.MaxFloat64} {
			assert.Equal(t, 0.0, EnergyToPower(types.Picojoules(e), 0))
		}
	})
	t.Run("negative_time_yields_zero", func(t *testing.T) {
		assert.Equal(t, 0.0, EnergyToPower(1e12, -1))
	})
	t.Run("one_joule_per_second", func(t *testing.T) {
		assert.Equal(t, 1.0, EnergyToPower(1e12, 1))
	})
}

func TestStages_ReferenceConfiguration(t *testing.T) {
	c := Default()

	load, err := LoadStage(c)
	require.NoError(t, err)
	compute, err := ComputeStage(c)
	require.NoError(t, err)
	wb, err := WritebackStage(c)
	require.NoError(t, err)

	const bits = 33_554_432.0

	assert.InEpsilon(t, 4_076_810_931.2, float64(load.Energy()), 1e-12)
	assert.InEpsilon(t, bits*(120+0.1+1.3), float64(load.Energy()), 1e-12)
	assert.InEpsilon(t, 4.194304e-4, load.Duration(), 1e-12)
	assert.InEpsilon(t, 9.712, load.Power(), 1e-9)

	assert.InEpsilon(t, 314_572.8, float64(compute.Energy()), 1e-12)
	assert.InEpsilon(t, 6.5536e-5, compute.Duration(), 1e-12)
	assert.InEpsilon(t, 0.0048, compute.Power(), 1e-9)

	assert.InEpsilon(t, 43_620_761.6, float64(wb.Energy()), 1e-12)
	assert.InEpsilon(t, 4.194304e-4, wb.Duration(), 1e-12)
	assert.InEpsilon(t, 0.104, wb.Power(), 1e-9)

	total := load.Duration() + compute.Duration() + wb.Duration()
	assert.InEpsilon(t, 9.043968e-4, total, 1e-12)

	for _, r := range []Result{load, compute, wb} {
		t.Logf("[%s] power: %.4f W, time: %.6e s, energy: %.2f pJ",
			r.Name(), r.Power(), r.Duration(), float64(r.Energy()))
	}
}

func TestStages_PowerIsDerived(t *testing.T) {
	results, err := Run(context.Background(), Default())
	require.NoError(t, err)
	for _, r := range results {
		assert.Equal(t, EnergyToPower(r.Energy(), r.Duration()), r.Power(), r.Name())
	}
}

func TestStages_ComponentsSumToEnergy(t *testing.T) {
	c := Default()

	load, err := LoadStage(c)
	require.NoError(t, err)
	comps := load.Components()
	require.Len(t, comps, 3)
	assert.Equal(t, "dram read", comps[0].Name)
	assert.Equal(t, "io transfer", comps[1].Name)
	assert.Equal(t, "sram write", comps[2].Name)

	var sum types.Picojoules
	for _, cp := range comps {
		sum += cp.Energy
	}
	assert.Equal(t, load.Energy(), sum)

	// callers cannot mutate the result through the returned slice
	comps[0].Energy = 0
	assert.NotEqual(t, types.Picojoules(0), load.Components()[0].Energy)
}

func TestStages_Idempotent(t *testing.T) {
	c := Default()
	for _, s := range Pipeline() {
		a, err := Estimate(s, c)
		require.NoError(t, err)
		b, err := Estimate(s, c)
		require.NoError(t, err)
		assert.Equal(t, a, b, s.String())
	}
}

func TestStages_WritebackMatchesLoadSRAMTerm(t *testing.T) {
	c := Default()
	load, err := LoadStage(c)
	require.NoError(t, err)
	wb, err := WritebackStage(c)
	require.NoError(t, err)

	assert.Equal(t, load.Components()[2].Energy, wb.Energy())
	assert.Equal(t, load.Duration(), wb.Duration())
}

func TestStages_ZeroBitsIsValid(t *testing.T) {
	c := Default()
	c.Bits = 0
	c.MatrixDim = 0

	for _, s := range Pipeline() {
		r, err := Estimate(s, c)
		require.NoError(t, err, s.String())
		assert.Equal(t, 0.0, r.Duration(), s.String())
		assert.Equal(t, 0.0, r.Power(), s.String())
		assert.Equal(t, types.Picojoules(0), r.Energy(), s.String())
	}
}

func TestStages_InvalidConfiguration(t *testing.T) {
	cases := []struct {
		name  string
		stage Stage
		mut   func(*Constants)
	}{
		{"zero_pe", Compute, func(c *Constants) { c.NumPE = 0 }},
		{"negative_pe", Compute, func(c *Constants) { c.NumPE = -4 }},
		{"zero_clock", Compute, func(c *Constants) { c.ClockFreq = 0 }},
		{"negative_matrix", Compute, func(c *Constants) { c.MatrixDim = -1 }},
		{"negative_pe_energy", Compute, func(c *Constants) { c.EPEOp = -0.3 }},
		{"zero_load_bw", Load, func(c *Constants) { c.LoadBandwidth = 0 }},
		{"negative_dram_energy", Load, func(c *Constants) { c.EDRAMRead = -1 }},
		{"zero_write_bw", Writeback, func(c *Constants) { c.WriteBandwidth = 0 }},
		{"negative_write_bw", Writeback, func(c *Constants) { c.WriteBandwidth = -8e10 }},
		{"negative_sram_energy", Writeback, func(c *Constants) { c.ESRAMAccess = -1.3 }},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			c := Default()
			tc.mut(&c)

			r, err := Estimate(tc.stage, c)
			require.ErrorIs(t, err, ErrInvalidConfiguration)
			assert.Equal(t, Result{}, r)
			assert.False(t, math.IsNaN(r.Power()) || math.IsInf(r.Power(), 0))

			require.ErrorIs(t, c.Validate(), ErrInvalidConfiguration)

			out, err := Run(context.Background(), c)
			require.ErrorIs(t, err, ErrInvalidConfiguration)
			assert.Nil(t, out)
		})
	}
}

func TestStages_OnlyComputeDependsOnPECount(t *testing.T) {
	c := Default()
	c.NumPE = 0

	_, err := LoadStage(c)
	assert.NoError(t, err)
	_, err = WritebackStage(c)
	assert.NoError(t, err)
	_, err = ComputeStage(c)
	assert.ErrorIs(t, err, ErrInvalidConfiguration)
}

func TestEstimate_UnknownStage(t *testing.T) {
	_, err := Estimate(Stage(7), Default())
	require.ErrorIs(t, err, ErrUnknownStage)
	assert.Equal(t, "stage(7)", Stage(7).String())
}

func TestRun_PipelineOrder(t *testing.T) {
	results, err := Run(context.Background(), Default())
	require.NoError(t, err)
	require.Len(t, results, 3)

	want := []string{"DRAM → SRAM", "PE Compute", "Write Back"}
	for i, r := range results {
		assert.Equal(t, Pipeline()[i], r.Stage())
		assert.Equal(t, want[i], r.Name())
	}
}

func TestRun_CanceledContext(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	out, err := Run(ctx, Default())
	require.ErrorIs(t, err, context.Canceled)
	assert.Nil(t, out)
}

func TestDefault_Consistent(t *testing.T) {
	c := Default()
	require.NoError(t, c.Validate())
	assert.Equal(t, 1024*1024, c.Ops())
	assert.Equal(t, uint64(c.MatrixDim*c.MatrixDim*c.WordBits), uint64(c.Bits))

	// Default hands out independent copies
	c.NumPE = 0
	assert.Equal(t, 16, Default().NumPE)
}

func ExampleRun() {
	results, err := Run(context.Background(), Default())
	if err != nil {
		fmt.Println(err)
		return
	}
	for _, r := range results {
		fmt.Printf("%s: %.3f W\n", r.Name(), r.Power())
	}
	// Output:
	// DRAM → SRAM: 9.712 W
	// PE Compute: 0.005 W
	// Write Back: 0.104 W
}
