package report

import (
	"fmt"
	"io"

	"github.com/ja7ad/chipletpower/pkg/chiplet"
	"github.com/ja7ad/chipletpower/pkg/util"
	"github.com/jedib0t/go-pretty/v6/table"
)

// WriteSummary prints one line per stage: power in W (2 decimals), duration
// in s (6 decimals) and energy / 1e6 labelled mJ (2 decimals).
func WriteSummary(w io.Writer, results []chiplet.Result) error {
	for _, r := range results {
		_, err := fmt.Fprintf(w, "[%s] power: %s W, time: %s s, energy: %s mJ\n",
			r.Name(),
			util.Fixed(r.Power(), 2),
			util.Fixed(r.Duration(), 6),
			util.Fixed(r.Energy().Mega(), 2),
		)
		if err != nil {
			return err
		}
	}
	return nil
}

// WriteTable renders the stages and run totals as a table.
func WriteTable(w io.Writer, rep Report) {
	tw := table.NewWriter()
	tw.SetOutputMirror(w)
	tw.SetStyle(table.StyleLight)
	tw.SetTitle("%s", rep.Title)

	tw.AppendHeader(table.Row{"STAGE", "P (W)", "T (s)", "E (mJ)", "START (s)", "END (s)"})
	for _, r := range rep.Stages {
		tw.AppendRow(table.Row{
			r.Stage,
			util.Fixed(r.PowerW, 2),
			util.Fixed(r.TimeS, 6),
			util.Fixed(r.EnergyMJ, 2),
			util.Fixed(r.StartS, 6),
			util.Fixed(r.EndS, 6),
		})
	}
	tw.AppendFooter(table.Row{
		"TOTAL",
		util.Fixed(rep.AvgPowerW, 2),
		util.Fixed(rep.ElapsedS, 6),
		util.Fixed(rep.EnergyPJ/1e6, 2),
		"",
		"",
	})
	tw.Render()
}
