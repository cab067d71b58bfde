package report

import (
	"encoding/base64"
	"encoding/csv"
	"encoding/json"
	"fmt"
	"html/template"
	"io"

	"github.com/ja7ad/chipletpower/pkg/util"
	"gopkg.in/yaml.v3"
)

var csvHeader = []string{
	"stage", "power_w", "time_s", "energy_pj", "energy_mj", "start_s", "end_s",
}

// WriteCSV writes one row per stage after a header row.
func WriteCSV(w io.Writer, rep Report) error {
	cw := csv.NewWriter(w)
	if err := cw.Write(csvHeader); err != nil {
		return err
	}
	for _, r := range rep.Stages {
		err := cw.Write([]string{
			r.Stage,
			util.FmtFloat(r.PowerW),
			util.FmtFloat(r.TimeS),
			util.FmtFloat(r.EnergyPJ),
			util.FmtFloat(r.EnergyMJ),
			util.FmtFloat(r.StartS),
			util.FmtFloat(r.EndS),
		})
		if err != nil {
			return err
		}
	}
	cw.Flush()
	return cw.Error()
}

// WriteJSON writes the whole report as indented JSON.
func WriteJSON(w io.Writer, rep Report) error {
	b, err := json.MarshalIndent(rep, "", "  ")
	if err != nil {
		return err
	}
	b = append(b, '\n')
	_, err = w.Write(b)
	return err
}

// WriteYAML writes the whole report as YAML.
func WriteYAML(w io.Writer, rep Report) error {
	enc := yaml.NewEncoder(w)
	enc.SetIndent(2)
	if err := enc.Encode(rep); err != nil {
		return err
	}
	return enc.Close()
}

// WriteHTML writes a standalone page with the summary, the stage table and
// the power trace plot.
func WriteHTML(w io.Writer, rep Report) error {
	svg, err := PlotSVG(rep.trace, rep.Title)
	if err != nil {
		return err
	}

	type view struct {
		Report
		Plot template.URL
	}
	data := view{
		Report: rep,
		Plot:   template.URL("data:image/svg+xml;base64," + base64.StdEncoding.EncodeToString(svg)),
	}
	if err := tpl.Execute(w, data); err != nil {
		return fmt.Errorf("html: %w", err)
	}
	return nil
}

var tpl = template.Must(template.New("rep").Funcs(template.FuncMap{
	"fixed": util.Fixed,
	"mega":  func(pj float64) float64 { return pj / 1e6 },
}).Parse(`<!doctype html>
<html lang="en"><meta charset="utf-8">
<title>{{.Title}}</title>
<style>
body{font-family:system-ui,Segoe UI,Roboto,Helvetica,Arial,sans-serif;margin:20px}
h1,h2{margin:0 0 8px}
table{border-collapse:collapse;width:100%;font-size:14px}
th,td{border:1px solid #ddd;padding:6px 8px;text-align:right}
th:first-child,td:first-child{text-align:left}
ul{margin:6px 0 14px;padding-left:20px}
.small{color:#555}
img{max-width:100%}
</style>

<h1>{{.Title}}</h1>

<p class="small">
Run: {{.RunID}} &nbsp;|&nbsp;
Generated: {{.GeneratedAt.Format "2006-01-02 15:04:05"}} &nbsp;|&nbsp;
Workload: {{.Config.WorkloadSize}} on {{.Config.NumPE}} PEs
</p>

<h2>Summary</h2>
<ul>
<li>Elapsed: {{fixed .ElapsedS 6}} s</li>
<li>Energy: {{fixed (mega .EnergyPJ) 2}} mJ</li>
<li>Avg power: {{fixed .AvgPowerW 2}} W</li>
</ul>

<h2>Stages</h2>
<table>
<thead>
<tr><th>stage</th><th>P (W)</th><th>T (s)</th><th>E (mJ)</th><th>start (s)</th><th>end (s)</th></tr>
</thead>
<tbody>
{{range .Stages}}
<tr>
<td>{{.Stage}}</td>
<td>{{fixed .PowerW 2}}</td>
<td>{{fixed .TimeS 6}}</td>
<td>{{fixed .EnergyMJ 2}}</td>
<td>{{fixed .StartS 6}}</td>
<td>{{fixed .EndS 6}}</td>
</tr>
{{end}}
</tbody>
</table>

<h2>Power trace</h2>
<img alt="power trace" src="{{.Plot}}">
</html>`))
