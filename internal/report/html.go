package report

import (
	"encoding/json"
	"fmt"
	"html/template"
	"io"
	"strconv"
)

// chartPayload is the JSON structure embedded in the HTML report for the
// canvas charts.
type chartPayload struct {
	Positions     []float64 `json:"positions"`
	Forces        []float64 `json:"forces"`
	Times         []float64 `json:"times"`
	Energies      []float64 `json:"energies"`
	FullPositions []float64 `json:"full_positions"`
	FullForces    []float64 `json:"full_forces"`
}

// htmlData wraps the context with the marshaled chart payload for the
// template.
type htmlData struct {
	*Context
	ChartJSON template.JS
}

// HTMLRenderer writes the self-contained dark-theme HTML report. The
// backing template is parsed once at package init and never mutated, so one
// renderer value is safe for concurrent use.
type HTMLRenderer struct{}

// NewHTMLRenderer returns the HTML renderer.
func NewHTMLRenderer() *HTMLRenderer {
	return &HTMLRenderer{}
}

// Render writes the report document for ctx to w.
func (r *HTMLRenderer) Render(w io.Writer, ctx *Context) error {
	payload, err := json.Marshal(chartPayload{
		Positions:     ctx.Chart.Positions,
		Forces:        ctx.Chart.Forces,
		Times:         ctx.Chart.Times,
		Energies:      ctx.Chart.Energies,
		FullPositions: ctx.Chart.FullPositions,
		FullForces:    ctx.Chart.FullForces,
	})
	if err != nil {
		return fmt.Errorf("failed to encode chart data: %w", err)
	}
	if err := reportTmpl.Execute(w, htmlData{Context: ctx, ChartJSON: template.JS(payload)}); err != nil {
		return fmt.Errorf("failed to render HTML report: %w", err)
	}
	return nil
}

var reportTmpl = template.Must(template.New("press_report").Funcs(template.FuncMap{
	"num": func(v float64) string {
		return strconv.FormatFloat(v, 'f', 2, 64)
	},
	"num3": func(v float64) string {
		return strconv.FormatFloat(v, 'f', 3, 64)
	},
	"bound": func(v *float64) string {
		if v == nil {
			return "N/A"
		}
		return strconv.FormatFloat(*v, 'f', -1, 64)
	},
	"verdictLabel": func(v *bool) string {
		switch {
		case v == nil:
			return "N/A"
		case *v:
			return "PASS"
		default:
			return "FAIL"
		}
	},
	"verdictClass": func(v *bool) string {
		switch {
		case v == nil:
			return "na"
		case *v:
			return "pass"
		default:
			return "fail"
		}
	},
}).Parse(reportTemplateHTML))

const reportTemplateHTML = `<!DOCTYPE html>
<html lang="en">
<head>
<meta charset="utf-8">
<title>{{.Title}}</title>
<style>
body{background:#0d1117;color:#c9d1d9;font-family:-apple-system,"Segoe UI",Helvetica,Arial,sans-serif;margin:0;padding:24px}
h1{font-size:22px;margin:0 0 2px}
.sub{font-size:12px;color:#8b949e;margin-bottom:16px}
.banner{border-radius:6px;padding:14px 18px;font-size:16px;font-weight:700;margin-bottom:16px;border:1px solid #30363d}
.banner .reason{font-weight:400;font-size:13px;color:#c9d1d9;margin-left:10px}
.banner.pass{background:#12261a;border-color:#238636;color:#3fb950}
.banner.fail{background:#2d1215;border-color:#da3633;color:#f85149}
.banner.na{background:#161b22;color:#8b949e}
.meta{display:grid;grid-template-columns:repeat(auto-fit,minmax(160px,1fr));gap:8px;margin-bottom:16px}
.meta div{background:#161b22;border:1px solid #30363d;border-radius:6px;padding:8px 12px}
.meta .k{font-size:10px;color:#8b949e;text-transform:uppercase;letter-spacing:.5px}
.meta .v{font-size:14px;font-family:monospace}
.cards{display:flex;gap:10px;flex-wrap:wrap;margin-bottom:16px}
.card{background:#161b22;border:1px solid #30363d;border-radius:6px;padding:12px 18px;min-width:150px}
.card .val{font-size:22px;font-weight:700;font-family:monospace}
.card .lbl{font-size:10px;color:#8b949e;text-transform:uppercase;letter-spacing:.5px}
.card .det{font-size:11px;color:#8b949e;margin-top:2px}
table{border-collapse:collapse;width:100%;margin-bottom:16px;font-size:13px}
th,td{border:1px solid #30363d;padding:6px 10px;text-align:left}
th{background:#161b22;font-size:11px;text-transform:uppercase;letter-spacing:.5px;color:#8b949e}
td.pass{color:#3fb950;font-weight:700}
td.fail{color:#f85149;font-weight:700}
td.na{color:#8b949e}
.gauge{position:relative;height:22px;background:#161b22;border:1px solid #30363d;border-radius:11px;overflow:hidden;margin:6px 0 16px}
.gauge .fill{position:absolute;top:0;left:0;bottom:0;background:#1f6feb;border-radius:11px 0 0 11px}
.gauge .mark{position:absolute;top:0;bottom:0;width:2px;background:#f85149}
.gauge-label{font-size:11px;color:#8b949e;margin-bottom:4px}
.chart-wrap{background:#161b22;border:1px solid #30363d;border-radius:6px;padding:10px;margin-bottom:16px}
canvas{display:block;width:100%}
h2{font-size:15px;margin:20px 0 8px;border-bottom:1px solid #30363d;padding-bottom:4px}
.raw-wrap{max-height:360px;overflow-y:auto;border:1px solid #30363d;border-radius:6px}
.raw-wrap table{margin:0}
.raw-wrap th{position:sticky;top:0}
footer{font-size:11px;color:#8b949e;margin-top:20px}
</style>
</head>
<body>
<h1>{{.Title}}</h1>
<div class="sub">{{.DeviceName}} &middot; Serial {{.SerialNumber}}</div>

<div class="banner {{verdictClass .OverallPass}}">{{verdictLabel .OverallPass}}<span class="reason">{{.Reason}}</span></div>

<div class="meta">
  <div><div class="k">Serial Number</div><div class="v">{{.SerialNumber}}</div></div>
  <div><div class="k">Job Number</div><div class="v">{{.JobNumber}}</div></div>
  <div><div class="k">Op Number</div><div class="v">{{.OpNumber}}</div></div>
  <div><div class="k">Device</div><div class="v">{{.DeviceName}}</div></div>
  <div><div class="k">Firmware</div><div class="v">{{.FirmwareVersion}}</div></div>
  <div><div class="k">App Version</div><div class="v">{{.AppVersion}}</div></div>
  <div><div class="k">Force Mode</div><div class="v">{{.ForceMode}}</div></div>
  <div><div class="k">Date</div><div class="v">{{.Date}}</div></div>
  <div><div class="k">Time</div><div class="v">{{.Time}}</div></div>
  <div><div class="k">Duration</div><div class="v">{{.Duration}}</div></div>
</div>

<div class="cards">
  <div class="card"><div class="val">{{num .PeakForce}} kg</div><div class="lbl">Peak Force</div><div class="det">at {{num .PeakForcePosition}} mm</div></div>
  <div class="card"><div class="val">{{num .Endpoint}} mm</div><div class="lbl">Endpoint</div><div class="det">start {{num .StartPosition}} mm</div></div>
  <div class="card"><div class="val">{{num .Energy}} J</div><div class="lbl">Energy</div><div class="det">{{if .HasEnergyData}}logged channel{{else}}integrated{{end}}</div></div>
  <div class="card"><div class="val">{{.DataPoints}}</div><div class="lbl">Data Points</div><div class="det">{{.Duration}} cycle</div></div>
</div>

<h2>Thresholds</h2>
<table>
  <tr><th>Criterion</th><th>Measured</th><th>Min</th><th>Max</th><th>Result</th></tr>
  <tr><td>Force (kg)</td><td>{{num .PeakForce}}</td><td>{{bound .Thresholds.ForceMin}}</td><td>{{bound .Thresholds.ForceMax}}</td><td class="{{verdictClass .ForcePass}}">{{verdictLabel .ForcePass}}</td></tr>
  <tr><td>Endpoint (mm)</td><td>{{num .Endpoint}}</td><td>{{bound .Thresholds.EndpointMin}}</td><td>{{bound .Thresholds.EndpointMax}}</td><td class="{{verdictClass .EndpointPass}}">{{verdictLabel .EndpointPass}}</td></tr>
  <tr><td>Energy (J)</td><td>{{num .Energy}}</td><td>{{bound .Thresholds.EnergyMin}}</td><td>{{bound .Thresholds.EnergyMax}}</td><td class="{{verdictClass .EnergyPass}}">{{verdictLabel .EnergyPass}}</td></tr>
  <tr><td>Press Startpoint (mm)</td><td colspan="3">{{bound .Thresholds.PressStartpoint}}</td><td class="na">N/A</td></tr>
  <tr><td>Press Threshold (kg)</td><td colspan="3">{{bound .Thresholds.PressThreshold}}</td><td class="na">N/A</td></tr>
</table>

<div class="gauge-label">Energy gauge: {{num .Energy}} J (min mark {{num .Gauge.MinPercent}}%, max mark {{num .Gauge.MaxPercent}}%)</div>
<div class="gauge">
  <div class="fill" style="width:{{num .Gauge.EnergyPercent}}%"></div>
  <div class="mark" style="left:{{num .Gauge.MinPercent}}%"></div>
  <div class="mark" style="left:{{num .Gauge.MaxPercent}}%"></div>
</div>

<h2>Force vs Position</h2>
<div class="chart-wrap"><canvas id="chart-pos" width="900" height="360"></canvas></div>

<h2>Force vs Time</h2>
<div class="chart-wrap"><canvas id="chart-time" width="900" height="360"></canvas></div>

<h2>Raw Data</h2>
<div class="raw-wrap">
<table>
  <tr><th>Time (s)</th><th>Position (mm)</th><th>Force (kg)</th><th>Energy (J)</th></tr>
  {{range .RawData}}<tr><td>{{num3 .ElapsedS}}</td><td>{{num3 .PositionMM}}</td><td>{{num3 .ForceKG}}</td><td>{{num3 .EnergyJ}}</td></tr>
  {{end}}
</table>
</div>

<footer>Generated {{.GeneratedAt}} &middot; {{.DeviceName}} firmware {{.FirmwareVersion}} &middot; app {{.AppVersion}}</footer>

<script>
var DATA = {{.ChartJSON}};

function extent(arr){
  var lo = arr[0], hi = arr[0];
  for (var i = 1; i < arr.length; i++){
    if (arr[i] < lo) lo = arr[i];
    if (arr[i] > hi) hi = arr[i];
  }
  if (lo === hi){ lo -= 1; hi += 1; }
  return [lo, hi];
}

function drawChart(id, xs, ys, fullXs, fullYs, xLabel){
  var c = document.getElementById(id);
  if (!c || !xs.length) return;
  var g = c.getContext('2d');
  var W = c.width, H = c.height, pad = 44;
  var ex = extent(fullXs && fullXs.length ? fullXs : xs);
  var ey = extent(fullYs && fullYs.length ? fullYs : ys);
  function px(v){ return pad + (v - ex[0]) / (ex[1] - ex[0]) * (W - 2 * pad); }
  function py(v){ return H - pad - (v - ey[0]) / (ey[1] - ey[0]) * (H - 2 * pad); }

  g.fillStyle = '#0d1117';
  g.fillRect(0, 0, W, H);
  g.strokeStyle = '#30363d';
  g.strokeRect(pad, pad, W - 2 * pad, H - 2 * pad);
  g.fillStyle = '#8b949e';
  g.font = '11px monospace';
  for (var t = 0; t <= 4; t++){
    var vx = ex[0] + (ex[1] - ex[0]) * t / 4;
    var vy = ey[0] + (ey[1] - ey[0]) * t / 4;
    g.fillText(vx.toFixed(1), px(vx) - 10, H - pad + 16);
    g.fillText(vy.toFixed(1), 4, py(vy) + 4);
  }
  g.fillText(xLabel, W / 2 - 30, H - 8);

  function polyline(axs, ays, style, width){
    if (!axs || !axs.length) return;
    g.strokeStyle = style;
    g.lineWidth = width;
    g.beginPath();
    var n = Math.min(axs.length, ays.length);
    for (var i = 0; i < n; i++){
      var x = px(axs[i]), y = py(ays[i]);
      if (i === 0) g.moveTo(x, y); else g.lineTo(x, y);
    }
    g.stroke();
  }

  if (fullXs && fullXs.length) polyline(fullXs, fullYs, '#484f58', 1);
  polyline(xs, ys, '#58a6ff', 2);
}

drawChart('chart-pos', DATA.positions, DATA.forces, DATA.full_positions, DATA.full_forces, 'Position (mm)');
drawChart('chart-time', DATA.times, DATA.forces, null, null, 'Elapsed (s)');
</script>
</body>
</html>
`
