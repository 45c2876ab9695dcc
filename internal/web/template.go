package web

import (
	"fmt"
	"html/template"
	"io"
	"time"

	"github.com/sweeney/iron-timer/internal/status"
)

var indexTmpl = template.Must(template.New("index").Funcs(template.FuncMap{
	"uptime": func(d time.Duration) string {
		d = d.Truncate(time.Second)
		days := int(d.Hours()) / 24
		h := int(d.Hours()) % 24
		m := int(d.Minutes()) % 60
		s := int(d.Seconds()) % 60
		if days > 0 {
			return fmt.Sprintf("%dd %dh %dm %ds", days, h, m, s)
		}
		if h > 0 {
			return fmt.Sprintf("%dh %dm %ds", h, m, s)
		}
		if m > 0 {
			return fmt.Sprintf("%dm %ds", m, s)
		}
		return fmt.Sprintf("%ds", s)
	},
	"countdown": status.FormatCountdown,
	"volts": func(v float64) string {
		return fmt.Sprintf("%.2fV", v)
	},
}).Parse(indexHTML))

const indexHTML = `<!DOCTYPE html>
<html>
<head>
<meta charset="utf-8">
<meta name="viewport" content="width=device-width, initial-scale=1">
<meta http-equiv="refresh" content="5">
<title>Iron Timer</title>
<style>
body { font-family: monospace; max-width: 600px; margin: 2em auto; padding: 0 1em; }
h1 { font-size: 1.4em; }
table { border-collapse: collapse; width: 100%; margin: 1em 0; }
td, th { text-align: left; padding: 4px 8px; border-bottom: 1px solid #ddd; }
th { width: 40%; }
.ok { color: green; font-weight: bold; }
.warn { color: red; font-weight: bold; }
.off { color: #888; }
.connected { color: green; }
.disconnected { color: red; }
</style>
</head>
<body>
<h1>Iron Timer{{if .Config.Version}} <small>{{.Config.Version}}</small>{{end}}</h1>

<h2>Timer</h2>
<table>
<tr><th>Time left</th><td id="countdown" class="{{if .Warning}}warn{{else}}ok{{end}}">{{countdown .Remaining}}</td></tr>
<tr><th>Level</th><td>{{.Percent}}%</td></tr>
<tr><th>Power</th><td class="{{if eq .Power "ACTIVE"}}ok{{else}}off{{end}}">{{.Power}}</td></tr>
</table>

<h2>Battery</h2>
<table>
{{if .BatteryRead}}<tr><th>Charge</th><td>{{.Battery.Percent}}%{{if .Battery.Charging}} (charging){{end}}</td></tr>
<tr><th>Voltage</th><td>{{volts .Battery.Voltage}}</td></tr>{{else}}<tr><th>Charge</th><td>not read yet</td></tr>{{end}}
</table>

<h2>Connectivity</h2>
<table>
<tr><th>MQTT</th><td class="{{if .MQTTConnected}}connected{{else}}disconnected{{end}}">{{if .MQTTConnected}}connected{{else}}disconnected{{end}}</td></tr>
<tr><th>Broker</th><td>{{.Config.Broker}}</td></tr>
</table>

<h2>Inputs</h2>
<table>
<tr><th>A click / long</th><td>{{.Counts.AClick}} / {{.Counts.ALong}}</td></tr>
<tr><th>B click / long</th><td>{{.Counts.BClick}} / {{.Counts.BLong}}</td></tr>
<tr><th>Touch</th><td>{{.Counts.Touches}}</td></tr>
<tr><th>Remote on / off</th><td>{{.Counts.RemoteOn}} / {{.Counts.RemoteOff}}</td></tr>
</table>
{{if or .Update.Active .Update.LastError}}
<h2>Update</h2>
<table>
{{if .Update.Active}}<tr><th>Progress</th><td>{{.Update.Percent}}%</td></tr>{{end}}
{{if .Update.LastError}}<tr><th>Last error</th><td class="warn">{{.Update.LastError}}</td></tr>{{end}}
</table>
{{end}}
<h2>System</h2>
<table>
<tr><th>Uptime</th><td>{{uptime .Uptime}}</td></tr>
<tr><th>Started</th><td>{{.StartTime.UTC.Format "2006-01-02T15:04:05Z"}}</td></tr>
<tr><th>Countdown</th><td>{{.Config.TotalSeconds}}s (warning at {{.Config.WarningSeconds}}s)</td></tr>
<tr><th>Button step</th><td>{{.Config.StepSeconds}}s, floor {{.Config.FloorSeconds}}s</td></tr>
<tr><th>HTTP</th><td>{{.Config.HTTPAddr}}</td></tr>
</table>

<p><a href="/index.json">JSON</a> · <a href="/metrics">metrics</a></p>
</body>
</html>
`

func renderHTML(w io.Writer, snap status.Snapshot) {
	// Snapshot has Uptime() method but template needs a Duration field.
	data := struct {
		status.Snapshot
		Uptime time.Duration
	}{
		Snapshot: snap,
		Uptime:   snap.Uptime(),
	}
	indexTmpl.Execute(w, data)
}
