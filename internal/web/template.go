package web

import (
	"fmt"
	"html/template"
	"io"
	"time"

	"github.com/sweeney/relay-thermostat/internal/control"
	"github.com/sweeney/relay-thermostat/internal/logic"
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
	"celsius": func(v float64) string {
		return fmt.Sprintf("%.1f°C", v)
	},
	"relayState": logic.StateString,
}).Parse(indexHTML))

const indexHTML = `<!DOCTYPE html>
<html>
<head>
<meta charset="utf-8">
<meta name="viewport" content="width=device-width, initial-scale=1">
<meta http-equiv="refresh" content="{{.Config.RefreshSeconds}}">
<title>Relay Thermostat</title>
<style>
body { font-family: monospace; max-width: 600px; margin: 2em auto; padding: 0 1em; }
h1 { font-size: 1.4em; }
table { border-collapse: collapse; width: 100%; margin: 1em 0; }
td, th { text-align: left; padding: 4px 8px; border-bottom: 1px solid #ddd; }
th { width: 40%; }
.on { color: green; font-weight: bold; }
.off { color: #888; }
.stale { color: orange; }
.connected { color: green; }
.disconnected { color: red; }
a.button { display: inline-block; padding: 4px 12px; margin-right: 8px; border: 1px solid #888; text-decoration: none; color: inherit; }
</style>
</head>
<body>
<h1>Relay Thermostat</h1>

<h2>State</h2>
<table>
<tr><th>Temperature</th><td{{if not .HaveReading}} class="stale"{{end}}>{{if .HaveReading}}{{celsius .Temperature}}{{else}}no reading yet{{end}}</td></tr>
<tr><th>Relay</th><td id="relay-state" class="{{if .Output}}on{{else}}off{{end}}">{{relayState .Output}}</td></tr>
<tr><th>Mode</th><td>{{.Mode}}</td></tr>
<tr><th>Critical temperature</th><td>{{celsius .Critical}}</td></tr>
<tr><th>Status</th><td>{{.StatusText}}</td></tr>
</table>

<h2>Control</h2>
<p><a class="button" href="/toggleMode">{{if eq .Mode "MANUAL"}}Switch to automatic{{else}}Switch to manual{{end}}</a></p>
{{if eq .Mode "MANUAL"}}
<p>
<a class="button" href="/relayOn">Relay ON</a>
<a class="button" href="/relayOff">Relay OFF</a>
</p>
{{end}}
<form action="/setCritical" method="get">
<label>Critical temperature: <input type="text" name="temp" size="6" value="{{printf "%.1f" .Critical}}"></label>
<input type="submit" value="Set">
</form>

<h2>Connectivity</h2>
<table>
<tr><th>MQTT</th><td class="{{if .MQTTConnected}}connected{{else}}disconnected{{end}}">{{if .MQTTConnected}}connected{{else}}disconnected{{end}}</td></tr>
<tr><th>Broker</th><td>{{.Config.Broker}}</td></tr>
</table>

<h2>Event Counts</h2>
<table>
<tr><th>Relay ON</th><td>{{.Counts.RelayOn}}</td></tr>
<tr><th>Relay OFF</th><td>{{.Counts.RelayOff}}</td></tr>
<tr><th>Mode changes</th><td>{{.Counts.ModeChanges}}</td></tr>
<tr><th>Sensor errors</th><td>{{.Counts.SensorErrors}}</td></tr>
</table>

<h2>System</h2>
<table>
<tr><th>Uptime</th><td>{{uptime .Uptime}}</td></tr>
<tr><th>Started</th><td>{{.StartTime.UTC.Format "2006-01-02T15:04:05Z"}}</td></tr>
<tr><th>Poll</th><td>{{.Config.PollMs}}ms</td></tr>
<tr><th>Heartbeat</th><td>{{if eq .Config.HeartbeatMs 0}}disabled{{else}}{{.Config.HeartbeatMs}}ms{{end}}</td></tr>
<tr><th>Page refresh</th><td>{{.Config.RefreshSeconds}}s</td></tr>
<tr><th>HTTP</th><td>{{.Config.HTTPAddr}}</td></tr>
</table>

<p><a href="/index.json">JSON</a></p>
</body>
</html>
`

func renderHTML(w io.Writer, snap control.Snapshot) {
	// Snapshot has Uptime() method but template needs a Duration field.
	data := struct {
		control.Snapshot
		Uptime time.Duration
	}{
		Snapshot: snap,
		Uptime:   snap.Uptime(),
	}
	indexTmpl.Execute(w, data)
}
