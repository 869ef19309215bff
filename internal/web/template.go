package web

import (
	"fmt"
	"html/template"
	"io"
	"sort"
	"time"

	"github.com/rs/zerolog/log"

	"github.com/sweeney/dual-led/internal/status"
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
}).Parse(indexHTML))

// colorRow is a single color's line in the state table.
type colorRow struct {
	Name    string
	Lit     bool
	Primary bool
}

type indexData struct {
	status.Snapshot
	Rows []colorRow
}

func buildRows(snap status.Snapshot) []colorRow {
	names := make([]string, 0, len(snap.Levels))
	for name := range snap.Levels {
		names = append(names, name)
	}
	sort.Strings(names)

	rows := make([]colorRow, 0, len(names))
	for _, name := range names {
		rows = append(rows, colorRow{
			Name:    name,
			Lit:     snap.Levels[name],
			Primary: name == snap.Primary,
		})
	}
	return rows
}

func renderHTML(w io.Writer, snap status.Snapshot) {
	data := indexData{Snapshot: snap, Rows: buildRows(snap)}
	if err := indexTmpl.Execute(w, data); err != nil {
		log.Warn().Err(err).Msg("render status page")
	}
}

const indexHTML = `<!DOCTYPE html>
<html>
<head>
<meta charset="utf-8">
<meta name="viewport" content="width=device-width, initial-scale=1">
<title>Dual LED</title>
<style>
body { font-family: monospace; max-width: 600px; margin: 2em auto; padding: 0 1em; }
h1 { font-size: 1.4em; }
table { border-collapse: collapse; width: 100%; margin: 1em 0; }
td, th { text-align: left; padding: 4px 8px; border-bottom: 1px solid #ddd; }
th { width: 40%; }
.on { color: green; font-weight: bold; }
.off { color: #888; }
.connected { color: green; }
.disconnected { color: red; }
#set-error { color: red; }
</style>
</head>
<body>
<h1>Dual LED &mdash; {{.Config.Name}}</h1>

<h2>Pattern</h2>
<table>
<tr><th>Descriptor</th><td>{{.Descriptor}}</td></tr>
{{range .Rows}}<tr><th>{{.Name}}{{if .Primary}} (primary){{end}}</th><td class="{{if .Lit}}on{{else}}off{{end}}">{{if .Lit}}ON{{else}}OFF{{end}}</td></tr>
{{end}}</table>

<h2>Set Pattern</h2>
<form id="set-form">
<input id="set-input" type="text" size="30" placeholder="BLINK:RED:5Hz" />
<button type="submit">Apply</button>
<span id="set-error"></span>
</form>

<h2>Connectivity</h2>
<table>
<tr><th>MQTT</th><td class="{{if .MQTTConnected}}connected{{else}}disconnected{{end}}">{{if .MQTTConnected}}connected{{else}}disconnected{{end}}</td></tr>
<tr><th>Broker</th><td>{{.Config.Broker}}</td></tr>
</table>

<h2>Transition Counts</h2>
<table>
<tr><th>Off</th><td>{{.Counts.Off}}</td></tr>
<tr><th>On</th><td>{{.Counts.On}}</td></tr>
<tr><th>Blink</th><td>{{.Counts.Blink}}</td></tr>
<tr><th>Alternate</th><td>{{.Counts.Alternate}}</td></tr>
<tr><th>Count</th><td>{{.Counts.Count}}</td></tr>
</table>

<h2>Daemon</h2>
<table>
<tr><th>Uptime</th><td>{{uptime .Uptime}}</td></tr>
<tr><th>Started</th><td>{{.StartTime.UTC.Format "2006-01-02 15:04:05 MST"}}</td></tr>
<tr><th>GPIO</th><td>{{.Config.Chip}} pins {{.Config.PinA}}/{{.Config.PinB}}</td></tr>
<tr><th>Default freq</th><td>{{.Config.DefaultFreq}}Hz</td></tr>
</table>

<p><a href="/index.json">JSON</a></p>

<script>
document.getElementById("set-form").addEventListener("submit", function (e) {
	e.preventDefault();
	var errEl = document.getElementById("set-error");
	errEl.textContent = "";
	fetch("/set", { method: "POST", body: document.getElementById("set-input").value })
		.then(function (resp) {
			if (resp.ok) { location.reload(); return; }
			return resp.text().then(function (msg) { errEl.textContent = msg; });
		})
		.catch(function (err) { errEl.textContent = String(err); });
});
</script>
</body>
</html>
`
