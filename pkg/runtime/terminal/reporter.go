package terminal

import (
	"fmt"
	"io"
	"os"
	"sort"
	"text/template"
	"time"

	"github.com/de-tools/finops-dashboard/pkg/models/api"
)

// Reporter prints the polled dashboard overview as plain text.
type Reporter struct {
	writer io.Writer
}

func NewReporter(writer io.Writer) *Reporter {
	if writer == nil {
		writer = os.Stdout
	}
	return &Reporter{writer: writer}
}

type feedLine struct {
	Name   string
	Status string
}

type overviewView struct {
	Updated      time.Time
	Squads       int
	Anomalies    []api.Anomaly
	Charges      int
	Integrations []api.Integration
	OpenImpact   float64
	Feeds        []feedLine
}

func (c *Reporter) Handle(o api.Overview, updated time.Time) error {
	tmpl := `
Dashboard @ {{.Updated.Format "2006-01-02 15:04:05"}}
Squads: {{.Squads}}  Charges: {{.Charges}}  Open impact: USD {{printf "%.2f" .OpenImpact}}

=== Anomalies ===
{{range .Anomalies}}- [{{.Severity}}] {{.ID}} {{.Title}} ({{.Status}}, USD {{printf "%.0f" .Impact}})
{{end}}
=== Integrations ===
{{range .Integrations}}- {{.Name}}: {{.Status}}{{if .LastSync}}, last sync {{.LastSync}}{{end}}
{{end}}
=== Feeds ===
{{range .Feeds}}- {{.Name}}: {{.Status}}
{{end}}`

	t, err := template.New("overview").Parse(tmpl)
	if err != nil {
		return fmt.Errorf("failed to parse template: %w", err)
	}

	return t.Execute(c.writer, newOverviewView(o, updated))
}

func newOverviewView(o api.Overview, updated time.Time) overviewView {
	v := overviewView{
		Updated:      updated,
		Squads:       len(o.Squads),
		Anomalies:    o.Anomalies,
		Charges:      len(o.Charges),
		Integrations: o.Integrations,
		OpenImpact:   o.OpenImpact,
	}
	for name, fs := range o.Feeds {
		status := "ok"
		switch {
		case fs.Error != "":
			status = "error: " + fs.Error
		case fs.Loading:
			status = "loading"
		case fs.LastUpdated == nil:
			status = "pending"
		}
		v.Feeds = append(v.Feeds, feedLine{Name: name, Status: status})
	}
	sort.Slice(v.Feeds, func(i, j int) bool { return v.Feeds[i].Name < v.Feeds[j].Name })
	return v
}
