package pipeline

import (
	"io"
	"time"

	"github.com/jedib0t/go-pretty/v6/table"
)

// StageTiming is the wall time of one pipeline stage.
type StageTiming struct {
	Stage    string
	Duration time.Duration
	OK       bool
}

// WriteTimings renders timings as a table.
func WriteTimings(w io.Writer, title string, timings []StageTiming) {
	t := table.NewWriter()
	t.SetOutputMirror(w)
	t.SetTitle(title)
	t.AppendHeader(table.Row{"Stage", "Time", "Status"})
	var total time.Duration
	for _, st := range timings {
		status := "ok"
		if !st.OK {
			status = "failed"
		}
		t.AppendRow(table.Row{st.Stage, st.Duration.Round(time.Microsecond), status})
		total += st.Duration
	}
	t.AppendFooter(table.Row{"Total", total.Round(time.Microsecond), ""})
	t.Render()
}
