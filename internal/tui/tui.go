package tui

import (
	"context"
	"fmt"
	"time"

	ui "github.com/gizak/termui/v3"
	"github.com/gizak/termui/v3/widgets"

	"github.com/pingline/pingline/internal/monitor"
	"github.com/pingline/pingline/internal/probe"
	"github.com/pingline/pingline/internal/render"
)

// Run shows a live latency view in the terminal: a sparkline group on top of
// a summary table, refreshed on every monitor update. Run consumes the
// monitor's update channel; onUpdate (optional) is invoked after each redraw
// so callers can forward frames elsewhere (e.g. the WebSocket hub). Blocks
// until the user quits (q, Ctrl-C) or ctx is cancelled.
func Run(ctx context.Context, mon *monitor.Monitor, onUpdate func(monitor.Update)) error {
	if err := ui.Init(); err != nil {
		return fmt.Errorf("tui: init: %w", err)
	}
	defer ui.Close()

	st := mon.State()

	sl := widgets.NewSparkline()
	sl.LineColor = ui.ColorGreen
	sl.MaxVal = float64(st.Scale.Max) / float64(time.Millisecond)

	sg := widgets.NewSparklineGroup(sl)
	sg.Title = title(st)
	sg.BorderStyle.Fg = ui.ColorGreen

	stats := widgets.NewTable()
	stats.Rows = statsRows(st)
	stats.RowSeparator = false
	stats.Title = " window "
	stats.BorderStyle.Fg = ui.ColorYellow

	grid := ui.NewGrid()
	w, h := ui.TerminalDimensions()
	grid.SetRect(0, 0, w, h)
	grid.Set(
		ui.NewRow(0.6, sg),
		ui.NewRow(0.4, stats),
	)
	ui.Render(grid)

	events := ui.PollEvents()
	for {
		select {
		case <-ctx.Done():
			return nil

		case e := <-events:
			if e.Type == ui.KeyboardEvent && (e.ID == "q" || e.ID == "<C-c>") {
				return nil
			}
			if e.Type == ui.ResizeEvent {
				payload := e.Payload.(ui.Resize)
				grid.SetRect(0, 0, payload.Width, payload.Height)
				ui.Clear()
				ui.Render(grid)
			}

		case u := <-mon.Updates():
			st = mon.State()
			sl.Data = toSeries(u.Samples, st.Scale)
			sl.MaxVal = float64(st.Scale.Max) / float64(time.Millisecond)
			sg.Title = title(st)
			stats.Rows = statsRows(st)
			ui.Render(grid)
			if onUpdate != nil {
				onUpdate(u)
			}
		}
	}
}

// toSeries converts samples to sparkline heights in milliseconds. Failures
// plot at the scale maximum, the worst-case tier.
func toSeries(samples []probe.Sample, sc render.Scale) []float64 {
	maxMS := float64(sc.Max) / float64(time.Millisecond)
	out := make([]float64, len(samples))
	for i, s := range samples {
		if !s.OK {
			out[i] = maxMS
			continue
		}
		v := float64(s.RTT) / float64(time.Millisecond)
		if v > maxMS {
			v = maxMS
		}
		out[i] = v
	}
	return out
}

func title(st monitor.State) string {
	last := "-"
	if st.Stats.LastOK {
		last = fmtMS(st.Stats.Last)
	}
	return fmt.Sprintf(" %s  last %s  loss %.0f%% ", st.Target, last, st.Stats.LossPct)
}

func statsRows(st monitor.State) [][]string {
	return [][]string{
		{"min", "avg", "max", "p50", "p90", "p99"},
		{
			fmtMS(st.Stats.Min),
			fmtMS(st.Stats.Avg),
			fmtMS(st.Stats.Max),
			fmtMS(st.Stats.P50),
			fmtMS(st.Stats.P90),
			fmtMS(st.Stats.P99),
		},
	}
}

func fmtMS(d time.Duration) string {
	return fmt.Sprintf("%.1fms", float64(d)/float64(time.Millisecond))
}
