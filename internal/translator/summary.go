package translator

import (
	"fmt"
	"io"
	"path/filepath"
	"time"

	"github.com/jedib0t/go-pretty/v6/table"
	"github.com/jedib0t/go-pretty/v6/text"
)

// RenderSummary 把一次运行的结果渲染成表格
func RenderSummary(w io.Writer, results []FileResult) {
	tw := table.NewWriter()
	tw.SetOutputMirror(w)
	tw.AppendHeader(table.Row{"File", "Texts", "Batches", "Duration", "Status"})

	var (
		totalTexts   int
		totalBatches int
		failed       int
	)
	for _, r := range results {
		totalTexts += r.Texts
		totalBatches += r.Batches
		tw.AppendRow(table.Row{
			filepath.Base(r.Input),
			r.Texts,
			r.Batches,
			formatDuration(r.Duration),
			statusText(r),
		})
		if r.Err != nil {
			failed++
		}
	}

	tw.AppendFooter(table.Row{
		fmt.Sprintf("%d file(s)", len(results)),
		totalTexts,
		totalBatches,
		"",
		fmt.Sprintf("%d failed", failed),
	})
	tw.SetStyle(table.StyleLight)
	tw.Render()
}

func statusText(r FileResult) string {
	switch {
	case r.Err != nil:
		return text.FgRed.Sprintf("error: %v", r.Err)
	case r.Skipped:
		return text.FgYellow.Sprint("skipped (no text)")
	default:
		return text.FgGreen.Sprint("ok")
	}
}

func formatDuration(d time.Duration) string {
	if d == 0 {
		return "-"
	}
	return d.Round(10 * time.Millisecond).String()
}
