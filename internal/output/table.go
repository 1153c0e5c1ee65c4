package output

import (
	"fmt"

	"github.com/jedib0t/go-pretty/v6/table"

	"github.com/willf/downlow/internal/humanize"
)

// formatTable renders the summary as an ASCII table.
func formatTable(s *Summary) (string, error) {
	if s == nil {
		return "", nil
	}

	t := table.NewWriter()
	t.SetStyle(table.StyleRounded)
	t.AppendHeader(table.Row{"Metric", "Count"})
	t.AppendRow(table.Row{"Already existing", s.Stats.Existing})
	t.AppendRow(table.Row{"Downloaded", s.Stats.Succeeded})
	t.AppendRow(table.Row{"Failed attempts", s.Stats.Failed})
	t.AppendRow(table.Row{"URLs processed", s.Stats.Processed})

	footer := humanize.Seconds(s.Elapsed)
	if footer == "" {
		footer = fmt.Sprintf("%.2fs", s.Elapsed)
	}
	if s.Stats.Processed > 0 && s.Elapsed > 0 {
		footer += ", " + humanize.Rate(s.Stats.Processed, s.Elapsed)
	}
	t.AppendFooter(table.Row{"Elapsed", footer})

	return t.Render(), nil
}
