package tabular

import (
	"io"

	"github.com/olekukonko/tablewriter"
)

// WritePreview renders the table as an aligned text grid for terminals.
func WritePreview(w io.Writer, t *Table, options ...FormatOption) error {
	formatter, err := NewFormatter(options...)
	if err != nil {
		return err
	}

	grid := tablewriter.NewWriter(w)
	grid.SetHeader(t.Columns())
	grid.SetAutoFormatHeaders(false)
	grid.SetAutoWrapText(false)
	grid.AppendBulk(formatter.records(t))
	grid.Render()
	return nil
}
