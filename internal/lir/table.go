package lir

import (
	"fmt"
	"io"

	"github.com/jedib0t/go-pretty/v6/table"
)

// WriteTable renders the IR sequence as a table, one row per op.
func (m *Module) WriteTable(w io.Writer) error {
	t := table.NewWriter()
	t.SetTitle(fmt.Sprintf("IR sequence (%s)", m.Name))
	t.AppendHeader(table.Row{"#", "Line", "Instruction", "Op", "IR"})
	for i, op := range m.ops {
		t.AppendRow(table.Row{i, op.Line, op.Mnemonic, op.Kind, op.String()})
	}
	_, err := fmt.Fprintln(w, t.Render())
	return err
}
