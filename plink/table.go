package plink

import (
	"fmt"

	"gopkg.in/guregu/null.v3"
)

// Column is one named data column. Cells are nullable so that missing
// genotype calls and recoded sentinel values share one representation.
type Column struct {
	Name   string
	Values []null.Float
}

// Table is a sample-keyed table: one row per sample identifier, one Column
// per data field. Column order and row order are both preserved from the
// source file.
type Table struct {
	IDs     []string
	Columns []Column

	colIndex map[string]int
	rowIndex map[string]int
}

func NewTable(columnNames []string) (*Table, error) {
	t := &Table{
		colIndex: make(map[string]int),
		rowIndex: make(map[string]int),
	}

	for _, name := range columnNames {
		if _, exists := t.colIndex[name]; exists {
			return nil, fmt.Errorf("plink: duplicate column name %q", name)
		}
		t.colIndex[name] = len(t.Columns)
		t.Columns = append(t.Columns, Column{Name: name})
	}

	return t, nil
}

func (t *Table) NRows() int {
	return len(t.IDs)
}

func (t *Table) ColumnNames() []string {
	names := make([]string, 0, len(t.Columns))
	for _, c := range t.Columns {
		names = append(names, c.Name)
	}

	return names
}

func (t *Table) HasColumn(name string) bool {
	_, exists := t.colIndex[name]

	return exists
}

// Column returns the named column, or nil if no such column exists.
func (t *Table) Column(name string) *Column {
	i, exists := t.colIndex[name]
	if !exists {
		return nil
	}

	return &t.Columns[i]
}

// Cell returns the value at the named column for the given row.
func (t *Table) Cell(name string, row int) null.Float {
	return t.Column(name).Values[row]
}

// AppendRow adds one sample's cells. Sample identifiers must be unique
// within a table, since they are the sole join key.
func (t *Table) AppendRow(sampleID string, cells []null.Float) error {
	if _, exists := t.rowIndex[sampleID]; exists {
		return fmt.Errorf("plink: duplicate sample identifier %q", sampleID)
	}
	if len(cells) != len(t.Columns) {
		return fmt.Errorf("plink: sample %q has %d cells but the table has %d columns", sampleID, len(cells), len(t.Columns))
	}

	t.rowIndex[sampleID] = len(t.IDs)
	t.IDs = append(t.IDs, sampleID)
	for i := range cells {
		t.Columns[i].Values = append(t.Columns[i].Values, cells[i])
	}

	return nil
}

// Row returns the row offset of a sample identifier.
func (t *Table) Row(sampleID string) (int, bool) {
	i, exists := t.rowIndex[sampleID]

	return i, exists
}

// DropColumn removes the named column, if present.
func (t *Table) DropColumn(name string) {
	i, exists := t.colIndex[name]
	if !exists {
		return
	}

	t.Columns = append(t.Columns[:i], t.Columns[i+1:]...)
	delete(t.colIndex, name)
	for n, j := range t.colIndex {
		if j > i {
			t.colIndex[n] = j - 1
		}
	}
}

// InnerJoin joins the named columns of right onto left by sample identifier.
// Samples absent from either table are dropped. The number of left-table
// samples that were dropped is returned so that callers can report the
// attrition rather than hide it.
func InnerJoin(left, right *Table, rightCols []string) (*Table, int, error) {
	for _, name := range rightCols {
		if !right.HasColumn(name) {
			return nil, 0, fmt.Errorf("plink: join column %q not found in the right-hand table", name)
		}
	}

	names := append(left.ColumnNames(), rightCols...)
	out, err := NewTable(names)
	if err != nil {
		return nil, 0, err
	}

	dropped := 0
	for li, id := range left.IDs {
		ri, exists := right.Row(id)
		if !exists {
			dropped++
			continue
		}

		cells := make([]null.Float, 0, len(names))
		for _, c := range left.Columns {
			cells = append(cells, c.Values[li])
		}
		for _, name := range rightCols {
			cells = append(cells, right.Column(name).Values[ri])
		}

		if err := out.AppendRow(id, cells); err != nil {
			return nil, 0, err
		}
	}

	return out, dropped, nil
}
