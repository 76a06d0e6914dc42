package dataset

import (
	"github.com/rotisserie/eris"
	"github.com/tealeg/xlsx/v2"
)

const sheetName = "Sheet1"

func loadXLSX(path string) (*Dataset, error) {
	f, err := xlsx.OpenFile(path)
	if err != nil {
		return nil, eris.Wrap(err, "dataset: open xlsx")
	}
	if len(f.Sheets) == 0 {
		return nil, eris.New("dataset: xlsx has no sheets")
	}

	sheet := f.Sheets[0]
	if len(sheet.Rows) == 0 {
		return nil, eris.New("dataset: xlsx has no header row")
	}

	ds := &Dataset{Columns: rowToStrings(sheet.Rows[0])}
	for _, row := range sheet.Rows[1:] {
		ds.Rows = append(ds.Rows, rowToStrings(row))
	}
	ds.Rows = padRows(ds.Columns, ds.Rows)
	return ds, nil
}

func (d *Dataset) saveXLSX(path string) error {
	f := xlsx.NewFile()
	sheet, err := f.AddSheet(sheetName)
	if err != nil {
		return eris.Wrap(err, "dataset: add xlsx sheet")
	}

	header := sheet.AddRow()
	for _, col := range d.Columns {
		header.AddCell().SetString(col)
	}
	for _, row := range d.Rows {
		out := sheet.AddRow()
		for _, v := range row {
			out.AddCell().SetString(v)
		}
	}

	if err := f.Save(path); err != nil {
		return eris.Wrap(err, "dataset: save xlsx")
	}
	return nil
}

func rowToStrings(row *xlsx.Row) []string {
	cells := make([]string, len(row.Cells))
	for j, cell := range row.Cells {
		cells[j] = cell.String()
	}
	return cells
}
