package dataset

import (
	"encoding/csv"
	"os"

	"github.com/rotisserie/eris"
)

func loadCSV(path string) (*Dataset, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, eris.Wrap(err, "dataset: open csv")
	}
	defer f.Close() //nolint:errcheck

	reader := csv.NewReader(f)
	reader.FieldsPerRecord = -1 // allow variable fields

	records, err := reader.ReadAll()
	if err != nil {
		return nil, eris.Wrap(err, "dataset: read csv")
	}
	if len(records) == 0 {
		return nil, eris.New("dataset: csv has no header row")
	}

	ds := &Dataset{Columns: records[0], Rows: records[1:]}
	ds.Rows = padRows(ds.Columns, ds.Rows)
	return ds, nil
}

func (d *Dataset) saveCSV(path string) error {
	f, err := os.Create(path)
	if err != nil {
		return eris.Wrap(err, "dataset: create csv")
	}
	defer f.Close() //nolint:errcheck

	w := csv.NewWriter(f)
	if err := w.Write(d.Columns); err != nil {
		return eris.Wrap(err, "dataset: write csv header")
	}
	for _, row := range d.Rows {
		if err := w.Write(row); err != nil {
			return eris.Wrap(err, "dataset: write csv row")
		}
	}
	w.Flush()
	if err := w.Error(); err != nil {
		return eris.Wrap(err, "dataset: flush csv")
	}
	return nil
}
