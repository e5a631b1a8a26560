package usecases

import (
	"encoding/csv"
	"errors"
	"io"
	"strings"

	"sprint-review.backend/internal/domain/entities"
	domainerrors "sprint-review.backend/internal/domain/errors"
)

// ReadRosterCSV reads a roster file into header-keyed rows. Every roster
// column must be present in the header; extra columns are ignored and
// short rows read as empty cells.
func ReadRosterCSV(r io.Reader) ([]map[string]string, error) {
	reader := csv.NewReader(r)
	reader.FieldsPerRecord = -1
	reader.TrimLeadingSpace = true

	header, err := reader.Read()
	if errors.Is(err, io.EOF) {
		return nil, domainerrors.Validation("roster file is empty")
	}
	if err != nil {
		return nil, domainerrors.Validation("roster file is not valid CSV: " + err.Error())
	}
	if len(header) > 0 {
		header[0] = strings.TrimPrefix(header[0], "\uFEFF")
	}

	index := make(map[string]int, len(header))
	for i, h := range header {
		h = strings.TrimSpace(h)
		if _, dup := index[h]; !dup {
			index[h] = i
		}
	}
	var missing []string
	for _, col := range entities.RosterColumns {
		if _, ok := index[col]; !ok {
			missing = append(missing, col)
		}
	}
	if len(missing) > 0 {
		return nil, domainerrors.Validation("roster is missing columns: " + strings.Join(missing, ", "))
	}

	var rows []map[string]string
	for {
		record, err := reader.Read()
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			return nil, domainerrors.Validation("roster file is not valid CSV: " + err.Error())
		}
		row := make(map[string]string, len(entities.RosterColumns))
		for _, col := range entities.RosterColumns {
			if i := index[col]; i < len(record) {
				row[col] = record[i]
			}
		}
		rows = append(rows, row)
	}
	return rows, nil
}
