package source

import (
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"strings"

	"hotfire/backend/services/runs-service/internal/models"
)

// ReadRecords parses a run log. The first row names the columns; every cell
// and header is trimmed. A file with only a header yields no records.
func ReadRecords(r io.Reader) ([]models.Record, error) {
	reader := csv.NewReader(r)
	reader.TrimLeadingSpace = true

	header, err := reader.Read()
	if errors.Is(err, io.EOF) {
		return []models.Record{}, nil
	}
	if err != nil {
		return nil, fmt.Errorf("source: read header: %w", err)
	}
	columns := make([]string, len(header))
	for i, h := range header {
		columns[i] = strings.TrimSpace(strings.TrimPrefix(h, "\ufeff"))
	}

	records := make([]models.Record, 0, 256)
	for {
		row, err := reader.Read()
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("source: read row %d: %w", len(records)+1, err)
		}

		rec := make(models.Record, len(columns))
		for i, col := range columns {
			rec[col] = strings.TrimSpace(row[i])
		}
		records = append(records, rec)
	}
	return records, nil
}
