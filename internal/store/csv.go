package store

import (
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"strconv"
	"strings"

	"github.com/patrick-anyanwu/SunProtection/internal/stats"
)

var requiredColumns = []string{"year", "data_type", "count", "cancer_type"}

// ReadCSV parses cancer records. Header names are matched case-insensitively
// after trimming; state and sex are optional. Rows whose year is not an integer
// are skipped and counted. Count is kept verbatim.
func ReadCSV(r io.Reader) ([]stats.CancerRecord, int, error) {
	cr := csv.NewReader(r)
	cr.FieldsPerRecord = -1
	cr.TrimLeadingSpace = true

	header, err := cr.Read()
	if err != nil {
		if errors.Is(err, io.EOF) {
			return nil, 0, errors.New("missing header row")
		}
		return nil, 0, err
	}

	cols := make(map[string]int, len(header))
	for i, h := range header {
		cols[strings.ToLower(strings.TrimSpace(strings.TrimPrefix(h, "\ufeff")))] = i
	}
	for _, c := range requiredColumns {
		if _, ok := cols[c]; !ok {
			return nil, 0, fmt.Errorf("missing column %q", c)
		}
	}

	field := func(row []string, name string) string {
		i, ok := cols[name]
		if !ok || i >= len(row) {
			return ""
		}
		return strings.TrimSpace(row[i])
	}

	var (
		records []stats.CancerRecord
		skipped int
	)
	for {
		row, err := cr.Read()
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			return nil, 0, err
		}

		year, err := strconv.Atoi(field(row, "year"))
		if err != nil {
			skipped++
			continue
		}
		records = append(records, stats.CancerRecord{
			State:      field(row, "state"),
			Year:       year,
			DataType:   field(row, "data_type"),
			Count:      field(row, "count"),
			CancerType: field(row, "cancer_type"),
			Sex:        field(row, "sex"),
		})
	}
	return records, skipped, nil
}
