package stats

import (
	"context"
	"errors"
	"strconv"
	"strings"
)

// Data types recorded for each yearly count.
const (
	Incidence = "Incidence"
	Mortality = "Mortality"
)

// Sex categories.
const (
	Males   = "Males"
	Females = "Females"
	Persons = "Persons"
)

// CancerRecord is one row of the historical dataset. Count is kept as the raw
// source text and coerced during aggregation.
type CancerRecord struct {
	State      string `json:"state,omitempty"`
	Year       int    `json:"year"`
	DataType   string `json:"dataType"`
	Count      string `json:"count"`
	CancerType string `json:"cancerType"`
	Sex        string `json:"sex,omitempty"`
}

// Filter selects records by minimum year and cancer type allow-list.
type Filter struct {
	YearFrom    int
	CancerTypes []string
}

// Store is a read-only source of cancer records.
type Store interface {
	Records(ctx context.Context, f Filter) ([]CancerRecord, error)
}

var errEmptyCount = errors.New("empty count")

// ParseCount strips thousands separators and parses the remainder as a number.
func ParseCount(raw string) (float64, error) {
	s := strings.TrimSpace(strings.ReplaceAll(raw, ",", ""))
	if s == "" {
		return 0, errEmptyCount
	}
	return strconv.ParseFloat(s, 64)
}
