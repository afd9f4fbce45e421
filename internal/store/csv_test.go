package store

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestReadCSV_OptionalColumns(t *testing.T) {
	in := "\ufeff Year , DATA_TYPE,count,cancer_type\n2012,Mortality,45,Melanoma of the skin\n"

	records, skipped, err := ReadCSV(strings.NewReader(in))

	require.NoError(t, err)
	assert.Zero(t, skipped)
	require.Len(t, records, 1)
	assert.Equal(t, 2012, records[0].Year)
	assert.Equal(t, "45", records[0].Count)
	assert.Empty(t, records[0].Sex)
	assert.Empty(t, records[0].State)
}

func TestReadCSV_SkipsBadYears(t *testing.T) {
	_, skipped, err := ReadCSV(strings.NewReader(sampleCSV))

	require.NoError(t, err)
	assert.Equal(t, 1, skipped)
}

func TestReadCSV_MissingColumn(t *testing.T) {
	_, _, err := ReadCSV(strings.NewReader("year,count\n2010,5\n"))
	assert.ErrorContains(t, err, `missing column "data_type"`)
}

func TestReadCSV_Empty(t *testing.T) {
	_, _, err := ReadCSV(strings.NewReader(""))
	assert.ErrorContains(t, err, "missing header")
}
