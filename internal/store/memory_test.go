package store

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/patrick-anyanwu/SunProtection/internal/stats"
)

const sampleCSV = `State,Year,Data_Type,Count,Cancer_Type,Sex
Victoria,2006,Incidence,"1,100",Melanoma of the skin,Males
Victoria,2010,Incidence,"1,000",Melanoma of the skin,Males
Victoria,2010,Mortality,120,Melanoma of the skin,Females
Victoria,2010,Incidence,900,Breast cancer,Females
Victoria,n.a.,Incidence,10,Melanoma of the skin,Males
`

func writeCSV(t *testing.T, body string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "cancer.csv")
	require.NoError(t, os.WriteFile(path, []byte(body), 0o600))
	return path
}

func TestCSVStore_LoadAndFilter(t *testing.T) {
	s, err := NewCSVStore(writeCSV(t, sampleCSV), nil)
	require.NoError(t, err)
	assert.Equal(t, 4, s.Len())

	got, err := s.Records(context.Background(), stats.Filter{
		YearFrom:    2007,
		CancerTypes: []string{"Melanoma of the skin"},
	})
	require.NoError(t, err)
	require.Len(t, got, 2)
	assert.Equal(t, stats.CancerRecord{
		State: "Victoria", Year: 2010, DataType: "Incidence", Count: "1,000",
		CancerType: "Melanoma of the skin", Sex: "Males",
	}, got[0])
}

func TestCSVStore_EmptyTypeFilterMatchesAll(t *testing.T) {
	s, err := NewCSVStore(writeCSV(t, sampleCSV), nil)
	require.NoError(t, err)

	got, err := s.Records(context.Background(), stats.Filter{YearFrom: 2007})
	require.NoError(t, err)
	assert.Len(t, got, 3)
}

func TestCSVStore_ReloadKeepsOldDataOnFailure(t *testing.T) {
	path := writeCSV(t, sampleCSV)
	s, err := NewCSVStore(path, nil)
	require.NoError(t, err)

	require.NoError(t, os.WriteFile(path, []byte("nonsense\n"), 0o600))
	assert.Error(t, s.Reload(context.Background()))
	assert.Equal(t, 4, s.Len())

	require.NoError(t, os.WriteFile(path, []byte("year,data_type,count,cancer_type\n2015,Incidence,5,Melanoma of the skin\n"), 0o600))
	require.NoError(t, s.Reload(context.Background()))
	assert.Equal(t, 1, s.Len())
}

func TestCSVStore_MissingFile(t *testing.T) {
	_, err := NewCSVStore(filepath.Join(t.TempDir(), "missing.csv"), nil)
	assert.Error(t, err)
}

func TestMemoryStore_ReloadWithoutSource(t *testing.T) {
	s := NewMemoryStore(nil)
	assert.ErrorIs(t, s.Reload(context.Background()), ErrNoSource)
}

func TestMemoryStore_CancelledContext(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := NewMemoryStore(nil).Records(ctx, stats.Filter{})
	assert.ErrorIs(t, err, context.Canceled)
}
