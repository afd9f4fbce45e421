package stats

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var skinTypes = []string{"Melanoma of the skin"}

func rec(year int, dataType, count, sex string) CancerRecord {
	return CancerRecord{Year: year, DataType: dataType, Count: count, CancerType: "Melanoma of the skin", Sex: sex}
}

func TestParseCount(t *testing.T) {
	tests := []struct {
		in   string
		want float64
		ok   bool
	}{
		{"1,000", 1000, true},
		{"500", 500, true},
		{" 1,234,567 ", 1234567, true},
		{"12.5", 12.5, true},
		{"", 0, false},
		{"n.p.", 0, false},
		{"—", 0, false},
	}
	for _, tt := range tests {
		got, err := ParseCount(tt.in)
		if !tt.ok {
			assert.Error(t, err, tt.in)
			continue
		}
		require.NoError(t, err, tt.in)
		assert.Equal(t, tt.want, got)
	}
}

func TestAggregateTimeSeries_SumsThousandsSeparators(t *testing.T) {
	ts := AggregateTimeSeries([]CancerRecord{
		rec(2010, Incidence, "1,000", Males),
		rec(2010, Incidence, "500", Females),
	}, 2007, skinTypes)

	assert.Equal(t, []SeriesPoint{{Year: 2010, DataType: Incidence, Count: 1500}}, ts.Points)
	assert.Zero(t, ts.Skipped)
}

func TestAggregateTimeSeries_FiltersAndOrders(t *testing.T) {
	records := []CancerRecord{
		rec(2012, Mortality, "30", Persons),
		rec(2006, Incidence, "999", Persons),
		rec(2011, Incidence, "100", Persons),
		rec(2012, Incidence, "120", Persons),
		{Year: 2012, DataType: Incidence, Count: "5000", CancerType: "Breast cancer"},
	}

	ts := AggregateTimeSeries(records, 2007, skinTypes)

	assert.Equal(t, []SeriesPoint{
		{Year: 2011, DataType: Incidence, Count: 100},
		{Year: 2012, DataType: Incidence, Count: 120},
		{Year: 2012, DataType: Mortality, Count: 30},
	}, ts.Points)
	assert.Equal(t, []string{Incidence, Mortality}, ts.DataTypes())
}

func TestAggregateTimeSeries_SkipsUnparseable(t *testing.T) {
	ts := AggregateTimeSeries([]CancerRecord{
		rec(2010, Incidence, "100", Males),
		rec(2010, Incidence, "n.p.", Males),
		rec(2010, Incidence, "", Males),
	}, 2007, skinTypes)

	assert.Equal(t, 100.0, ts.Points[0].Count)
	assert.Equal(t, 2, ts.Skipped)
}

func TestAggregateTimeSeries_EmptyInput(t *testing.T) {
	ts := AggregateTimeSeries(nil, 2007, skinTypes)
	assert.True(t, ts.IsEmpty())
	assert.NotNil(t, ts.Points)

	ts = AggregateTimeSeries([]CancerRecord{rec(2001, Incidence, "5", Males)}, 2007, skinTypes)
	assert.True(t, ts.IsEmpty())
}

func TestAggregateByCategory_AllowListOrder(t *testing.T) {
	records := []CancerRecord{
		rec(2010, Incidence, "300", Females),
		rec(2010, Incidence, "1,200", Persons),
		rec(2010, Incidence, "200", Males),
		rec(2011, Incidence, "100", Females),
		rec(2011, Incidence, "bad", Males),
	}

	b := AggregateByCategory(records, []string{Males, Females})

	assert.Equal(t, []Slice{{Label: Males, Count: 200}, {Label: Females, Count: 400}}, b.Slices)
	assert.Equal(t, 600.0, b.Total())
	assert.Equal(t, 1, b.Skipped)
}

func TestAggregateByCategory_OmitsMissingCategories(t *testing.T) {
	b := AggregateByCategory([]CancerRecord{rec(2010, Incidence, "10", Females)}, []string{Males, Females})

	assert.Equal(t, []Slice{{Label: Females, Count: 10}}, b.Slices)
}

func TestAggregateByCategory_Empty(t *testing.T) {
	b := AggregateByCategory([]CancerRecord{rec(2010, Incidence, "10", Persons)}, []string{Males, Females})

	assert.True(t, b.IsEmpty())
	assert.Zero(t, b.Total())
}
