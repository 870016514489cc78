package bsdate

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParse(t *testing.T) {
	tests := []struct {
		in      string
		wantErr bool
	}{
		{"2077-01-01", false},
		{"2077-02-32", false}, // Jestha 2077 has 32 days
		{"2077-12-30", false},
		{"2077-02-33", true},
		{"2077-07-31", true}, // Kartik 2077 has 30 days
		{"2077-00-10", true},
		{"2077-13-01", true},
		{"2069-01-01", true}, // before supported range
		{"2091-01-01", true}, // after supported range
		{"2077-1-1", true},
		{"not-a-date", true},
		{"", true},
	}

	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			d, err := Parse(tt.in)
			if tt.wantErr {
				assert.Error(t, err)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.in, d.String())
		})
	}
}

func TestCompare(t *testing.T) {
	a := MustParse("2077-01-10")
	b := MustParse("2077-02-01")
	c := MustParse("2078-01-01")

	assert.True(t, a.Before(b))
	assert.True(t, b.Before(c))
	assert.True(t, c.After(a))
	assert.True(t, a.Equal(MustParse("2077-01-10")))
	assert.Equal(t, 0, a.Compare(a))
	assert.Equal(t, -1, a.Compare(b))
	assert.Equal(t, 1, b.Compare(a))
}

func TestMonthBounds(t *testing.T) {
	d := MustParse("2077-02-15")
	assert.Equal(t, "2077-02-01", d.MonthStart().String())
	assert.Equal(t, "2077-02-32", d.MonthEnd().String())
	assert.False(t, d.IsMonthEnd())
	assert.True(t, d.MonthEnd().IsMonthEnd())
}

func TestSameMonth(t *testing.T) {
	d := MustParse("2077-02-15")
	assert.True(t, d.SameMonth(MustParse("2077-02-01")))
	assert.False(t, d.SameMonth(MustParse("2077-03-01")))
	assert.False(t, d.SameMonth(MustParse("2078-02-15")))
}

func TestAddDays(t *testing.T) {
	tests := []struct {
		start string
		days  int
		want  string
	}{
		{"2077-01-15", 0, "2077-01-15"},
		{"2077-01-31", 1, "2077-02-01"}, // Baishakh 2077 has 31 days
		{"2077-12-30", 1, "2078-01-01"}, // year rollover
		{"2077-01-01", -1, "2076-12-30"},
		{"2077-01-01", 63, "2077-03-01"}, // across 31+32 day months
	}

	for _, tt := range tests {
		got, err := MustParse(tt.start).AddDays(tt.days)
		require.NoError(t, err)
		assert.Equal(t, tt.want, got.String())
	}

	_, err := MustParse("2090-12-30").AddDays(1)
	assert.Error(t, err)
	_, err = MustParse("2070-01-01").AddDays(-1)
	assert.Error(t, err)
}

func TestDaysUntil(t *testing.T) {
	tests := []struct {
		from, to string
		want     int
	}{
		{"2077-01-10", "2077-01-10", 0},
		{"2077-01-01", "2077-01-10", 9},
		{"2077-01-01", "2077-02-01", 31},
		{"2077-02-01", "2077-01-01", -31},
		{"2077-12-30", "2078-01-01", 1},
	}

	for _, tt := range tests {
		got, err := MustParse(tt.from).DaysUntil(MustParse(tt.to))
		require.NoError(t, err)
		assert.Equal(t, tt.want, got, "%s -> %s", tt.from, tt.to)
	}
}

func TestJSONRoundTrip(t *testing.T) {
	d := MustParse("2077-04-32")
	raw, err := json.Marshal(d)
	require.NoError(t, err)
	assert.Equal(t, `"2077-04-32"`, string(raw))

	var back Date
	require.NoError(t, json.Unmarshal(raw, &back))
	assert.True(t, d.Equal(back))

	assert.Error(t, json.Unmarshal([]byte(`"2077-13-01"`), &back))
}

func TestZeroValue(t *testing.T) {
	var d Date
	assert.True(t, d.IsZero())
	assert.False(t, MustParse("2077-01-01").IsZero())
}
