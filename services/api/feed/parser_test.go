package feed

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const ecCSV = "\ufeffDate and Time;Hora lig 1;Hora lig 2;Hora lig 3;EC da água\n" +
	"2024-03-01 08:00:00;1,5;;2;1,25\n" +
	"2024-03-01 09:00:00;3;4;x;\n" +
	"not a date;1;1;1;1,1\n" +
	"01/03/2024 10:30:00;6,25;7;8;1,4\n"

const phCSV = "Date and Time;Hora lig 4;Média do PH;Extra\n" +
	"2024-03-01 08:00:00;2,5;6,8;ignored\n" +
	"2024-03-01 08:15:00;;;\n" +
	";1;7\n"

func TestParseDecimal(t *testing.T) {
	testCases := []struct {
		name  string
		input string
		want  *float64
	}{
		{name: "decimal comma", input: "1,25", want: ptr(1.25)},
		{name: "decimal point", input: "3.5", want: ptr(3.5)},
		{name: "integer with spaces", input: " 42 ", want: ptr(42)},
		{name: "empty", input: "", want: nil},
		{name: "garbage", input: "abc", want: nil},
		{name: "nan text", input: "nan", want: nil},
		{name: "infinite", input: "Inf", want: nil},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			got := ParseDecimal(tc.input)
			if tc.want == nil {
				assert.Nil(t, got)
				return
			}
			require.NotNil(t, got)
			assert.InDelta(t, *tc.want, *got, 1e-9)
		})
	}
}

func TestParseTimestamp(t *testing.T) {
	p := NewParser(nil, nil)

	ts, ok := p.ParseTimestamp("2024-03-01 08:00:00")
	require.True(t, ok)
	assert.Equal(t, time.Date(2024, 3, 1, 8, 0, 0, 0, time.UTC), ts)

	ts, ok = p.ParseTimestamp("02/03/2024 10:30")
	require.True(t, ok)
	assert.Equal(t, time.Date(2024, 3, 2, 10, 30, 0, 0, time.UTC), ts, "slash dates are day-first")

	_, ok = p.ParseTimestamp("yesterday")
	assert.False(t, ok)

	_, ok = p.ParseTimestamp("  ")
	assert.False(t, ok)
}

func TestParseTimestampCustomLayout(t *testing.T) {
	loc := time.FixedZone("BRT", -3*3600)
	p := NewParser([]string{"2006/01/02 15h04"}, loc)

	ts, ok := p.ParseTimestamp("2024/05/06 07h08")
	require.True(t, ok)
	assert.Equal(t, time.Date(2024, 5, 6, 7, 8, 0, 0, loc), ts)

	_, ok = p.ParseTimestamp("2024-05-06 07:08:00")
	assert.False(t, ok, "default layouts are replaced, not extended")
}

func TestReadTable(t *testing.T) {
	table, err := ReadTable("ec", strings.NewReader(ecCSV))
	require.NoError(t, err)

	assert.Equal(t, []string{ColTimestamp, ColRuntime1, ColRuntime2, ColRuntime3, ColEC}, table.Header)
	assert.Len(t, table.Rows, 4)

	idx, ok := table.Column(ColEC)
	assert.True(t, ok)
	assert.Equal(t, 4, idx)
}

func TestReadTableEmpty(t *testing.T) {
	_, err := ReadTable("empty", strings.NewReader(""))
	assert.Error(t, err)
}

func TestParseEC(t *testing.T) {
	table, err := ReadTable("ec", strings.NewReader(ecCSV))
	require.NoError(t, err)

	readings, err := NewParser(nil, nil).ParseEC(table)
	require.NoError(t, err)

	// Row 2 has no EC value and row 3 has no timestamp.
	require.Len(t, readings, 2)

	first := readings[0]
	assert.Equal(t, time.Date(2024, 3, 1, 8, 0, 0, 0, time.UTC), first.Timestamp)
	require.NotNil(t, first.EC)
	assert.InDelta(t, 1.25, *first.EC, 1e-9)
	require.NotNil(t, first.Runtime[0])
	assert.InDelta(t, 1.5, *first.Runtime[0], 1e-9)
	assert.Nil(t, first.Runtime[1], "blank runtime stays absent until reconciliation")
	require.NotNil(t, first.Runtime[2])
	assert.Nil(t, first.Runtime[3])
	assert.Nil(t, first.PH)

	second := readings[1]
	assert.Equal(t, time.Date(2024, 3, 1, 10, 30, 0, 0, time.UTC), second.Timestamp)
	assert.InDelta(t, 6.25, *second.Runtime[0], 1e-9)
}

func TestParsePH(t *testing.T) {
	table, err := ReadTable("ph", strings.NewReader(phCSV))
	require.NoError(t, err)

	readings, err := NewParser(nil, nil).ParsePH(table)
	require.NoError(t, err)

	// The row with an empty pH value is kept; the row without a timestamp is not.
	require.Len(t, readings, 2)
	assert.InDelta(t, 6.8, *readings[0].PH, 1e-9)
	assert.InDelta(t, 2.5, *readings[0].Runtime[3], 1e-9)
	assert.Nil(t, readings[0].EC)
	assert.Nil(t, readings[0].Runtime[0])

	assert.Nil(t, readings[1].PH)
	assert.Nil(t, readings[1].Runtime[3])
}

func TestParseMissingColumn(t *testing.T) {
	table, err := ReadTable("ec", strings.NewReader("Date and Time;Hora lig 1\n2024-03-01 08:00:00;1\n"))
	require.NoError(t, err)

	_, err = NewParser(nil, nil).ParseEC(table)
	require.Error(t, err)
	assert.True(t, errors.Is(err, ErrMissingColumn))
}

func TestLoadFeed(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "ec.csv")
	require.NoError(t, os.WriteFile(path, []byte(ecCSV), 0o644))

	p := NewParser(nil, nil)
	readings := LoadFeed(context.Background(), FileSource{Path: path}, p.ParseEC)
	assert.Len(t, readings, 2)

	missing := LoadFeed(context.Background(), FileSource{Path: filepath.Join(dir, "nope.csv")}, p.ParseEC)
	assert.Empty(t, missing, "a missing file yields an empty feed")

	wrong := LoadFeed(context.Background(), FileSource{Path: path}, p.ParsePH)
	assert.Empty(t, wrong, "a feed without the required columns yields an empty feed")
}

func ptr(v float64) *float64 {
	return &v
}
