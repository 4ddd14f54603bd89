package pipeline

import (
	"regexp"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"solarconv/internal"
)

func TestParseDayHistoryDelimiters(t *testing.T) {
	entries, err := ParseDayHistory(strings.NewReader("20230615=12.5|3.2;1.1\n"))
	require.NoError(t, err)
	require.Len(t, entries, 1)

	e := entries[0]
	assert.Equal(t, 20230615.0, e.Date)
	assert.Equal(t, 12.5, e.Yield)
	assert.Equal(t, 3.2, e.Consumption)
	assert.Equal(t, 1.1, e.Self)
}

func TestParseDayHistoryDefaultsAndBlankLines(t *testing.T) {
	input := "230616=n/a|4;\r\n\n230615=7\n"
	entries, err := ParseDayHistory(strings.NewReader(input))
	require.NoError(t, err)
	require.Len(t, entries, 2)

	assert.Equal(t, internal.DayEntry{LineNo: 1, Date: 230616, Yield: 0, Consumption: 4, Self: 0}, entries[0])
	assert.Equal(t, internal.DayEntry{LineNo: 3, Date: 230615, Yield: 7}, entries[1])
}

func TestParseDayHistoryInvalidDate(t *testing.T) {
	_, err := ParseDayHistory(strings.NewReader("230615=1|2;3\nyesterday=1|2;3\n"))
	require.Error(t, err)
	assert.Contains(t, err.Error(), "line 2")
}

func TestDayRowsSortedAndFormatted(t *testing.T) {
	input := strings.Join([]string{
		"230617=30|3;1",
		"230615=10|1;1",
		"230616=20.5|2;1",
	}, "\n")
	entries, err := ParseDayHistory(strings.NewReader(input))
	require.NoError(t, err)

	rows, err := DayRows(entries)
	require.NoError(t, err)
	require.Len(t, rows, 3)

	assert.Equal(t, internal.Row{"15.06.23", "10", "1", "1"}, rows[0])
	assert.Equal(t, internal.Row{"16.06.23", "20.5", "2", "1"}, rows[1])
	assert.Equal(t, internal.Row{"17.06.23", "30", "3", "1"}, rows[2])

	shape := regexp.MustCompile(`^\d{2}\.\d{2}\.\d{2}$`)
	for _, r := range rows {
		assert.Regexp(t, shape, r[0])
	}
}

func TestDayRowsRejectsShortDate(t *testing.T) {
	entries, err := ParseDayHistory(strings.NewReader("615=1|1;1\n"))
	require.NoError(t, err)
	_, err = DayRows(entries)
	assert.Error(t, err)
}
