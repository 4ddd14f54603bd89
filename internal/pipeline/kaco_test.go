package pipeline

import (
	"errors"
	"fmt"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"solarconv/internal"
)

const kacoCSV = "Wechselrichter;Seriennummer;RS485;IP;Ertrag\n" +
	"WR1;123456;1;192.168.1.20;1.5\n" +
	"WR1;123456;1;192.168.1.20;9.9\n"

func TestParseKacoFile(t *testing.T) {
	path := writeFile(t, t.TempDir(), "wr1_20230615.CSV", kacoCSV)

	entry, err := ParseKacoFile(path)
	require.NoError(t, err)
	assert.Equal(t, "15.06.2023", entry.Date)
	assert.Equal(t, 1500.0, entry.YieldWh)

	assert.Equal(t, []internal.Row{{"15.06.2023", "1500\n"}}, KacoRows(entry))
}

func TestParseKacoFileStopsAfterFirstRow(t *testing.T) {
	// the second data row is malformed and must never be read
	content := kacoCSV + "broken\"row;;\n"
	path := writeFile(t, t.TempDir(), "wr1_20230616.CSV", content)

	entry, err := ParseKacoFile(path)
	require.NoError(t, err)
	assert.Equal(t, 1500.0, entry.YieldWh)
}

func TestParseKacoFileErrors(t *testing.T) {
	dir := t.TempDir()

	_, err := ParseKacoFile(writeFile(t, dir, "a_20230615.CSV", "only;a;header;line;here\n"))
	assert.True(t, errors.Is(err, ErrNoDataRow), "err=%v", err)

	_, err = ParseKacoFile(writeFile(t, dir, "b_20230615.CSV", "h1;h2;h3;h4;h5\nWR1;1;2;3;4;5\n"))
	require.Error(t, err)
	assert.Contains(t, err.Error(), "want 5 columns")

	_, err = ParseKacoFile(writeFile(t, dir, "export.CSV", kacoCSV))
	assert.Error(t, err)
}

func TestParseKacoFileCoercesYield(t *testing.T) {
	dir := t.TempDir()
	cases := []struct {
		name    string
		content string
		want    string
	}{
		{name: "comma decimal", content: "h1;h2;h3;h4;h5\nWR1;1;2;3;1,5\n", want: "NaN\n"},
		{name: "text", content: "h1;h2;h3;h4;h5\nWR1;1;2;3;offline\n", want: "NaN\n"},
		{name: "short row", content: "h1;h2;h3;h4;h5\nWR1;1;2;3\n", want: "NaN\n"},
		{name: "empty yield", content: "h1;h2;h3;h4;h5\nWR1;1;2;3;\n", want: "0\n"},
	}
	for i, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			path := writeFile(t, dir, fmt.Sprintf("wr%d_20230615.CSV", i), tc.content)
			entry, err := ParseKacoFile(path)
			require.NoError(t, err)
			assert.Equal(t, internal.Row{"15.06.2023", tc.want}, KacoRows(entry)[0])
		})
	}
}

func TestReadFirstKacoRecord(t *testing.T) {
	record, err := readFirstKacoRecord(strings.NewReader("x\nWR;S;R;I;2.25\n"))
	require.NoError(t, err)
	assert.Equal(t, "Yield", KacoColumns[4])
	assert.Equal(t, "2.25", record[4])
}
