package pipeline

import (
	"errors"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"solarconv/internal"
)

const minuteJSON = `{"776":{"1686787200":[
 ["00:05",[[0,0],[210,0.02]]],
 ["12:30",[[4900,12.5],[350,3.1]]],
 ["12:31",[["4910","12.6"],[360,3.2]]]
]}}`

func writeFile(t *testing.T, dir, name, content string) string {
	t.Helper()
	path := filepath.Join(dir, name)
	require.NoError(t, os.MkdirAll(filepath.Dir(path), 0o755))
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
	return path
}

func TestParseMinuteFilePlain(t *testing.T) {
	path := writeFile(t, t.TempDir(), "min230615.json", minuteJSON)

	res, err := ParseMinuteFile(path, MinutePlain, 98, 230)
	require.NoError(t, err)
	assert.Empty(t, res.Base)
	require.Len(t, res.Rows, 3)

	for i, row := range res.Rows {
		assert.Equal(t, []string{"0", "1", "2"}[i], row[0])
		assert.Equal(t, "15.06.23", row[1])
	}
	assert.Equal(t, internal.Row{"1", "15.06.23", "12:30", "4900", "12.5", "350", "3.1"}, res.Rows[1])
	assert.Equal(t, internal.Row{"2", "15.06.23", "12:31", "4910", "12.6", "360", "3.2"}, res.Rows[2])
}

func TestParseMinuteFileSL(t *testing.T) {
	path := writeFile(t, t.TempDir(), "min230615.json", minuteJSON)

	res, err := ParseMinuteFile(path, MinuteSL, 98, 230)
	require.NoError(t, err)
	assert.Equal(t, "min230615", res.Base)
	require.Len(t, res.Rows, 3)
	// 4900 / 0.98 = 5000
	assert.Equal(t, internal.Row{`m[mi++]="15.06.23 12:30|4900;5000;12.5;230"`}, res.Rows[1])
	assert.Equal(t, internal.Row{`m[mi++]="15.06.23 00:05|0;0;0;230"`}, res.Rows[0])
	// 4910 / 0.98 = 5010.2
	assert.Equal(t, internal.Row{`m[mi++]="15.06.23 12:31|4910;5010;12.6;230"`}, res.Rows[2])
}

func TestParseMinuteFileErrors(t *testing.T) {
	dir := t.TempDir()

	_, err := ParseMinuteFile(writeFile(t, dir, "a/min230615.json", `{"777":{}}`), MinutePlain, 98, 230)
	assert.True(t, errors.Is(err, ErrMissingSensor), "err=%v", err)

	_, err = ParseMinuteFile(writeFile(t, dir, "b/min230615.json", `{"776":{}}`), MinutePlain, 98, 230)
	assert.True(t, errors.Is(err, ErrSubKeyCount), "err=%v", err)

	_, err = ParseMinuteFile(writeFile(t, dir, "c/min230615.json", `{"776":{"a":[],"b":[]}}`), MinutePlain, 98, 230)
	assert.True(t, errors.Is(err, ErrSubKeyCount), "err=%v", err)

	_, err = ParseMinuteFile(writeFile(t, dir, "d/min230615.json", `{"776":`), MinutePlain, 98, 230)
	assert.Error(t, err)

	_, err = ParseMinuteFile(writeFile(t, dir, "e/min230615.json", `{"776":{"k":[["00:05",[[1]]]]}}`), MinutePlain, 98, 230)
	assert.Error(t, err)

	_, err = ParseMinuteFile(writeFile(t, dir, "min2306.json", minuteJSON), MinutePlain, 98, 230)
	assert.Error(t, err)
}

func TestParseMinuteFileCoercesValues(t *testing.T) {
	content := `{"776":{"k":[["00:05",[["x",null],[true,"  "]]],["00:06",[[5],[1,2]]]]}}`
	path := writeFile(t, t.TempDir(), "min230615.json", content)

	res, err := ParseMinuteFile(path, MinutePlain, 98, 230)
	require.NoError(t, err)
	require.Len(t, res.Rows, 2)
	assert.Equal(t, internal.Row{"0", "15.06.23", "00:05", "NaN", "0", "1", "0"}, res.Rows[0])
	assert.Equal(t, internal.Row{"1", "15.06.23", "00:06", "5", "NaN", "1", "2"}, res.Rows[1])

	res, err = ParseMinuteFile(path, MinuteSL, 98, 230)
	require.NoError(t, err)
	assert.Equal(t, internal.Row{`m[mi++]="15.06.23 00:05|NaN;NaN;0;230"`}, res.Rows[0])
}

func TestParseMinuteFormat(t *testing.T) {
	f, err := ParseMinuteFormat("SL")
	require.NoError(t, err)
	assert.Equal(t, MinuteSL, f)

	_, err = ParseMinuteFormat("csv")
	assert.Error(t, err)
}
