package grid

import (
	"context"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCSVRoundTrip(t *testing.T) {
	ctx := context.Background()
	g := CSV{Path: filepath.Join(t.TempDir(), "out", "ratings.csv")}

	rows, err := g.Read(ctx)
	require.NoError(t, err)
	assert.Empty(t, rows)

	want := [][]string{
		{"Heldenname", "overall", "pvp"},
		{"Amun Ra", "S", "–"},
		{"Nüwa, the Mender", "A"},
	}
	require.NoError(t, g.Replace(ctx, want))

	rows, err = g.Read(ctx)
	require.NoError(t, err)
	assert.Equal(t, want, rows)

	require.NoError(t, g.Replace(ctx, want[:1]))
	rows, err = g.Read(ctx)
	require.NoError(t, err)
	assert.Len(t, rows, 1)
}

func TestColumnLetter(t *testing.T) {
	tests := map[int]string{1: "A", 7: "G", 26: "Z", 27: "AA", 52: "AZ", 703: "AAA"}
	for n, want := range tests {
		assert.Equal(t, want, ColumnLetter(n), n)
	}
}

func TestSheetsReadRange(t *testing.T) {
	s := &Sheets{cfg: SheetsConfig{SheetName: "Ratings"}, columns: DefaultColumns}
	assert.Equal(t, "Ratings!A1:G", s.readRange())

	s.SetColumns(9)
	assert.Equal(t, "Ratings!A1:I", s.readRange())

	s.SetColumns(0)
	assert.Equal(t, "Ratings!A1:I", s.readRange())
}
