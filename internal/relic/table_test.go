package relic

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestNormalize(t *testing.T) {
	tests := []struct {
		in, want string
	}{
		{"Amun Ra", "amunra"},
		{"AMUN-RA", "amunra"},
		{"amun_ra", "amunra"},
		{"D-Cancer", "dcancer"},
		{"Nüwa", "nüwa"},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, Normalize(tt.in), tt.in)
	}
}

func TestLookup(t *testing.T) {
	table := Default()

	t.Run("separator and case insensitive", func(t *testing.T) {
		for _, name := range []string{"Amun Ra", "amunra", "AMUN-RA", "amun_ra"} {
			level, found := table.Lookup(name)
			assert.True(t, found, name)
			assert.Equal(t, 30, level, name)
		}
	})

	t.Run("guide keys with separators", func(t *testing.T) {
		level, found := table.Lookup("D Aries")
		assert.True(t, found)
		assert.Equal(t, 1, level)
	})

	t.Run("zero level entries are found", func(t *testing.T) {
		level, found := table.Lookup("Medusa")
		assert.True(t, found)
		assert.Equal(t, 0, level)
	})

	t.Run("miss defaults to zero", func(t *testing.T) {
		for _, name := range []string{"Unknown Hero", "", "zeus2"} {
			level, found := table.Lookup(name)
			assert.False(t, found, name)
			assert.Equal(t, DefaultLevel, level, name)
		}
	})
}

func TestNewTableOverrides(t *testing.T) {
	table := NewTable(Guide, map[string]int{"Zeus": 20, "New Hero": 10})

	level, found := table.Lookup("zeus")
	assert.True(t, found)
	assert.Equal(t, 20, level)

	level, found = table.Lookup("newhero")
	assert.True(t, found)
	assert.Equal(t, 10, level)

	assert.Equal(t, len(Guide)+1, table.Len())
}

func TestEntriesOrdered(t *testing.T) {
	entries := NewTable(map[string]int{"b": 1, "a": 1, "c": 30}).Entries()
	assert.Equal(t, []string{"c", "a", "b"}, []string{entries[0].Name, entries[1].Name, entries[2].Name})
}
