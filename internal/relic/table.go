// Package relic maps hero names to recommended relic levels.
package relic

import (
	"sort"
	"strings"

	"github.com/meur/heroforge/internal/models"
)

// DefaultLevel is used for heroes missing from the guide
const DefaultLevel = 0

// Guide is the relic level guide. Keys may use any casing or separators.
var Guide = map[string]int{
	// Level 30 - Highest Priority
	"zeus":     30,
	"nyx":      30,
	"nuwa":     30,
	"dionysus": 30,
	"amun ra":  30,
	"nezha":    30,
	"hecate":   30,
	"hladgnnr": 30,
	"hela":     30,

	// Level 20 - High Priority
	"tefnut":  20,
	"caishen": 20,
	"anubis":  20,
	"bastet":  20,
	"phoenix": 20,
	"isis":    20,

	// Level 10 - Medium Priority
	"yuelao":   10,
	"poseidon": 10,
	"momus":    10,
	"set":      10,
	"nemesis":  10,
	"fengyi":   10,
	"jingwei":  10,

	// Level 1 - Low Priority
	"jormungandr": 1,
	"prometheus":  1,
	"khepri":      1,
	"d-cancer":    1,
	"d-aries":     1,
	"d-aquarius":  1,

	// Unactivated
	"medusa":  0,
	"sekhmet": 0,
	"ares":    0,
	"pan":     0,
	"diana":   0,
	"iris":    0,
	"yanlou":  0,
	"athena":  0,
	"artemis": 0,
	"ullr":    0,
	"demeter": 0,
	"freya":   0,
	"geb":     0,
	"horus":   0,
	"surtr":   0,
}

var separators = strings.NewReplacer(" ", "", "-", "", "_", "")

// Normalize lower-cases name and strips spaces, hyphens and underscores
func Normalize(name string) string {
	return separators.Replace(strings.ToLower(name))
}

// Table is an immutable name to level lookup
type Table struct {
	normalized map[string]int
	lowered    map[string]int
	names      map[string]string // normalized key -> name as given
}

// NewTable builds a table from one or more guides. Later guides win on
// conflicting names.
func NewTable(guides ...map[string]int) *Table {
	t := &Table{
		normalized: make(map[string]int),
		lowered:    make(map[string]int),
		names:      make(map[string]string),
	}
	for _, g := range guides {
		for name, level := range g {
			key := Normalize(name)
			t.normalized[key] = level
			t.lowered[strings.ToLower(name)] = level
			t.names[key] = name
		}
	}
	return t
}

// Default returns the table for the built-in guide
func Default() *Table {
	return NewTable(Guide)
}

// Lookup returns the level for a hero name. found is false when the name
// is not in the guide, in which case level is DefaultLevel.
func (t *Table) Lookup(name string) (level int, found bool) {
	if level, ok := t.normalized[Normalize(name)]; ok {
		return level, true
	}
	if level, ok := t.lowered[strings.ToLower(name)]; ok {
		return level, true
	}
	return DefaultLevel, false
}

// Len returns the number of distinct normalized names
func (t *Table) Len() int {
	return len(t.normalized)
}

// Entries lists the table ordered by level descending, then name
func (t *Table) Entries() []models.RelicLevel {
	out := make([]models.RelicLevel, 0, len(t.normalized))
	for key, level := range t.normalized {
		out = append(out, models.RelicLevel{Name: t.names[key], Level: level, Found: true})
	}
	sort.Slice(out, func(i, j int) bool {
		if out[i].Level != out[j].Level {
			return out[i].Level > out[j].Level
		}
		return out[i].Name < out[j].Name
	})
	return out
}
