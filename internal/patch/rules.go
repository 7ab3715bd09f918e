package patch

import (
	"fmt"
	"strings"

	"github.com/meur/heroforge/internal/herodoc"
	"github.com/meur/heroforge/internal/relic"
)

// DefaultImagePrefix is the asset directory used in image paths
const DefaultImagePrefix = "/skills"

// SkillImages adds image paths to skills and the relic
type SkillImages struct {
	Prefix string
}

func (SkillImages) Name() string { return "images" }

func (r SkillImages) Apply(doc *herodoc.Document) (Outcome, error) {
	base := strings.ToLower(doc.ID())
	if base == "" {
		base = strings.ToLower(doc.Name())
	}
	if base == "" {
		return Outcome{}, ErrMissingIdentity
	}
	prefix := r.Prefix
	if prefix == "" {
		prefix = DefaultImagePrefix
	}
	prefix = strings.TrimRight(prefix, "/")

	var out Outcome
	skills := doc.Get("skills")
	if skills.IsArray() {
		for i, skill := range skills.Array() {
			if !skill.IsObject() || skill.Get("image").Exists() {
				continue
			}
			path := fmt.Sprintf("%s/%s_skill_%d.webp", prefix, base, i+1)
			if err := doc.Set(fmt.Sprintf("skills.%d.image", i), path); err != nil {
				return Outcome{}, err
			}
			out.Changes = append(out.Changes, fmt.Sprintf("Added image to skill %d: %s", i+1, path))
		}
	}

	if rel := doc.Relic(); rel != nil && !rel.HasImage {
		path := fmt.Sprintf("%s/%s_relic.webp", prefix, base)
		if err := doc.Set("relic.image", path); err != nil {
			return Outcome{}, err
		}
		out.Changes = append(out.Changes, "Added image to relic: "+path)
	}
	return out, nil
}

// LevelField is the document field stamped by RelicLevel
const LevelField = "recommendedRelicLevel"

// NotInGuide is the warning attached to lookup misses
const NotInGuide = "not in guide, defaulting to 0"

// RelicLevel stamps the recommended relic level from a guide table
type RelicLevel struct {
	Table *relic.Table
}

func (RelicLevel) Name() string { return "relic-levels" }

func (r RelicLevel) Apply(doc *herodoc.Document) (Outcome, error) {
	name := doc.DisplayName()
	if name == "" {
		return Outcome{}, ErrMissingIdentity
	}
	table := r.Table
	if table == nil {
		table = relic.Default()
	}

	level, found := table.Lookup(name)
	current, ok := doc.RecommendedRelicLevel()
	if ok && current == level {
		return Outcome{}, nil
	}

	var out Outcome
	if !found {
		out.Warnings = append(out.Warnings, NotInGuide)
	}

	previous := doc.Get(LevelField)
	if err := doc.InsertAfter("", LevelField, level, "ratings", "description"); err != nil {
		return Outcome{}, err
	}
	if previous.Exists() {
		out.Changes = append(out.Changes, fmt.Sprintf("%s updated from %s to %d", LevelField, previous.Raw, level))
	} else {
		out.Changes = append(out.Changes, fmt.Sprintf("%s set to %d", LevelField, level))
	}
	return out, nil
}

// RatingDefault adds a missing rating category with a default value
type RatingDefault struct {
	Key   string
	Value string
	After string // Rating placed before the new one, appended when absent
}

// Odyssey is the rating default introduced with the odyssey mode
var Odyssey = RatingDefault{Key: "odyssey", Value: "B", After: "pvp"}

func (r RatingDefault) Name() string { return "rating-" + r.Key }

func (r RatingDefault) Apply(doc *herodoc.Document) (Outcome, error) {
	if !doc.HasRatings() {
		return Outcome{Warnings: []string{"no ratings block"}}, nil
	}
	if _, ok := doc.Rating(r.Key); ok {
		return Outcome{}, nil
	}
	if err := doc.InsertAfter("ratings", r.Key, r.Value, r.After); err != nil {
		return Outcome{}, err
	}
	return Outcome{Changes: []string{fmt.Sprintf("Added rating %s: %s", r.Key, r.Value)}}, nil
}
