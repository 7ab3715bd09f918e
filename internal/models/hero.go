package models

// RatingKeys are the rating categories tracked per hero, in sheet column order
var RatingKeys = []string{"overall", "grimSurge", "delusionsDen", "torrentRift", "pvp", "odyssey"}

// Upgrade is one level label of a skill or relic upgrade table
type Upgrade struct {
	Level string `json:"level"`
	Text  string `json:"text"`
}

// Skill represents one skill entry of a hero document
type Skill struct {
	ID          string    `json:"id,omitempty"`
	Name        string    `json:"name"`
	Description string    `json:"description"`
	Image       string    `json:"image,omitempty"`
	HasImage    bool      `json:"-"` // Key presence, an empty image still counts
	Upgrades    []Upgrade `json:"upgrades,omitempty"`
}

// Relic represents the relic of a hero document
type Relic struct {
	Name        string    `json:"name"`
	Description string    `json:"description"`
	Image       string    `json:"image,omitempty"`
	HasImage    bool      `json:"-"`
	Upgrades    []Upgrade `json:"upgrades,omitempty"`
}

// Rating is one category rating of a hero, in document order
type Rating struct {
	Key   string `json:"key"`
	Value string `json:"value"`
}

// HeroSummary is a lightweight version for listings
type HeroSummary struct {
	ID                    string            `json:"id"`
	Name                  string            `json:"name"`
	File                  string            `json:"file"`
	SkillCount            int               `json:"skill_count"`
	HasRelic              bool              `json:"has_relic"`
	Ratings               map[string]string `json:"ratings"`
	RecommendedRelicLevel *int              `json:"recommended_relic_level,omitempty"`
}

// RelicLevel is one entry of the relic level guide
type RelicLevel struct {
	Name  string `json:"name"`
	Level int    `json:"level"`
	Found bool   `json:"found"`
}
