package patch

import (
	"errors"
	"strings"
	"testing"

	"github.com/meur/heroforge/internal/herodoc"
	"github.com/meur/heroforge/internal/relic"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func allRules() *Patcher {
	return New(SkillImages{}, RelicLevel{Table: relic.Default()}, Odyssey)
}

func TestSkillImages(t *testing.T) {
	p := New(SkillImages{})

	t.Run("single skill", func(t *testing.T) {
		res, err := p.Patch(herodoc.MustParse(`{"id":"zeus","skills":[{"name":"Bolt"}]}`))
		require.NoError(t, err)
		assert.Equal(t, "/skills/zeus_skill_1.webp", res.Document.Get("skills.0.image").String())
		assert.Equal(t, []string{"Added image to skill 1: /skills/zeus_skill_1.webp"}, res.Changes)
	})

	t.Run("existing images kept", func(t *testing.T) {
		doc := herodoc.MustParse(`{"id":"Nyx","skills":[{"image":"custom.png"},{"name":"b"},"x"],"relic":{"name":"r","image":""}}`)
		res, err := p.Patch(doc)
		require.NoError(t, err)
		assert.Equal(t, "custom.png", res.Document.Get("skills.0.image").String())
		assert.Equal(t, "/skills/nyx_skill_2.webp", res.Document.Get("skills.1.image").String())
		assert.Equal(t, "x", res.Document.Get("skills.2").String())
		assert.Equal(t, "", res.Document.Get("relic.image").String())
		assert.Len(t, res.Changes, 1)
	})

	t.Run("relic image", func(t *testing.T) {
		res, err := p.Patch(herodoc.MustParse(`{"id":"hela","relic":{"name":"Crown"}}`))
		require.NoError(t, err)
		assert.Equal(t, "/skills/hela_relic.webp", res.Document.Get("relic.image").String())
		assert.Equal(t, []string{"Added image to relic: /skills/hela_relic.webp"}, res.Changes)
	})

	t.Run("empty relic skipped", func(t *testing.T) {
		res, err := p.Patch(herodoc.MustParse(`{"id":"hela","relic":{}}`))
		require.NoError(t, err)
		assert.False(t, res.Changed())
	})

	t.Run("name fallback and custom prefix", func(t *testing.T) {
		res, err := New(SkillImages{Prefix: "/img/"}).Patch(herodoc.MustParse(`{"name":"Set","skills":[{}]}`))
		require.NoError(t, err)
		assert.Equal(t, "/img/set_skill_1.webp", res.Document.Get("skills.0.image").String())
	})

	t.Run("missing identity", func(t *testing.T) {
		_, err := p.Patch(herodoc.MustParse(`{"skills":[{"name":"x"}]}`))
		assert.ErrorIs(t, err, ErrMissingIdentity)
	})
}

func TestRelicLevel(t *testing.T) {
	p := New(RelicLevel{Table: relic.Default()})

	t.Run("inserted after ratings", func(t *testing.T) {
		doc := herodoc.MustParse(`{"id":"zeus","name":"Zeus","description":"d","ratings":{"pvp":"A"},"skills":[]}`)
		res, err := p.Patch(doc)
		require.NoError(t, err)

		level, ok := res.Document.RecommendedRelicLevel()
		require.True(t, ok)
		assert.Equal(t, 30, level)
		assert.Equal(t, []string{"recommendedRelicLevel set to 30"}, res.Changes)
		assert.Empty(t, res.Warnings)

		raw := string(res.Document.Bytes())
		assert.Less(t, strings.Index(raw, `"ratings"`), strings.Index(raw, `"recommendedRelicLevel"`))
		assert.Less(t, strings.Index(raw, `"recommendedRelicLevel"`), strings.Index(raw, `"skills"`))
	})

	t.Run("differing value overwritten", func(t *testing.T) {
		res, err := p.Patch(herodoc.MustParse(`{"name":"Amun-Ra","recommendedRelicLevel":10}`))
		require.NoError(t, err)
		level, _ := res.Document.RecommendedRelicLevel()
		assert.Equal(t, 30, level)
		assert.Equal(t, []string{"recommendedRelicLevel updated from 10 to 30"}, res.Changes)
	})

	t.Run("equal value is a no-op", func(t *testing.T) {
		doc := herodoc.MustParse(`{"name":"Tefnut","recommendedRelicLevel":20}`)
		res, err := p.Patch(doc)
		require.NoError(t, err)
		assert.False(t, res.Changed())
		assert.True(t, doc.Equal(res.Document))
	})

	t.Run("miss defaults to zero with warning", func(t *testing.T) {
		res, err := p.Patch(herodoc.MustParse(`{"id":"mystery"}`))
		require.NoError(t, err)
		level, ok := res.Document.RecommendedRelicLevel()
		require.True(t, ok)
		assert.Equal(t, 0, level)
		assert.Equal(t, []string{NotInGuide}, res.Warnings)
	})

	t.Run("string value replaced by number", func(t *testing.T) {
		res, err := p.Patch(herodoc.MustParse(`{"name":"Zeus","recommendedRelicLevel":"30"}`))
		require.NoError(t, err)
		assert.Equal(t, []string{`recommendedRelicLevel updated from "30" to 30`}, res.Changes)
	})

	t.Run("fractional value replaced", func(t *testing.T) {
		res, err := p.Patch(herodoc.MustParse(`{"name":"Zeus","recommendedRelicLevel":30.5}`))
		require.NoError(t, err)
		assert.Equal(t, []string{"recommendedRelicLevel updated from 30.5 to 30"}, res.Changes)
		assert.Equal(t, `{"name":"Zeus","recommendedRelicLevel":30}`, string(res.Document.Bytes()))
	})

	t.Run("defaulted miss already stamped", func(t *testing.T) {
		res, err := p.Patch(herodoc.MustParse(`{"id":"mystery","recommendedRelicLevel":0}`))
		require.NoError(t, err)
		assert.False(t, res.Changed())
		assert.Empty(t, res.Warnings)
	})

	t.Run("missing identity", func(t *testing.T) {
		_, err := p.Patch(herodoc.MustParse(`{"skills":[]}`))
		assert.ErrorIs(t, err, ErrMissingIdentity)
	})
}

func TestRatingDefault(t *testing.T) {
	p := New(Odyssey)

	res, err := p.Patch(herodoc.MustParse(`{"ratings":{"overall":"S","pvp":"A","grimSurge":"B"}}`))
	require.NoError(t, err)
	assert.Equal(t, `{"ratings":{"overall":"S","pvp":"A","odyssey":"B","grimSurge":"B"}}`, string(res.Document.Bytes()))
	assert.Equal(t, []string{"Added rating odyssey: B"}, res.Changes)

	res, err = p.Patch(herodoc.MustParse(`{"ratings":{"odyssey":"S"}}`))
	require.NoError(t, err)
	assert.False(t, res.Changed())

	res, err = p.Patch(herodoc.MustParse(`{"id":"x"}`))
	require.NoError(t, err)
	assert.False(t, res.Changed())
	assert.Equal(t, []string{"no ratings block"}, res.Warnings)
}

func TestIdempotence(t *testing.T) {
	docs := []string{
		`{"id":"zeus","skills":[{"name":"Bolt"}]}`,
		`{"id":"nyx","name":"Nyx","skills":[{"name":"a"},{"name":"b","image":"x"}],"relic":{"name":"r"},"ratings":{"pvp":"A"}}`,
		`{"id":"Unknown","description":"d","recommendedRelicLevel":12}`,
		`{"name":"Amun Ra","ratings":{}}`,
	}
	p := allRules()
	for _, src := range docs {
		first, err := p.Patch(herodoc.MustParse(src))
		require.NoError(t, err, src)

		second, err := p.Patch(first.Document)
		require.NoError(t, err, src)
		assert.Empty(t, second.Changes, src)
		assert.True(t, first.Document.Equal(second.Document), src)
	}
}

func TestAdditivity(t *testing.T) {
	src := `{"id":"zeus","extra":{"deep":[1,2,3]},"skills":[{"name":"Bolt","description":"Zap","upgrades":{"level2":"x"}}],"ratings":{"pvp":"A"}}`
	orig := herodoc.MustParse(src)
	res, err := allRules().Patch(orig)
	require.NoError(t, err)

	for _, path := range []string{"id", "extra", "skills.0.name", "skills.0.description", "skills.0.upgrades", "ratings.pvp"} {
		assert.Equal(t, orig.Get(path).Raw, res.Document.Get(path).Raw, path)
	}
	assert.Equal(t, src, string(orig.Bytes()), "input must not be mutated")
}

func TestPatchBytesParseError(t *testing.T) {
	_, err := allRules().PatchBytes([]byte(`{"id":`))
	var perr *herodoc.ParseError
	assert.True(t, errors.As(err, &perr))
}

func TestRulesNames(t *testing.T) {
	assert.Equal(t, []string{"images", "relic-levels", "rating-odyssey"}, allRules().Rules())
}
