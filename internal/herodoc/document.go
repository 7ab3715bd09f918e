// Package herodoc reads and edits hero JSON documents without losing
// unknown fields or their order.
package herodoc

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"strings"

	"github.com/meur/heroforge/internal/models"
	"github.com/tidwall/gjson"
	"github.com/tidwall/pretty"
	"github.com/tidwall/sjson"
)

// ParseError reports a document that is not a valid JSON object
type ParseError struct {
	File string
	Err  error
}

func (e *ParseError) Error() string {
	if e.File == "" {
		return fmt.Sprintf("invalid JSON: %v", e.Err)
	}
	return fmt.Sprintf("%s: invalid JSON: %v", e.File, e.Err)
}

func (e *ParseError) Unwrap() error {
	return e.Err
}

// Document is one hero JSON object kept as raw bytes
type Document struct {
	raw []byte
}

var errNotObject = errors.New("top-level value is not an object")

// Parse validates data and wraps it in a Document
func Parse(data []byte) (*Document, error) {
	if !gjson.ValidBytes(data) {
		return nil, &ParseError{Err: syntaxError(data)}
	}
	if !gjson.ParseBytes(data).IsObject() {
		return nil, &ParseError{Err: errNotObject}
	}
	raw := make([]byte, len(data))
	copy(raw, data)
	return &Document{raw: bytes.TrimSpace(raw)}, nil
}

// MustParse is Parse for literals known to be valid
func MustParse(data string) *Document {
	doc, err := Parse([]byte(data))
	if err != nil {
		panic(err)
	}
	return doc
}

// syntaxError recovers a positioned message for invalid input
func syntaxError(data []byte) error {
	var v json.RawMessage
	if err := json.Unmarshal(data, &v); err != nil {
		return err
	}
	return errors.New("malformed JSON")
}

// Clone returns an independent copy
func (d *Document) Clone() *Document {
	raw := make([]byte, len(d.raw))
	copy(raw, d.raw)
	return &Document{raw: raw}
}

// Bytes returns the compact-as-read JSON bytes
func (d *Document) Bytes() []byte {
	return d.Clone().raw
}

// Equal compares two documents ignoring insignificant whitespace
func (d *Document) Equal(other *Document) bool {
	return bytes.Equal(pretty.Ugly(d.raw), pretty.Ugly(other.raw))
}

// Encode serializes with 2-space indentation and non-ASCII kept literal
func (d *Document) Encode() []byte {
	return literalUnicode(pretty.PrettyOptions(d.raw, &pretty.Options{Indent: "  "}))
}

// Get returns the value at a gjson path
func (d *Document) Get(path string) gjson.Result {
	return gjson.GetBytes(d.raw, path)
}

// Has reports whether a top-level key is present
func (d *Document) Has(key string) bool {
	return d.Get(gjson.Escape(key)).Exists()
}

// ID returns the raw id field
func (d *Document) ID() string {
	return d.Get("id").String()
}

// Name returns the display name field
func (d *Document) Name() string {
	return d.Get("name").String()
}

// DisplayName returns name, falling back to id
func (d *Document) DisplayName() string {
	if name := d.Name(); name != "" {
		return name
	}
	return d.ID()
}

// Key returns the canonical identity: the lower-cased id
func (d *Document) Key() string {
	return strings.ToLower(d.ID())
}

// SkillCount returns the length of the skills array
func (d *Document) SkillCount() int {
	skills := d.Get("skills")
	if !skills.IsArray() {
		return 0
	}
	return len(skills.Array())
}

// Skills returns a typed view of skills; positions are kept even for
// entries that are not objects.
func (d *Document) Skills() []models.Skill {
	skills := d.Get("skills")
	if !skills.IsArray() {
		return nil
	}
	var out []models.Skill
	skills.ForEach(func(_, v gjson.Result) bool {
		var s models.Skill
		if v.IsObject() {
			s = models.Skill{
				ID:          v.Get("id").String(),
				Name:        v.Get("name").String(),
				Description: v.Get("description").String(),
				Image:       v.Get("image").String(),
				HasImage:    v.Get("image").Exists(),
				Upgrades:    upgrades(v.Get("upgrades")),
			}
		}
		out = append(out, s)
		return true
	})
	return out
}

// Relic returns the relic, or nil when absent or empty
func (d *Document) Relic() *models.Relic {
	r := d.Get("relic")
	if !r.IsObject() || len(r.Map()) == 0 {
		return nil
	}
	return &models.Relic{
		Name:        r.Get("name").String(),
		Description: r.Get("description").String(),
		Image:       r.Get("image").String(),
		HasImage:    r.Get("image").Exists(),
		Upgrades:    upgrades(r.Get("upgrades")),
	}
}

func upgrades(r gjson.Result) []models.Upgrade {
	if !r.IsObject() {
		return nil
	}
	var out []models.Upgrade
	r.ForEach(func(k, v gjson.Result) bool {
		out = append(out, models.Upgrade{Level: k.String(), Text: v.String()})
		return true
	})
	return out
}

// HasRatings reports whether a ratings object is present
func (d *Document) HasRatings() bool {
	return d.Get("ratings").IsObject()
}

// Ratings returns the ratings in document order
func (d *Document) Ratings() []models.Rating {
	r := d.Get("ratings")
	if !r.IsObject() {
		return nil
	}
	var out []models.Rating
	r.ForEach(func(k, v gjson.Result) bool {
		out = append(out, models.Rating{Key: k.String(), Value: v.String()})
		return true
	})
	return out
}

// Rating returns one rating value
func (d *Document) Rating(key string) (string, bool) {
	v := d.Get("ratings." + gjson.Escape(key))
	return v.String(), v.Exists()
}

// RecommendedRelicLevel returns the field value. ok is false when the
// field is missing or not an integral number.
func (d *Document) RecommendedRelicLevel() (level int, ok bool) {
	v := d.Get("recommendedRelicLevel")
	if v.Type != gjson.Number {
		return 0, false
	}
	level = int(v.Int())
	if v.Float() != float64(level) {
		return 0, false
	}
	return level, true
}

// Set writes value at a gjson path, appending new keys at the end of
// their object.
func (d *Document) Set(path string, value any) error {
	raw, err := sjson.SetBytes(d.raw, path, value)
	if err != nil {
		return fmt.Errorf("set %s: %w", path, err)
	}
	d.raw = raw
	return nil
}

// InsertAfter sets key inside the object at parent ("" for the root).
// An existing key is overwritten in place. A new key is placed after the
// first anchor present in the object, or appended when none is.
func (d *Document) InsertAfter(parent, key string, value any, anchors ...string) error {
	obj := gjson.ParseBytes(d.raw)
	path := gjson.Escape(key)
	if parent != "" {
		obj = d.Get(parent)
		path = parent + "." + path
	}
	if !obj.IsObject() {
		return fmt.Errorf("insert %s: %q is not an object", key, parent)
	}
	if obj.Get(gjson.Escape(key)).Exists() {
		return d.Set(path, value)
	}

	rebuilt, err := insertAfter(obj, key, value, anchors)
	if err != nil {
		return fmt.Errorf("insert %s: %w", key, err)
	}
	if parent == "" {
		d.raw = rebuilt
		return nil
	}
	raw, err := sjson.SetRawBytes(d.raw, parent, rebuilt)
	if err != nil {
		return fmt.Errorf("insert %s: %w", key, err)
	}
	d.raw = raw
	return nil
}

func insertAfter(obj gjson.Result, key string, value any, anchors []string) ([]byte, error) {
	keyRaw, err := marshal(key)
	if err != nil {
		return nil, err
	}
	valueRaw, err := marshal(value)
	if err != nil {
		return nil, err
	}

	anchor := ""
	for _, a := range anchors {
		if obj.Get(gjson.Escape(a)).Exists() {
			anchor = a
			break
		}
	}

	var buf bytes.Buffer
	first := true
	write := func(k, v []byte) {
		if !first {
			buf.WriteByte(',')
		}
		first = false
		buf.Write(k)
		buf.WriteByte(':')
		buf.Write(v)
	}

	buf.WriteByte('{')
	var ferr error
	obj.ForEach(func(k, v gjson.Result) bool {
		kr, err := marshal(k.String())
		if err != nil {
			ferr = err
			return false
		}
		write(kr, []byte(v.Raw))
		if anchor != "" && k.String() == anchor {
			write(keyRaw, valueRaw)
		}
		return true
	})
	if ferr != nil {
		return nil, ferr
	}
	if anchor == "" {
		write(keyRaw, valueRaw)
	}
	buf.WriteByte('}')
	return buf.Bytes(), nil
}

// marshal encodes without HTML escaping so text round-trips literally
func marshal(v any) ([]byte, error) {
	var buf bytes.Buffer
	enc := json.NewEncoder(&buf)
	enc.SetEscapeHTML(false)
	if err := enc.Encode(v); err != nil {
		return nil, err
	}
	return bytes.TrimRight(buf.Bytes(), "\n"), nil
}
