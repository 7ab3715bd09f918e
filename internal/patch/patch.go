// Package patch fills in derived fields of hero documents.
//
// Rules are additive: they only add fields that are missing, except for
// RelicLevel which rewrites recommendedRelicLevel when it differs from
// the guide. Applying a patcher to its own output yields no changes.
package patch

import (
	"errors"

	"github.com/meur/heroforge/internal/herodoc"
)

// ErrMissingIdentity is returned for documents with neither id nor name
var ErrMissingIdentity = errors.New("no 'name' or 'id' field found")

// Outcome is what one rule did to a document
type Outcome struct {
	Changes  []string
	Warnings []string
}

// Rule derives fields on a document in place
type Rule interface {
	Name() string
	Apply(doc *herodoc.Document) (Outcome, error)
}

// Result is the patched copy of a document and what changed
type Result struct {
	Document *herodoc.Document
	Changes  []string
	Warnings []string
}

// Changed reports whether any rule modified the document
func (r Result) Changed() bool {
	return len(r.Changes) > 0
}

// Patcher applies a fixed rule set
type Patcher struct {
	rules []Rule
}

// New creates a Patcher applying rules in order
func New(rules ...Rule) *Patcher {
	return &Patcher{rules: rules}
}

// Rules returns the configured rule names
func (p *Patcher) Rules() []string {
	names := make([]string, 0, len(p.rules))
	for _, r := range p.rules {
		names = append(names, r.Name())
	}
	return names
}

// Patch applies every rule to a copy of doc. doc itself is not modified.
func (p *Patcher) Patch(doc *herodoc.Document) (Result, error) {
	out := doc.Clone()
	res := Result{Document: out}
	for _, rule := range p.rules {
		o, err := rule.Apply(out)
		if err != nil {
			return Result{}, err
		}
		res.Changes = append(res.Changes, o.Changes...)
		res.Warnings = append(res.Warnings, o.Warnings...)
	}
	return res, nil
}

// PatchBytes parses data and patches it; malformed input yields a
// *herodoc.ParseError.
func (p *Patcher) PatchBytes(data []byte) (Result, error) {
	doc, err := herodoc.Parse(data)
	if err != nil {
		return Result{}, err
	}
	return p.Patch(doc)
}
