package goquery

import (
	"bytes"
	"fmt"
	"strings"
	"unicode/utf8"

	"github.com/PuerkitoBio/goquery"
	"github.com/andybalholm/cascadia"
	"github.com/fwojciec/tramit"
)

// Ensure Extractor implements tramit.Extractor at compile time.
var _ tramit.Extractor = (*Extractor)(nil)

// Field names used in FieldError for the non-section fields.
const (
	FieldDocument       = "document"
	FieldTitle          = "title"
	FieldDescription    = "description"
	FieldAdditionalInfo = "additional_info"
	FieldRawText        = "raw_text"
)

// FieldError reports a field that was left at its default.
type FieldError struct {
	Field string
	Err   error
}

func (e FieldError) Error() string {
	return fmt.Sprintf("%s: %v", e.Field, e.Err)
}

func (e FieldError) Unwrap() error {
	return e.Err
}

// ExtractionError lists every field that failed during one extraction.
type ExtractionError struct {
	Fields []FieldError
}

func (e *ExtractionError) Error() string {
	parts := make([]string, len(e.Fields))
	for i, f := range e.Fields {
		parts[i] = f.Error()
	}
	return "extraction failed: " + strings.Join(parts, "; ")
}

// FieldNames returns the names of the failed fields in extraction order.
func (e *ExtractionError) FieldNames() []string {
	names := make([]string, len(e.Fields))
	for i, f := range e.Fields {
		names[i] = f.Field
	}
	return names
}

// step fills one field of the record. Steps run in order on a shared tree.
type step struct {
	field string
	run   func(doc *goquery.Document, info *tramit.DocumentInfo) error
}

// Extractor builds a tramit.DocumentInfo from HTML using a fixed set of rules.
// Rules are compiled once; an Extractor is safe for concurrent use because
// every call parses its own tree.
type Extractor struct {
	steps []step
}

// NewExtractor compiles rules into an extraction plan. Selector or keyword
// errors do not fail construction; they are reported by every Extract call
// for the affected field only.
func NewExtractor(rules tramit.Rules) *Extractor {
	e := &Extractor{}
	e.steps = append(e.steps,
		cascadeStep(FieldTitle, rules.Title, func(info *tramit.DocumentInfo, s string) { info.Title = s }),
		cascadeStep(FieldDescription, rules.Description, func(info *tramit.DocumentInfo, s string) { info.Description = s }),
	)
	for _, section := range rules.Sections {
		e.steps = append(e.steps, sectionStep(section))
	}
	e.steps = append(e.steps,
		additionalInfoStep(rules.AdditionalInfo),
		// Normalization removes nodes, so it always runs last.
		step{field: FieldRawText, run: func(doc *goquery.Document, info *tramit.DocumentInfo) error {
			info.RawText = NormalizeText(doc)
			return nil
		}},
	)
	return e
}

// Extract parses html and fills the record field by field. A failing field
// keeps its default and the remaining fields are still extracted. The
// returned error, if any, is an EINTERNAL error wrapping *ExtractionError.
func (e *Extractor) Extract(html []byte) (*tramit.DocumentInfo, error) {
	info := tramit.NewDocumentInfo()

	doc, err := goquery.NewDocumentFromReader(bytes.NewReader(html))
	if err != nil {
		return info, extractionError([]FieldError{{Field: FieldDocument, Err: err}})
	}

	var failed []FieldError
	for _, s := range e.steps {
		if err := runStep(s, doc, info); err != nil {
			failed = append(failed, FieldError{Field: s.field, Err: err})
		}
	}
	if len(failed) > 0 {
		return info, extractionError(failed)
	}
	return info, nil
}

func extractionError(fields []FieldError) error {
	ee := &ExtractionError{Fields: fields}
	return tramit.WrapErrorf(ee, tramit.EINTERNAL, "extraction failed for %s", strings.Join(ee.FieldNames(), ", "))
}

// runStep isolates a step so a panic only costs its own field.
func runStep(s step, doc *goquery.Document, info *tramit.DocumentInfo) (err error) {
	defer func() {
		if r := recover(); r != nil {
			err = fmt.Errorf("panic: %v", r)
		}
	}()
	return s.run(doc, info)
}

func cascadeStep(field string, selectors []string, set func(*tramit.DocumentInfo, string)) step {
	cascade, err := CompileCascade(selectors)
	return step{field: field, run: func(doc *goquery.Document, info *tramit.DocumentInfo) error {
		if err != nil {
			return err
		}
		set(info, cascade.Resolve(doc))
		return nil
	}}
}

func sectionStep(rule tramit.SectionRule) step {
	h, err := NewHarvester(rule.Keywords)
	return step{field: string(rule.Field), run: func(doc *goquery.Document, info *tramit.DocumentInfo) error {
		if err != nil {
			return err
		}
		info.SetSection(rule.Field, h.Harvest(doc))
		return nil
	}}
}

// additionalInfoStep collects every node matched by any selector, unlike the
// cascades which stop at the first hit.
func additionalInfoStep(selectors []string) step {
	var matchers []cascadia.Selector
	var err error
	for _, s := range selectors {
		m, cerr := cascadia.Compile(s)
		if cerr != nil {
			err = tramit.WrapErrorf(cerr, tramit.EINVALID, "invalid selector %q", s)
			break
		}
		matchers = append(matchers, m)
	}

	return step{field: FieldAdditionalInfo, run: func(doc *goquery.Document, info *tramit.DocumentInfo) error {
		if err != nil {
			return err
		}
		notes := []string{}
		for _, m := range matchers {
			doc.FindMatcher(m).Each(func(_ int, s *goquery.Selection) {
				text := strings.TrimSpace(s.Text())
				if utf8.RuneCountInString(text) >= tramit.MinAdditionalInfoLen {
					notes = append(notes, text)
				}
			})
		}
		info.AdditionalInfo = notes
		return nil
	}}
}
