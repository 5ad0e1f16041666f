package tramit

import "unicode/utf8"

// Harvest limits shared by the extractor and by DocumentInfo.Validate.
const (
	// MaxSectionBlocks is the most blocks kept for requirements or procedures.
	MaxSectionBlocks = 10

	// MinAdditionalInfoLen is the shortest additional-info entry kept, in runes.
	MinAdditionalInfoLen = 11
)

// DocumentInfo is the structured record extracted from a single page.
// A fresh value is built for every extraction and never changed afterwards.
type DocumentInfo struct {
	Title          string   `json:"title"`
	Description    string   `json:"description"`
	Requirements   []string `json:"requirements"`
	Procedures     []string `json:"procedures"`
	AdditionalInfo []string `json:"additional_info"`
	RawText        string   `json:"raw_text"`
}

// NewDocumentInfo returns a record with every field set to its default.
// Slices are empty rather than nil so they encode as [] in JSON.
func NewDocumentInfo() *DocumentInfo {
	return &DocumentInfo{
		Requirements:   []string{},
		Procedures:     []string{},
		AdditionalInfo: []string{},
	}
}

// Validate returns an error if the record breaks the section caps or the
// additional-info noise filter.
func (d *DocumentInfo) Validate() error {
	if len(d.Requirements) > MaxSectionBlocks {
		return Errorf(EINVALID, "too many requirements: %d", len(d.Requirements))
	}
	if len(d.Procedures) > MaxSectionBlocks {
		return Errorf(EINVALID, "too many procedures: %d", len(d.Procedures))
	}
	for _, s := range d.AdditionalInfo {
		if utf8.RuneCountInString(s) < MinAdditionalInfoLen {
			return Errorf(EINVALID, "additional info entry too short: %q", s)
		}
	}
	return nil
}

// Section returns the blocks stored for a section field.
func (d *DocumentInfo) Section(f Field) []string {
	switch f {
	case FieldRequirements:
		return d.Requirements
	case FieldProcedures:
		return d.Procedures
	}
	return nil
}

// SetSection stores blocks for a section field. Unknown fields are ignored.
func (d *DocumentInfo) SetSection(f Field, blocks []string) {
	if blocks == nil {
		blocks = []string{}
	}
	switch f {
	case FieldRequirements:
		d.Requirements = blocks
	case FieldProcedures:
		d.Procedures = blocks
	}
}
