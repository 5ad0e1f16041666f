package tramit

// Extractor turns a raw HTML payload into a DocumentInfo.
type Extractor interface {
	// Extract always returns a fully populated record. A non-nil error
	// reports fields that could not be extracted and were left at their
	// defaults; the record is still usable.
	Extract(html []byte) (*DocumentInfo, error)
}
