package tramit

// Outcome is the envelope returned for one scrape. On success it carries the
// extracted record and the fetch status; on failure only the URL and a short
// error string.
type Outcome struct {
	Success      bool          `json:"success"`
	URL          string        `json:"url"`
	DocumentInfo *DocumentInfo `json:"document_info,omitempty"`
	StatusCode   int           `json:"status_code,omitempty"`
	Error        string        `json:"error,omitempty"`
}

// NewSuccessOutcome wraps an extracted record.
func NewSuccessOutcome(url string, info *DocumentInfo, statusCode int) *Outcome {
	if info == nil {
		info = NewDocumentInfo()
	}
	return &Outcome{
		Success:      true,
		URL:          url,
		DocumentInfo: info,
		StatusCode:   statusCode,
	}
}

// NewFailureOutcome reports a scrape that produced no record.
// Transport failures read as connection errors, anything else as a general error.
func NewFailureOutcome(url string, err error) *Outcome {
	prefix := "general error: "
	if ErrorCode(err) == EUNAVAILABLE {
		prefix = "connection error: "
	}
	return &Outcome{
		URL:   url,
		Error: prefix + ErrorMessage(err),
	}
}
