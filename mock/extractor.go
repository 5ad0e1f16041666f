package mock

import "github.com/fwojciec/tramit"

var _ tramit.Extractor = (*Extractor)(nil)

// Extractor is a mock implementation of tramit.Extractor.
type Extractor struct {
	ExtractFn func(html []byte) (*tramit.DocumentInfo, error)
}

func (e *Extractor) Extract(html []byte) (*tramit.DocumentInfo, error) {
	return e.ExtractFn(html)
}
