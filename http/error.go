package http

import (
	"net/http"

	"github.com/fwojciec/tramit"
)

// codes maps application error codes to HTTP status codes.
var codes = map[string]int{
	tramit.EINVALID:     http.StatusBadRequest,
	tramit.ENOTFOUND:    http.StatusNotFound,
	tramit.EUNAVAILABLE: http.StatusBadGateway,
	tramit.EINTERNAL:    http.StatusInternalServerError,
}

// ErrorStatusCode returns the HTTP status code for an application error code.
func ErrorStatusCode(code string) int {
	if v, ok := codes[code]; ok {
		return v
	}
	return http.StatusInternalServerError
}

// ErrorResponse is the JSON body of every error reply.
type ErrorResponse struct {
	Error string `json:"error"`
}

// Error writes err as JSON with a status derived from its code. Internal
// errors are logged because their message is hidden from the client.
func (s *Server) Error(w http.ResponseWriter, r *http.Request, err error) {
	code := tramit.ErrorCode(err)
	if code == tramit.EINTERNAL {
		s.logger.Error("http error", "method", r.Method, "path", r.URL.Path, "err", err)
	}
	s.jsonResponse(w, ErrorStatusCode(code), ErrorResponse{Error: tramit.ErrorMessage(err)})
}
