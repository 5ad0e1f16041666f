package http

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"net/url"
	"reflect"
	"strings"

	"github.com/fwojciec/tramit"
	"github.com/go-playground/validator/v10"
)

// MaxBatchURLs is the most URLs accepted by one batch request.
const MaxBatchURLs = 20

// maxRequestBody caps the size of JSON request bodies.
const maxRequestBody = 1 << 20

// ScrapeRequest is the body of POST /scrape/tarragona-padron.
type ScrapeRequest struct {
	URL string `json:"url" validate:"required,url"`
}

// BatchRequest is the body of POST /scrape/batch.
type BatchRequest struct {
	URLs []string `json:"urls" validate:"required,min=1,max=20,dive,required,url"`
}

var validate = newValidator()

// newValidator reports fields by their JSON names.
func newValidator() *validator.Validate {
	v := validator.New()
	v.RegisterTagNameFunc(func(f reflect.StructField) string {
		name, _, _ := strings.Cut(f.Tag.Get("json"), ",")
		if name == "-" {
			return ""
		}
		return name
	})
	return v
}

// decodeRequest reads a JSON body into v and validates it.
func decodeRequest(w http.ResponseWriter, r *http.Request, v any) error {
	r.Body = http.MaxBytesReader(w, r.Body, maxRequestBody)
	if err := json.NewDecoder(r.Body).Decode(v); err != nil {
		var tooLarge *http.MaxBytesError
		if errors.As(err, &tooLarge) {
			return tramit.Errorf(tramit.EINVALID, "request body exceeds %d bytes", tooLarge.Limit)
		}
		return tramit.Errorf(tramit.EINVALID, "request must be JSON")
	}

	if err := validate.Struct(v); err != nil {
		return validationError(err)
	}
	return nil
}

func validationError(err error) error {
	var verrs validator.ValidationErrors
	if !errors.As(err, &verrs) || len(verrs) == 0 {
		return tramit.Errorf(tramit.EINVALID, "invalid request")
	}

	fe := verrs[0]
	var msg string
	switch fe.Tag() {
	case "required":
		msg = fmt.Sprintf("%s is required", fe.Field())
	case "url":
		msg = fmt.Sprintf("%s must be a valid URL", fe.Field())
	case "min", "max":
		msg = fmt.Sprintf("%s must contain between 1 and %d URLs", fe.Field(), MaxBatchURLs)
	default:
		msg = fmt.Sprintf("%s is invalid", fe.Field())
	}
	return tramit.Errorf(tramit.EINVALID, "%s", msg)
}

// checkDomain returns EINVALID unless rawURL's host is one of domains or a
// subdomain of one. An empty list allows every host.
func checkDomain(rawURL string, domains []string) error {
	if len(domains) == 0 {
		return nil
	}

	u, err := url.Parse(rawURL)
	if err != nil {
		return tramit.Errorf(tramit.EINVALID, "url must be a valid URL")
	}
	host := strings.ToLower(u.Hostname())

	for _, d := range domains {
		d = strings.ToLower(d)
		if host == d || strings.HasSuffix(host, "."+d) {
			return nil
		}
	}
	return tramit.Errorf(tramit.EINVALID, "URL must be from %s", strings.Join(domains, " or "))
}
