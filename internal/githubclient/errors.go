package githubclient

import (
	"errors"
	"fmt"
	"net/http"

	"github.com/google/go-github/v57/github"
)

// FetchError is a failed upstream call. It carries the HTTP status and the
// upstream error body so failure boundaries can decide what to do with it
// (e.g. a 409 on the commits listing means an empty repository).
type FetchError struct {
	StatusCode int
	Body       string
	URL        string
}

func (e *FetchError) Error() string {
	if e.URL != "" {
		return fmt.Sprintf("github: %s returned %d: %s", e.URL, e.StatusCode, e.Body)
	}
	return fmt.Sprintf("github: upstream returned %d: %s", e.StatusCode, e.Body)
}

// AsFetchError unwraps err into a FetchError if there is one in the chain
func AsFetchError(err error) (*FetchError, bool) {
	var fe *FetchError
	if errors.As(err, &fe) {
		return fe, true
	}
	return nil, false
}

// HasStatus reports whether err is a FetchError with the given HTTP status
func HasStatus(err error, status int) bool {
	fe, ok := AsFetchError(err)
	return ok && fe.StatusCode == status
}

// wrapError converts go-github errors into FetchError. Non-HTTP errors
// (network, context cancellation) pass through unchanged.
func wrapError(err error) error {
	if err == nil {
		return nil
	}

	var errResp *github.ErrorResponse
	if errors.As(err, &errResp) {
		fe := &FetchError{Body: errResp.Message}
		if errResp.Response != nil {
			fe.StatusCode = errResp.Response.StatusCode
			if errResp.Response.Request != nil && errResp.Response.Request.URL != nil {
				fe.URL = errResp.Response.Request.URL.Path
			}
		}
		return fe
	}

	var rateErr *github.RateLimitError
	if errors.As(err, &rateErr) {
		fe := &FetchError{StatusCode: http.StatusForbidden, Body: rateErr.Message}
		if rateErr.Response != nil {
			fe.StatusCode = rateErr.Response.StatusCode
		}
		return fe
	}

	return err
}
