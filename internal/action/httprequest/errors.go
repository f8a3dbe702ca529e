package httprequest

import (
	"fmt"
	"net/http"
)

// maxErrBodyLen limits how much of the response body is included in
// StatusError messages.
const maxErrBodyLen = 256

// StatusError is returned when the endpoint answered with a non-2xx status
// code.
type StatusError struct {
	Method     string
	URL        string
	StatusCode int
	Body       []byte
}

func (e *StatusError) Error() string {
	body := e.Body
	if len(body) > maxErrBodyLen {
		body = body[:maxErrBodyLen]
	}

	return fmt.Sprintf("%s %s: endpoint responded with %d %s: %q",
		e.Method, e.URL, e.StatusCode, http.StatusText(e.StatusCode), body)
}
