package helpers

import (
	"fmt"
	"io"
	"net/http"
	"strings"
)

// StatusError is returned when an upstream service answers with a non-2xx status
type StatusError struct {
	Service string
	Code    int
	Body    string
}

func (e *StatusError) Error() string {
	if e.Body == "" {
		return fmt.Sprintf("%s returned status %d", e.Service, e.Code)
	}
	return fmt.Sprintf("%s returned status %d: %s", e.Service, e.Code, e.Body)
}

// CheckStatus turns a non-2xx response into a *StatusError, reading at most
// 4KiB of the body for context.
func CheckStatus(service string, resp *http.Response) error {
	if resp.StatusCode >= 200 && resp.StatusCode < 300 {
		return nil
	}
	b, _ := io.ReadAll(io.LimitReader(resp.Body, 4096))
	return &StatusError{Service: service, Code: resp.StatusCode, Body: strings.TrimSpace(string(b))}
}
