package apiclient

import (
	"fmt"
	"strings"
)

// APIError is any response outside the accepted status set for an operation.
// The body is kept verbatim so callers can surface the server's explanation.
type APIError struct {
	Operation string
	Status    int
	Body      string
}

func (e *APIError) Error() string {
	body := strings.TrimSpace(e.Body)
	if body == "" {
		return fmt.Sprintf("%s failed: status %d", e.Operation, e.Status)
	}
	return fmt.Sprintf("%s failed: status %d: %s", e.Operation, e.Status, body)
}
