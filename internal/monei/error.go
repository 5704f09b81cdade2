package monei

import "fmt"

// APIError is a non-2xx or malformed answer from the gateway. Status holds
// the gateway's own status string when one could be parsed.
type APIError struct {
	HTTPStatus int
	Status     string
	Body       string
}

func (e *APIError) Error() string {
	if e.Status != "" {
		return fmt.Sprintf("monei error (HTTP %d): %s", e.HTTPStatus, e.Status)
	}
	return fmt.Sprintf("monei error (HTTP %d): %s", e.HTTPStatus, e.Body)
}
