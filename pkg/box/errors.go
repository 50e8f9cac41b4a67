package box

import "fmt"

// APIError is returned for non-success responses from the Box API.
type APIError struct {
	Status  int    `json:"status"`
	Code    string `json:"code"`
	Message string `json:"message"`
}

// Error implements the error interface.
func (e *APIError) Error() string {
	if e.Code != "" {
		return fmt.Sprintf("box: %s (%d): %s", e.Code, e.Status, e.Message)
	}
	return fmt.Sprintf("box: request failed (%d): %s", e.Status, e.Message)
}

// IsNotFound reports whether err is an APIError with a 404 status.
func IsNotFound(err error) bool {
	apiErr, ok := err.(*APIError)
	return ok && apiErr.Status == 404
}
