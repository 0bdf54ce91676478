package client

import (
	"encoding/json"
	"fmt"
	"strings"
)

// FallbackMessage is shown when the server gives no usable error message.
const FallbackMessage = "something went wrong"

// APIError is a non-2xx response.
type APIError struct {
	Status  int
	Message string
	// Fields carries per-field validation failures, keyed by JSON name.
	Fields map[string]string
}

func (e *APIError) Error() string {
	return fmt.Sprintf("api error %d: %s", e.Status, e.Message)
}

// decodeAPIError reads the server's error envelope. Bodies it cannot read
// still produce an error with the fallback message.
func decodeAPIError(status int, body []byte) *APIError {
	var env struct {
		Message string            `json:"message"`
		Errors  map[string]string `json:"errors"`
	}
	_ = json.Unmarshal(body, &env)
	msg := strings.TrimSpace(env.Message)
	if msg == "" {
		msg = FallbackMessage
	}
	return &APIError{Status: status, Message: msg, Fields: env.Errors}
}
