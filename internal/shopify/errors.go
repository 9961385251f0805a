package shopify

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"regexp"
	"strings"
)

// HTTPStatusError is returned when Shopify answers with a non-2xx status
type HTTPStatusError struct {
	StatusCode  int
	Body        string
	RequestBody string
}

func newHTTPStatusError(status int, requestBody, responseBody []byte) *HTTPStatusError {
	return &HTTPStatusError{
		StatusCode:  status,
		Body:        string(responseBody),
		RequestBody: string(requestBody),
	}
}

func (e *HTTPStatusError) Error() string {
	return fmt.Sprintf("shopify API error: %d %s: %s", e.StatusCode, http.StatusText(e.StatusCode), e.Body)
}

// IsStatus reports whether err carries the given Shopify HTTP status
func IsStatus(err error, status int) bool {
	var statusErr *HTTPStatusError
	return errors.As(err, &statusErr) && statusErr.StatusCode == status
}

const choiceConflictMarker = "does not exist in provided choices"

var choicesPattern = regexp.MustCompile(`(?s)choices:\s*(\[.*\])`)

// ChoiceConflict extracts the allowed values from a 422 rejecting a value
// that is not among a metafield definition's choices.
func ChoiceConflict(err error) ([]string, bool) {
	var statusErr *HTTPStatusError
	if !errors.As(err, &statusErr) || statusErr.StatusCode != http.StatusUnprocessableEntity {
		return nil, false
	}
	return ParseAllowedChoices(statusErr.Body)
}

// ParseAllowedChoices reads the choices list out of a Shopify validation message.
// Both the raw body and the decoded "errors" messages are searched.
func ParseAllowedChoices(body string) ([]string, bool) {
	if !strings.Contains(body, choiceConflictMarker) {
		return nil, false
	}
	candidates := append(errorMessages(body), body)
	for _, message := range candidates {
		if !strings.Contains(message, choiceConflictMarker) {
			continue
		}
		match := choicesPattern.FindStringSubmatch(message)
		if match == nil {
			continue
		}
		literal := strings.NewReplacer(`\"`, `"`, `\/`, `/`).Replace(match[1])
		literal = strings.TrimRight(literal, ".")
		var choices []string
		if err := json.Unmarshal([]byte(literal), &choices); err == nil {
			return choices, true
		}
	}
	return nil, false
}

// errorMessages flattens {"errors": ...} into its string leaves
func errorMessages(body string) []string {
	var envelope struct {
		Errors interface{} `json:"errors"`
	}
	if err := json.Unmarshal([]byte(body), &envelope); err != nil {
		return nil
	}
	var out []string
	var walk func(v interface{})
	walk = func(v interface{}) {
		switch t := v.(type) {
		case string:
			out = append(out, t)
		case []interface{}:
			for _, item := range t {
				walk(item)
			}
		case map[string]interface{}:
			for _, item := range t {
				walk(item)
			}
		}
	}
	walk(envelope.Errors)
	return out
}
