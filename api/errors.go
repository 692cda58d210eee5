package api

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"strings"
)

// Kind classifies a failed API call so callers can branch without looking at status codes.
type Kind int

const (
	KindUnknown      Kind = iota // Anything not covered below
	KindNetwork                  // The request never got a response
	KindUnauthorized             // 401, the access token was rejected
	KindForbidden                // 403, authenticated but not allowed
	KindNotFound                 // 404
	KindConflict                 // 409, e.g. a duplicate friend request
	KindValidation               // 400/422, bad input; the server's message is passed through
	KindServerError              // 5xx
)

var kindNames = map[Kind]string{
	KindUnknown:      "unknown",
	KindNetwork:      "network",
	KindUnauthorized: "unauthorized",
	KindForbidden:    "forbidden",
	KindNotFound:     "not_found",
	KindConflict:     "conflict",
	KindValidation:   "validation",
	KindServerError:  "server_error",
}

func (k Kind) String() string {
	if name, ok := kindNames[k]; ok {
		return name
	}
	return fmt.Sprintf("kind(%d)", int(k))
}

// RequestError is returned for every failed call made through the Client. Transport failures are
// never returned raw.
type RequestError struct {
	Kind       Kind
	HTTPStatus int    // 0 for KindNetwork
	Message    string // Display message
	Detail     string // Detail supplied by the server, if any
	Err        error  // Underlying transport or decode error, if any
}

func (e *RequestError) Error() string {
	if e.Message != "" {
		return e.Message
	}
	return e.Kind.String()
}

func (e *RequestError) Unwrap() error {
	return e.Err
}

// KindOf returns the Kind of err, KindUnknown when err is not a *RequestError.
func KindOf(err error) Kind {
	var re *RequestError
	if errors.As(err, &re) {
		return re.Kind
	}
	return KindUnknown
}

// IsKind reports whether err is a *RequestError of kind k.
func IsKind(err error, k Kind) bool {
	var re *RequestError
	return errors.As(err, &re) && re.Kind == k
}

// StatusOf returns the HTTP status carried by err, or 0.
func StatusOf(err error) int {
	var re *RequestError
	if errors.As(err, &re) {
		return re.HTTPStatus
	}
	return 0
}

func kindForStatus(status int) Kind {
	switch {
	case status == http.StatusBadRequest, status == http.StatusUnprocessableEntity:
		return KindValidation
	case status == http.StatusUnauthorized:
		return KindUnauthorized
	case status == http.StatusForbidden:
		return KindForbidden
	case status == http.StatusNotFound:
		return KindNotFound
	case status == http.StatusConflict:
		return KindConflict
	case status >= 500 && status <= 599:
		return KindServerError
	}
	return KindUnknown
}

func networkError(err error) *RequestError {
	return &RequestError{
		Kind:    KindNetwork,
		Message: "unable to reach the server",
		Err:     err,
	}
}

func responseError(status int, body []byte) *RequestError {
	detail := serverDetail(body)
	msg := detail
	if msg == "" {
		msg = strings.ToLower(http.StatusText(status))
	}
	if msg == "" {
		msg = fmt.Sprintf("request failed with status %d", status)
	}
	return &RequestError{
		Kind:       kindForStatus(status),
		HTTPStatus: status,
		Message:    msg,
		Detail:     detail,
	}
}

// serverDetail extracts the error message from an error body. It understands {"detail": "..."},
// validation lists {"detail": [{"msg": "..."}]}, {"message": "..."} and {"error": "..."}.
func serverDetail(body []byte) string {
	var payload struct {
		Detail  json.RawMessage `json:"detail"`
		Message string          `json:"message"`
		Error   string          `json:"error"`
	}
	if err := json.Unmarshal(body, &payload); err != nil {
		return ""
	}

	if len(payload.Detail) > 0 {
		var s string
		if err := json.Unmarshal(payload.Detail, &s); err == nil && s != "" {
			return s
		}
		var items []struct {
			Msg string `json:"msg"`
		}
		if err := json.Unmarshal(payload.Detail, &items); err == nil {
			msgs := make([]string, 0, len(items))
			for _, item := range items {
				if item.Msg != "" {
					msgs = append(msgs, item.Msg)
				}
			}
			if len(msgs) > 0 {
				return strings.Join(msgs, "; ")
			}
		}
	}
	if payload.Message != "" {
		return payload.Message
	}
	return payload.Error
}

// tournamentWriteError turns a failed tournament update/delete into a message fit for display.
// Kind, status and server detail are preserved.
func tournamentWriteError(err error, verb string) error {
	var re *RequestError
	if !errors.As(err, &re) {
		return fmt.Errorf("failed to %s tournament: %w", verb, err)
	}

	humanised := *re
	switch re.Kind {
	case KindForbidden:
		humanised.Message = fmt.Sprintf("permission denied: only the tournament owner can %s this tournament", verb)
	case KindNotFound:
		humanised.Message = "tournament not found"
	case KindUnauthorized:
		humanised.Message = "your session has expired, please sign in again"
	default:
		humanised.Message = fmt.Sprintf("failed to %s tournament", verb)
		if re.Detail != "" {
			humanised.Message += ": " + re.Detail
		}
	}
	return &humanised
}
