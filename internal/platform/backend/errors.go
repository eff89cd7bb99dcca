package backend

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"strings"
)

// Kind classifies a backend failure into the taxonomy surfaced to views.
type Kind int

const (
	KindUnknown Kind = iota
	KindInvalidCredentials
	KindForbidden
	KindValidationFailed
	KindNotFound
	KindNetworkUnavailable
)

func (k Kind) String() string {
	switch k {
	case KindInvalidCredentials:
		return "invalid_credentials"
	case KindForbidden:
		return "forbidden"
	case KindValidationFailed:
		return "validation_failed"
	case KindNotFound:
		return "not_found"
	case KindNetworkUnavailable:
		return "network_unavailable"
	default:
		return "unknown"
	}
}

// FieldError carries field-level validation detail passed through verbatim
// from the server.
type FieldError struct {
	Field   string `json:"field"`
	Message string `json:"message"`
}

// Error is the typed failure returned by every backend call. No call fails
// silently; callers branch on Kind and render Detail near the point of action.
type Error struct {
	Kind   Kind
	Status int
	Detail string
	Fields []FieldError
}

func (e *Error) Error() string {
	if e.Detail != "" {
		return fmt.Sprintf("backend: %s: %s", e.Kind, e.Detail)
	}
	return fmt.Sprintf("backend: %s (status %d)", e.Kind, e.Status)
}

// KindOf extracts the taxonomy kind from err, or KindUnknown when err is not
// a backend error.
func KindOf(err error) Kind {
	var be *Error
	if errors.As(err, &be) {
		return be.Kind
	}
	return KindUnknown
}

// IsKind reports whether err is a backend error of the given kind.
func IsKind(err error, k Kind) bool {
	var be *Error
	return errors.As(err, &be) && be.Kind == k
}

// apiErrorBody is the error payload shape of the backend. The detail field is
// either a plain message or a list of field violations on 422 responses.
type apiErrorBody struct {
	Detail json.RawMessage `json:"detail"`
}

type apiFieldViolation struct {
	Loc []json.RawMessage `json:"loc"`
	Msg string            `json:"msg"`
}

// Validation carries a locally-detected validation failure (fail fast, no
// round trip) using the same taxonomy as server-reported ones.
func Validation(detail string) *Error {
	return &Error{Kind: KindValidationFailed, Detail: detail}
}

// Unavailable wraps a transport-level failure (no response, timeout, open
// breaker) as NetworkUnavailable.
func Unavailable(detail string) *Error {
	return &Error{Kind: KindNetworkUnavailable, Detail: detail}
}

// errorFromResponse maps an HTTP status plus the decoded error payload onto
// the taxonomy. The generic message is used when the payload carries none.
func errorFromResponse(status int, body []byte) *Error {
	e := &Error{Status: status}

	switch status {
	case http.StatusUnauthorized:
		e.Kind = KindInvalidCredentials
	case http.StatusForbidden:
		e.Kind = KindForbidden
	case http.StatusBadRequest, http.StatusUnprocessableEntity:
		e.Kind = KindValidationFailed
	case http.StatusNotFound:
		e.Kind = KindNotFound
	default:
		e.Kind = KindUnknown
	}

	var payload apiErrorBody
	if err := json.Unmarshal(body, &payload); err == nil && len(payload.Detail) > 0 {
		var msg string
		if err := json.Unmarshal(payload.Detail, &msg); err == nil {
			e.Detail = msg
		} else {
			var violations []apiFieldViolation
			if err := json.Unmarshal(payload.Detail, &violations); err == nil {
				for _, v := range violations {
					e.Fields = append(e.Fields, FieldError{
						Field:   fieldFromLoc(v.Loc),
						Message: v.Msg,
					})
				}
				if len(e.Fields) > 0 {
					e.Detail = e.Fields[0].Message
				}
			}
		}
	}
	if e.Detail == "" {
		e.Detail = genericDetail(e.Kind)
	}
	return e
}

// fieldFromLoc renders a violation location path ("body", "name") as a dotted
// field name, skipping the leading container segment.
func fieldFromLoc(loc []json.RawMessage) string {
	var parts []string
	for _, raw := range loc {
		var s string
		if err := json.Unmarshal(raw, &s); err == nil {
			parts = append(parts, s)
			continue
		}
		var n int
		if err := json.Unmarshal(raw, &n); err == nil {
			parts = append(parts, fmt.Sprintf("%d", n))
		}
	}
	if len(parts) > 1 && (parts[0] == "body" || parts[0] == "query" || parts[0] == "path") {
		parts = parts[1:]
	}
	return strings.Join(parts, ".")
}

func genericDetail(k Kind) string {
	switch k {
	case KindInvalidCredentials:
		return "invalid credentials"
	case KindForbidden:
		return "you do not have permission to perform this action"
	case KindValidationFailed:
		return "the request was rejected by the server"
	case KindNotFound:
		return "the requested record was not found"
	case KindNetworkUnavailable:
		return "the pharmacy backend is unreachable"
	default:
		return "an unexpected error occurred"
	}
}
