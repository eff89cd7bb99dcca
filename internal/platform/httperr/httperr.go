// Package httperr renders backend error taxonomy values as gateway HTTP
// responses, so every view surfaces failures inline instead of crashing.
package httperr

import (
	"errors"
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/rxgate/rxgate/internal/platform/backend"
)

type payload struct {
	Error  string              `json:"error"`
	Kind   string              `json:"kind"`
	Fields []backend.FieldError `json:"fields,omitempty"`
}

// Respond writes err to the client. Backend taxonomy errors keep their kind
// and field detail; anything else is an internal gateway error.
func Respond(c echo.Context, err error) error {
	var be *backend.Error
	if errors.As(err, &be) {
		return c.JSON(status(be.Kind), payload{
			Error:  be.Detail,
			Kind:   be.Kind.String(),
			Fields: be.Fields,
		})
	}
	return c.JSON(http.StatusInternalServerError, payload{
		Error: "internal gateway error",
		Kind:  backend.KindUnknown.String(),
	})
}

func status(k backend.Kind) int {
	switch k {
	case backend.KindInvalidCredentials:
		return http.StatusUnauthorized
	case backend.KindForbidden:
		return http.StatusForbidden
	case backend.KindValidationFailed:
		return http.StatusUnprocessableEntity
	case backend.KindNotFound:
		return http.StatusNotFound
	case backend.KindNetworkUnavailable:
		return http.StatusBadGateway
	default:
		return http.StatusBadGateway
	}
}
