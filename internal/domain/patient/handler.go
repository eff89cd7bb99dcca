package patient

import (
	"net/http"
	"strconv"
	"strings"

	"github.com/labstack/echo/v4"

	"github.com/rxgate/rxgate/internal/guard"
	"github.com/rxgate/rxgate/internal/platform/backend"
	"github.com/rxgate/rxgate/internal/platform/httperr"
	"github.com/rxgate/rxgate/pkg/pagination"
)

type Handler struct {
	svc *Service
}

func NewHandler(svc *Service) *Handler {
	return &Handler{svc: svc}
}

func (h *Handler) RegisterRoutes(e *echo.Echo) {
	e.GET("/patients", h.List)
	e.GET("/patients/:id", h.Get)
	e.POST("/patients", h.Create)
	e.PATCH("/patients/:id", h.Update)
	e.DELETE("/patients/:id", h.Delete)
}

func (h *Handler) List(c echo.Context) error {
	s, _ := guard.FromContext(c)
	patients, err := h.svc.List(c.Request().Context(), s.Token)
	if err != nil {
		return httperr.Respond(c, err)
	}

	if q := strings.ToLower(c.QueryParam("search")); q != "" {
		filtered := patients[:0]
		for _, p := range patients {
			if strings.Contains(strings.ToLower(p.Name), q) || strings.Contains(p.SSN, q) {
				filtered = append(filtered, p)
			}
		}
		patients = filtered
	}

	p := pagination.FromContext(c)
	lo, hi := p.Slice(len(patients))
	return c.JSON(http.StatusOK, pagination.NewResponse(patients[lo:hi], len(patients), p.Limit, p.Offset))
}

func (h *Handler) Get(c echo.Context) error {
	s, _ := guard.FromContext(c)
	ctx := c.Request().Context()

	// Numeric keys are record IDs; anything else is treated as an SSN.
	if id, err := strconv.Atoi(c.Param("id")); err == nil {
		p, err := h.svc.Get(ctx, s.Token, id)
		if err != nil {
			return httperr.Respond(c, err)
		}
		return c.JSON(http.StatusOK, p)
	}
	p, err := h.svc.GetBySSN(ctx, s.Token, c.Param("id"))
	if err != nil {
		return httperr.Respond(c, err)
	}
	return c.JSON(http.StatusOK, p)
}

func (h *Handler) Create(c echo.Context) error {
	s, _ := guard.FromContext(c)
	var p Patient
	if err := c.Bind(&p); err != nil {
		return httperr.Respond(c, backend.Validation("malformed patient payload"))
	}
	created, err := h.svc.Create(c.Request().Context(), s.Token, &p)
	if err != nil {
		return httperr.Respond(c, err)
	}
	return c.JSON(http.StatusCreated, created)
}

func (h *Handler) Update(c echo.Context) error {
	s, _ := guard.FromContext(c)
	id, err := strconv.Atoi(c.Param("id"))
	if err != nil {
		return httperr.Respond(c, backend.Validation("patient id must be numeric"))
	}
	var p Patient
	if err := c.Bind(&p); err != nil {
		return httperr.Respond(c, backend.Validation("malformed patient payload"))
	}
	updated, err := h.svc.Update(c.Request().Context(), s.Token, id, &p)
	if err != nil {
		return httperr.Respond(c, err)
	}
	return c.JSON(http.StatusOK, updated)
}

func (h *Handler) Delete(c echo.Context) error {
	s, _ := guard.FromContext(c)
	id, err := strconv.Atoi(c.Param("id"))
	if err != nil {
		return httperr.Respond(c, backend.Validation("patient id must be numeric"))
	}
	if c.QueryParam("confirm") != "true" {
		return httperr.Respond(c, backend.Validation("deleting a patient requires confirm=true"))
	}
	if err := h.svc.Delete(c.Request().Context(), s.Token, id); err != nil {
		return httperr.Respond(c, err)
	}
	return c.JSON(http.StatusOK, map[string]string{"message": "patient deleted"})
}
