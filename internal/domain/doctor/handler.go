package doctor

import (
	"net/http"
	"strconv"

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

// RegisterRoutes mounts the doctor directory under the pharmacist namespace.
func (h *Handler) RegisterRoutes(e *echo.Echo) {
	e.GET("/dashboard/doctors", h.List)
	e.GET("/dashboard/doctors/:id", h.Get)
	e.POST("/dashboard/doctors", h.Create)
	e.PATCH("/dashboard/doctors/:id", h.Update)
	e.DELETE("/dashboard/doctors/:id", h.Delete)
}

func (h *Handler) List(c echo.Context) error {
	s, _ := guard.FromContext(c)
	doctors, err := h.svc.List(c.Request().Context(), s.Token)
	if err != nil {
		return httperr.Respond(c, err)
	}
	p := pagination.FromContext(c)
	lo, hi := p.Slice(len(doctors))
	return c.JSON(http.StatusOK, pagination.NewResponse(doctors[lo:hi], len(doctors), p.Limit, p.Offset))
}

func (h *Handler) Get(c echo.Context) error {
	s, _ := guard.FromContext(c)
	ctx := c.Request().Context()

	// Numeric keys are record IDs; anything else is treated as a license
	// number.
	if id, err := strconv.Atoi(c.Param("id")); err == nil {
		d, err := h.svc.Get(ctx, s.Token, id)
		if err != nil {
			return httperr.Respond(c, err)
		}
		return c.JSON(http.StatusOK, d)
	}
	d, err := h.svc.GetByLicense(ctx, s.Token, c.Param("id"))
	if err != nil {
		return httperr.Respond(c, err)
	}
	return c.JSON(http.StatusOK, d)
}

func (h *Handler) Create(c echo.Context) error {
	s, _ := guard.FromContext(c)
	var d Doctor
	if err := c.Bind(&d); err != nil {
		return httperr.Respond(c, backend.Validation("malformed doctor payload"))
	}
	created, err := h.svc.Create(c.Request().Context(), s.Token, &d)
	if err != nil {
		return httperr.Respond(c, err)
	}
	return c.JSON(http.StatusCreated, created)
}

func (h *Handler) Update(c echo.Context) error {
	s, _ := guard.FromContext(c)
	id, err := strconv.Atoi(c.Param("id"))
	if err != nil {
		return httperr.Respond(c, backend.Validation("doctor id must be numeric"))
	}
	var d Doctor
	if err := c.Bind(&d); err != nil {
		return httperr.Respond(c, backend.Validation("malformed doctor payload"))
	}
	updated, err := h.svc.Update(c.Request().Context(), s.Token, id, &d)
	if err != nil {
		return httperr.Respond(c, err)
	}
	return c.JSON(http.StatusOK, updated)
}

func (h *Handler) Delete(c echo.Context) error {
	s, _ := guard.FromContext(c)
	id, err := strconv.Atoi(c.Param("id"))
	if err != nil {
		return httperr.Respond(c, backend.Validation("doctor id must be numeric"))
	}
	if c.QueryParam("confirm") != "true" {
		return httperr.Respond(c, backend.Validation("deleting a doctor requires confirm=true"))
	}
	if err := h.svc.Delete(c.Request().Context(), s.Token, id); err != nil {
		return httperr.Respond(c, err)
	}
	return c.JSON(http.StatusOK, map[string]string{"message": "doctor deleted"})
}
