package medication

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
	e.GET("/medications", h.List)
	e.GET("/medications/:id", h.Get)
	e.POST("/medications", h.Create)
	e.PATCH("/medications/:id", h.Update)
	e.DELETE("/medications/:id", h.Delete)
	e.POST("/medications/:id/restock", h.Restock)
}

func (h *Handler) List(c echo.Context) error {
	s, _ := guard.FromContext(c)
	meds, err := h.svc.List(c.Request().Context(), s.Token)
	if err != nil {
		return httperr.Respond(c, err)
	}

	// Name search is a client-side filter over the fetched catalog.
	if q := strings.ToLower(c.QueryParam("search")); q != "" {
		filtered := meds[:0]
		for _, m := range meds {
			if strings.Contains(strings.ToLower(m.Name), q) ||
				strings.Contains(strings.ToLower(m.Manufacturer), q) {
				filtered = append(filtered, m)
			}
		}
		meds = filtered
	}

	p := pagination.FromContext(c)
	lo, hi := p.Slice(len(meds))
	return c.JSON(http.StatusOK, pagination.NewResponse(meds[lo:hi], len(meds), p.Limit, p.Offset))
}

func (h *Handler) Get(c echo.Context) error {
	s, _ := guard.FromContext(c)
	id, err := strconv.Atoi(c.Param("id"))
	if err != nil {
		return httperr.Respond(c, backend.Validation("medication id must be numeric"))
	}
	m, err := h.svc.Get(c.Request().Context(), s.Token, id)
	if err != nil {
		return httperr.Respond(c, err)
	}
	return c.JSON(http.StatusOK, m)
}

func (h *Handler) Create(c echo.Context) error {
	s, _ := guard.FromContext(c)
	var m Medication
	if err := c.Bind(&m); err != nil {
		return httperr.Respond(c, backend.Validation("malformed medication payload"))
	}
	created, err := h.svc.Create(c.Request().Context(), s.Token, &m)
	if err != nil {
		return httperr.Respond(c, err)
	}
	return c.JSON(http.StatusCreated, created)
}

func (h *Handler) Update(c echo.Context) error {
	s, _ := guard.FromContext(c)
	id, err := strconv.Atoi(c.Param("id"))
	if err != nil {
		return httperr.Respond(c, backend.Validation("medication id must be numeric"))
	}
	var m Medication
	if err := c.Bind(&m); err != nil {
		return httperr.Respond(c, backend.Validation("malformed medication payload"))
	}
	updated, err := h.svc.Update(c.Request().Context(), s.Token, id, &m)
	if err != nil {
		return httperr.Respond(c, err)
	}
	return c.JSON(http.StatusOK, updated)
}

func (h *Handler) Delete(c echo.Context) error {
	s, _ := guard.FromContext(c)
	id, err := strconv.Atoi(c.Param("id"))
	if err != nil {
		return httperr.Respond(c, backend.Validation("medication id must be numeric"))
	}
	if c.QueryParam("confirm") != "true" {
		return httperr.Respond(c, backend.Validation("deleting a medication requires confirm=true"))
	}
	if err := h.svc.Delete(c.Request().Context(), s.Token, id); err != nil {
		return httperr.Respond(c, err)
	}
	return c.JSON(http.StatusOK, map[string]string{"message": "medication deleted"})
}

func (h *Handler) Restock(c echo.Context) error {
	s, _ := guard.FromContext(c)
	id, err := strconv.Atoi(c.Param("id"))
	if err != nil {
		return httperr.Respond(c, backend.Validation("medication id must be numeric"))
	}
	var req RestockRequest
	if err := c.Bind(&req); err != nil {
		return httperr.Respond(c, backend.Validation("malformed restock payload"))
	}
	updated, err := h.svc.Restock(c.Request().Context(), s.Token, id, req.Quantity)
	if err != nil {
		return httperr.Respond(c, err)
	}
	return c.JSON(http.StatusOK, updated)
}
