package prescription

import (
	"net/http"
	"strconv"

	"github.com/labstack/echo/v4"

	"github.com/rxgate/rxgate/internal/guard"
	"github.com/rxgate/rxgate/internal/platform/backend"
	"github.com/rxgate/rxgate/internal/platform/httperr"
	"github.com/rxgate/rxgate/internal/session"
	"github.com/rxgate/rxgate/pkg/pagination"
)

type Handler struct {
	svc    *Service
	drafts *DraftStore
	cache  *ListCache
}

func NewHandler(svc *Service) *Handler {
	return &Handler{
		svc:    svc,
		drafts: NewDraftStore(),
		cache:  NewListCache(),
	}
}

func (h *Handler) RegisterRoutes(e *echo.Echo) {
	e.GET("/prescriptions", h.List)
	e.GET("/prescriptions/draft", h.GetDraft)
	e.PUT("/prescriptions/draft", h.SetDraftIdentities)
	e.DELETE("/prescriptions/draft", h.ClearDraft)
	e.POST("/prescriptions/draft/lines", h.AddDraftLine)
	e.DELETE("/prescriptions/draft/lines", h.RemoveDraftLine)
	e.GET("/prescriptions/:id", h.Get)
	e.POST("/prescriptions", h.Create)
	e.POST("/prescriptions/:id/fulfill", h.Fulfill)
	e.DELETE("/prescriptions/:id", h.Delete)

	// Doctors write prescriptions from their own dashboard; the same
	// handlers serve both namespaces.
	e.POST("/doctor-dashboard/prescriptions", h.Create)
	e.GET("/doctor-dashboard/prescriptions/:id", h.Get)
	e.DELETE("/doctor-dashboard/prescriptions/:id", h.Delete)
}

// OnSession discards the session's draft and cached list once its identity is
// cleared, so logged-out sessions leave no composition state behind. Wired as
// a session manager listener.
func (h *Handler) OnSession(s session.Session) {
	if s.Token == "" {
		h.drafts.Clear(s.ID)
		h.cache.Drop(s.ID)
	}
}

func (h *Handler) List(c echo.Context) error {
	s, _ := guard.FromContext(c)

	f := Filter{
		PatientSSN:    c.QueryParam("patient_ssn"),
		DoctorLicense: c.QueryParam("doctor_license"),
		Status:        Status(c.QueryParam("status")),
		StartDate:     c.QueryParam("start_date"),
		EndDate:       c.QueryParam("end_date"),
	}
	list, err := h.svc.List(c.Request().Context(), s.Token, f)
	if err != nil {
		return httperr.Respond(c, err)
	}
	h.cache.Put(s.ID, list)

	p := pagination.FromContext(c)
	lo, hi := p.Slice(len(list))
	return c.JSON(http.StatusOK, pagination.NewResponse(list[lo:hi], len(list), p.Limit, p.Offset))
}

func (h *Handler) Get(c echo.Context) error {
	s, _ := guard.FromContext(c)
	id, err := strconv.Atoi(c.Param("id"))
	if err != nil {
		return httperr.Respond(c, backend.Validation("prescription id must be numeric"))
	}
	p, err := h.svc.Get(c.Request().Context(), s.Token, id)
	if err != nil {
		return httperr.Respond(c, err)
	}
	return c.JSON(http.StatusOK, p)
}

// -- Draft composition --

func (h *Handler) GetDraft(c echo.Context) error {
	s, _ := guard.FromContext(c)
	return c.JSON(http.StatusOK, h.drafts.Snapshot(s.ID))
}

type draftIdentities struct {
	PatientSSN    string `json:"patient_ssn"`
	DoctorLicense string `json:"doctor_license"`
}

func (h *Handler) SetDraftIdentities(c echo.Context) error {
	s, _ := guard.FromContext(c)
	var req draftIdentities
	if err := c.Bind(&req); err != nil {
		return httperr.Respond(c, backend.Validation("malformed draft payload"))
	}
	d := h.drafts.Update(s.ID, func(d *Draft) {
		d.PatientSSN = req.PatientSSN
		d.DoctorLicense = req.DoctorLicense
	})
	return c.JSON(http.StatusOK, d)
}

func (h *Handler) ClearDraft(c echo.Context) error {
	s, _ := guard.FromContext(c)
	h.drafts.Clear(s.ID)
	return c.NoContent(http.StatusNoContent)
}

func (h *Handler) AddDraftLine(c echo.Context) error {
	s, _ := guard.FromContext(c)
	var line MedicationLine
	if err := c.Bind(&line); err != nil {
		return httperr.Respond(c, backend.Validation("malformed medication line"))
	}
	if line.MedicationID == 0 && line.MedicationName == "" {
		return httperr.Respond(c, backend.Validation("a medication identity is required"))
	}
	d := h.drafts.Update(s.ID, func(d *Draft) { d.AddLine(line) })
	return c.JSON(http.StatusOK, d)
}

func (h *Handler) RemoveDraftLine(c echo.Context) error {
	s, _ := guard.FromContext(c)
	var line MedicationLine
	if err := c.Bind(&line); err != nil {
		return httperr.Respond(c, backend.Validation("malformed medication line"))
	}
	d := h.drafts.Update(s.ID, func(d *Draft) { d.RemoveLine(line) })
	return c.JSON(http.StatusOK, d)
}

// -- Persistence and lifecycle --

// Create submits the session's draft. An inline payload overrides the stored
// draft so doctor views can submit in one shot.
func (h *Handler) Create(c echo.Context) error {
	s, _ := guard.FromContext(c)

	d := h.drafts.Snapshot(s.ID)
	if c.Request().ContentLength > 0 {
		var inline Draft
		if err := c.Bind(&inline); err != nil {
			return httperr.Respond(c, backend.Validation("malformed prescription payload"))
		}
		d = inline
	}

	created, err := h.svc.Create(c.Request().Context(), s.Token, &d)
	if err != nil {
		return httperr.Respond(c, err)
	}
	h.drafts.Clear(s.ID)
	return c.JSON(http.StatusCreated, created)
}

// Fulfill is terminal from the client's perspective and demands an explicit
// confirmation. On success only the acting session's cached list entry is
// touched; no list refetch happens here.
func (h *Handler) Fulfill(c echo.Context) error {
	s, _ := guard.FromContext(c)
	id, err := strconv.Atoi(c.Param("id"))
	if err != nil {
		return httperr.Respond(c, backend.Validation("prescription id must be numeric"))
	}
	if c.QueryParam("confirm") != "true" {
		return httperr.Respond(c, backend.Validation("fulfilling a prescription requires confirm=true"))
	}

	known, _ := h.cache.Status(s.ID, id)
	updated, err := h.svc.Fulfill(c.Request().Context(), s.Token, id, known)
	if err != nil {
		return httperr.Respond(c, err)
	}
	h.cache.SetStatus(s.ID, id, updated.Status)
	return c.JSON(http.StatusOK, updated)
}

func (h *Handler) Delete(c echo.Context) error {
	s, _ := guard.FromContext(c)
	id, err := strconv.Atoi(c.Param("id"))
	if err != nil {
		return httperr.Respond(c, backend.Validation("prescription id must be numeric"))
	}
	if c.QueryParam("confirm") != "true" {
		return httperr.Respond(c, backend.Validation("deleting a prescription requires confirm=true"))
	}
	if err := h.svc.Delete(c.Request().Context(), s.Token, id); err != nil {
		return httperr.Respond(c, err)
	}
	// Local removal only after the server confirmed.
	h.cache.Remove(s.ID, id)
	return c.JSON(http.StatusOK, map[string]string{"message": "prescription deleted"})
}
