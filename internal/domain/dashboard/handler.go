// Package dashboard serves the three role homes and the role-scoped views
// hanging off them. Everything here is composition over the entity services;
// the guard has already decided the caller may be here.
package dashboard

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/rxgate/rxgate/internal/domain/doctor"
	"github.com/rxgate/rxgate/internal/domain/patient"
	"github.com/rxgate/rxgate/internal/domain/prescription"
	"github.com/rxgate/rxgate/internal/guard"
	"github.com/rxgate/rxgate/internal/platform/backend"
	"github.com/rxgate/rxgate/internal/platform/httperr"
)

type Handler struct {
	patients      *patient.Service
	doctors       *doctor.Service
	prescriptions *prescription.Service
}

func NewHandler(patients *patient.Service, doctors *doctor.Service, prescriptions *prescription.Service) *Handler {
	return &Handler{patients: patients, doctors: doctors, prescriptions: prescriptions}
}

func (h *Handler) RegisterRoutes(e *echo.Echo) {
	e.GET("/", h.Root)
	e.GET("/dashboard", h.PharmacistHome)

	e.GET("/doctor-dashboard", h.DoctorHome)
	e.GET("/doctor-dashboard/patients", h.DoctorPatients)
	e.GET("/doctor-dashboard/prescriptions", h.DoctorPrescriptions)

	e.GET("/patient-dashboard", h.PatientHome)
	e.GET("/patient-dashboard/prescriptions", h.PatientPrescriptions)
	e.GET("/patient-dashboard/profile", h.PatientProfile)
	e.PATCH("/patient-dashboard/profile", h.UpdatePatientProfile)
}

// Root sends an authenticated visitor to their role's home.
func (h *Handler) Root(c echo.Context) error {
	s, _ := guard.FromContext(c)
	return c.Redirect(http.StatusFound, s.Role.Home())
}

func (h *Handler) PharmacistHome(c echo.Context) error {
	s, _ := guard.FromContext(c)
	pending, err := h.prescriptions.List(c.Request().Context(), s.Token, prescription.Filter{
		Status: prescription.StatusPending,
	})
	if err != nil {
		return httperr.Respond(c, err)
	}
	return c.JSON(http.StatusOK, map[string]any{
		"role":                  s.Role,
		"user":                  s.Profile,
		"pending_prescriptions": len(pending),
	})
}

func (h *Handler) DoctorHome(c echo.Context) error {
	s, _ := guard.FromContext(c)
	return c.JSON(http.StatusOK, map[string]any{
		"role": s.Role,
		"user": s.Profile,
	})
}

func (h *Handler) DoctorPatients(c echo.Context) error {
	s, _ := guard.FromContext(c)
	patients, err := h.patients.ListForDoctor(c.Request().Context(), s.Token)
	if err != nil {
		return httperr.Respond(c, err)
	}
	return c.JSON(http.StatusOK, patients)
}

func (h *Handler) DoctorPrescriptions(c echo.Context) error {
	s, _ := guard.FromContext(c)
	list, err := h.prescriptions.ListForDoctor(c.Request().Context(), s.Token)
	if err != nil {
		return httperr.Respond(c, err)
	}
	return c.JSON(http.StatusOK, list)
}

func (h *Handler) PatientHome(c echo.Context) error {
	s, _ := guard.FromContext(c)
	return c.JSON(http.StatusOK, map[string]any{
		"role": s.Role,
		"user": s.Profile,
	})
}

func (h *Handler) PatientPrescriptions(c echo.Context) error {
	s, _ := guard.FromContext(c)
	list, err := h.prescriptions.ListForPatient(c.Request().Context(), s.Token)
	if err != nil {
		return httperr.Respond(c, err)
	}
	return c.JSON(http.StatusOK, list)
}

func (h *Handler) PatientProfile(c echo.Context) error {
	s, _ := guard.FromContext(c)
	me, err := h.patients.Me(c.Request().Context(), s.Token)
	if err != nil {
		return httperr.Respond(c, err)
	}
	return c.JSON(http.StatusOK, me)
}

// UpdatePatientProfile lets a patient edit their own record.
func (h *Handler) UpdatePatientProfile(c echo.Context) error {
	s, _ := guard.FromContext(c)
	var p patient.Patient
	if err := c.Bind(&p); err != nil {
		return httperr.Respond(c, backend.Validation("malformed profile payload"))
	}
	if s.Profile == nil || s.Profile.ID == 0 {
		return httperr.Respond(c, backend.Validation("profile not loaded yet"))
	}
	updated, err := h.patients.Update(c.Request().Context(), s.Token, s.Profile.ID, &p)
	if err != nil {
		return httperr.Respond(c, err)
	}
	return c.JSON(http.StatusOK, updated)
}
