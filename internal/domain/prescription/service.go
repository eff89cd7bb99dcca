package prescription

import (
	"context"
	"fmt"
	"net/url"

	"github.com/rxgate/rxgate/internal/platform/backend"
)

// Filter narrows a prescription list. Zero values mean "no constraint".
// Dates are ISO (2006-01-02) and inclusive.
type Filter struct {
	PatientSSN    string
	DoctorLicense string
	Status        Status
	StartDate     string
	EndDate       string
}

func (f Filter) params() url.Values {
	v := url.Values{}
	if f.PatientSSN != "" {
		v.Set("patient_ssn", f.PatientSSN)
	}
	if f.DoctorLicense != "" {
		v.Set("doctor_license", f.DoctorLicense)
	}
	if f.Status != "" {
		v.Set("status", string(f.Status))
	}
	if f.StartDate != "" {
		v.Set("start_date", f.StartDate)
	}
	if f.EndDate != "" {
		v.Set("end_date", f.EndDate)
	}
	return v
}

// Matches applies the filter locally. Every read is possibly stale the
// moment it renders, so the view's filter is re-applied to whatever the
// server returned rather than trusting it blindly.
func (f Filter) Matches(p Prescription) bool {
	if f.PatientSSN != "" && p.PatientSSN != f.PatientSSN {
		return false
	}
	if f.DoctorLicense != "" && p.DoctorLicense != f.DoctorLicense {
		return false
	}
	if f.Status != "" && p.Status != f.Status {
		return false
	}
	// ISO dates compare correctly as strings.
	if f.StartDate != "" && p.DateIssued != "" && p.DateIssued < f.StartDate {
		return false
	}
	if f.EndDate != "" && p.DateIssued != "" && p.DateIssued > f.EndDate {
		return false
	}
	return true
}

func (f Filter) apply(list []Prescription) []Prescription {
	out := make([]Prescription, 0, len(list))
	for _, p := range list {
		if f.Matches(p) {
			out = append(out, p)
		}
	}
	return out
}

// Service is the typed client for the prescription collection and its
// status workflow.
type Service struct {
	api *backend.Client
}

func NewService(api *backend.Client) *Service {
	return &Service{api: api}
}

// List fetches prescriptions constrained by f. The filter is also applied
// locally so the caller sees exactly the filtered view.
func (s *Service) List(ctx context.Context, token string, f Filter) ([]Prescription, error) {
	var out []Prescription
	if err := s.api.Do(ctx, "GET", "/prescriptions", f.params(), token, nil, &out); err != nil {
		return nil, err
	}
	return f.apply(out), nil
}

// ListForDoctor returns the calling doctor's prescriptions; the backend
// scopes by the bearer identity.
func (s *Service) ListForDoctor(ctx context.Context, token string) ([]Prescription, error) {
	var out []Prescription
	if err := s.api.Do(ctx, "GET", "/prescriptions/doctor", nil, token, nil, &out); err != nil {
		return nil, err
	}
	return out, nil
}

// ListForPatient returns the calling patient's own prescriptions.
func (s *Service) ListForPatient(ctx context.Context, token string) ([]Prescription, error) {
	var out []Prescription
	if err := s.api.Do(ctx, "GET", "/prescriptions/patient", nil, token, nil, &out); err != nil {
		return nil, err
	}
	return out, nil
}

func (s *Service) Get(ctx context.Context, token string, id int) (*Prescription, error) {
	var p Prescription
	if err := s.api.Do(ctx, "GET", fmt.Sprintf("/prescriptions/%d", id), nil, token, nil, &p); err != nil {
		return nil, err
	}
	return &p, nil
}

// Create persists a draft. The draft's local preconditions are checked
// first (no wasted round trip); identity resolution is entirely the
// server's job.
func (s *Service) Create(ctx context.Context, token string, d *Draft) (*Prescription, error) {
	if err := d.Validate(); err != nil {
		return nil, err
	}
	var created Prescription
	if err := s.api.Do(ctx, "POST", "/prescriptions", nil, token, d, &created); err != nil {
		return nil, err
	}
	return &created, nil
}

// Fulfill performs the one-way pending to fulfilled transition. known is the
// status the caller already holds for the prescription (empty when unknown);
// a fulfill against anything but pending is a ValidationFailed, detected
// locally when possible so the duplicate is never sent.
func (s *Service) Fulfill(ctx context.Context, token string, id int, known Status) (*Prescription, error) {
	if known == "" {
		current, err := s.Get(ctx, token, id)
		if err != nil {
			return nil, err
		}
		known = current.Status
	}
	if !known.CanFulfill() {
		return nil, backend.Validation(fmt.Sprintf("prescription is already %s", known))
	}

	var updated Prescription
	if err := s.api.Do(ctx, "PATCH", fmt.Sprintf("/prescriptions/%d/fulfill", id), nil, token, nil, &updated); err != nil {
		return nil, err
	}
	if updated.Status == "" {
		updated.Status = StatusFulfilled
	}
	return &updated, nil
}

// Delete removes a prescription. Callers drop local copies only after this
// returns nil.
func (s *Service) Delete(ctx context.Context, token string, id int) error {
	return s.api.Do(ctx, "DELETE", fmt.Sprintf("/prescriptions/%d", id), nil, token, nil, nil)
}
