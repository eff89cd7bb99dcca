package patient

import (
	"context"
	"fmt"
	"net/url"

	"github.com/rxgate/rxgate/internal/platform/backend"
)

// Service is the typed client for the patient collection.
type Service struct {
	api *backend.Client
}

func NewService(api *backend.Client) *Service {
	return &Service{api: api}
}

func (s *Service) List(ctx context.Context, token string) ([]Patient, error) {
	var out []Patient
	if err := s.api.Do(ctx, "GET", "/patients", nil, token, nil, &out); err != nil {
		return nil, err
	}
	return out, nil
}

// ListForDoctor returns the patients in the calling doctor's care; the
// backend scopes the result by the bearer identity.
func (s *Service) ListForDoctor(ctx context.Context, token string) ([]Patient, error) {
	var out []Patient
	if err := s.api.Do(ctx, "GET", "/patients/doctor", nil, token, nil, &out); err != nil {
		return nil, err
	}
	return out, nil
}

func (s *Service) Get(ctx context.Context, token string, id int) (*Patient, error) {
	var p Patient
	if err := s.api.Do(ctx, "GET", fmt.Sprintf("/patients/%d", id), nil, token, nil, &p); err != nil {
		return nil, err
	}
	return &p, nil
}

// GetBySSN resolves a patient from the identity prescriptions carry.
func (s *Service) GetBySSN(ctx context.Context, token, ssn string) (*Patient, error) {
	if ssn == "" {
		return nil, backend.Validation("patient ssn is required")
	}
	var p Patient
	if err := s.api.Do(ctx, "GET", "/patients/"+url.PathEscape(ssn), nil, token, nil, &p); err != nil {
		return nil, err
	}
	return &p, nil
}

func (s *Service) Create(ctx context.Context, token string, p *Patient) (*Patient, error) {
	if p.Name == "" {
		return nil, backend.Validation("patient name is required")
	}
	var created Patient
	if err := s.api.Do(ctx, "POST", "/patients", nil, token, p, &created); err != nil {
		return nil, err
	}
	return &created, nil
}

func (s *Service) Update(ctx context.Context, token string, id int, p *Patient) (*Patient, error) {
	var updated Patient
	if err := s.api.Do(ctx, "PATCH", fmt.Sprintf("/patients/%d", id), nil, token, p, &updated); err != nil {
		return nil, err
	}
	return &updated, nil
}

func (s *Service) Delete(ctx context.Context, token string, id int) error {
	return s.api.Do(ctx, "DELETE", fmt.Sprintf("/patients/%d", id), nil, token, nil, nil)
}

// Me reads the calling patient's own record.
func (s *Service) Me(ctx context.Context, token string) (*Patient, error) {
	var p Patient
	if err := s.api.Do(ctx, "GET", "/patients/me", nil, token, nil, &p); err != nil {
		return nil, err
	}
	return &p, nil
}
