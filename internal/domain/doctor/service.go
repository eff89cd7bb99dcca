package doctor

import (
	"context"
	"fmt"
	"net/url"

	"github.com/rxgate/rxgate/internal/platform/backend"
)

// Service is the typed client for the doctor collection.
type Service struct {
	api *backend.Client
}

func NewService(api *backend.Client) *Service {
	return &Service{api: api}
}

func (s *Service) List(ctx context.Context, token string) ([]Doctor, error) {
	var out []Doctor
	if err := s.api.Do(ctx, "GET", "/doctors", nil, token, nil, &out); err != nil {
		return nil, err
	}
	return out, nil
}

func (s *Service) Get(ctx context.Context, token string, id int) (*Doctor, error) {
	var d Doctor
	if err := s.api.Do(ctx, "GET", fmt.Sprintf("/doctors/%d", id), nil, token, nil, &d); err != nil {
		return nil, err
	}
	return &d, nil
}

// GetByLicense resolves a doctor from the license number, the identity
// prescriptions reference.
func (s *Service) GetByLicense(ctx context.Context, token, license string) (*Doctor, error) {
	if license == "" {
		return nil, backend.Validation("doctor license number is required")
	}
	var d Doctor
	if err := s.api.Do(ctx, "GET", "/doctors/by-license/"+url.PathEscape(license), nil, token, nil, &d); err != nil {
		return nil, err
	}
	return &d, nil
}

func (s *Service) Create(ctx context.Context, token string, d *Doctor) (*Doctor, error) {
	if d.Name == "" || d.LicenseNumber == "" {
		return nil, backend.Validation("doctor name and license number are required")
	}
	var created Doctor
	if err := s.api.Do(ctx, "POST", "/doctors", nil, token, d, &created); err != nil {
		return nil, err
	}
	return &created, nil
}

func (s *Service) Update(ctx context.Context, token string, id int, d *Doctor) (*Doctor, error) {
	var updated Doctor
	if err := s.api.Do(ctx, "PATCH", fmt.Sprintf("/doctors/%d", id), nil, token, d, &updated); err != nil {
		return nil, err
	}
	return &updated, nil
}

func (s *Service) Delete(ctx context.Context, token string, id int) error {
	return s.api.Do(ctx, "DELETE", fmt.Sprintf("/doctors/%d", id), nil, token, nil, nil)
}

// Me reads the calling doctor's own record.
func (s *Service) Me(ctx context.Context, token string) (*Doctor, error) {
	var d Doctor
	if err := s.api.Do(ctx, "GET", "/doctors/me", nil, token, nil, &d); err != nil {
		return nil, err
	}
	return &d, nil
}
