package medication

import (
	"context"
	"fmt"
	"net/url"

	"github.com/rxgate/rxgate/internal/platform/backend"
)

// Service is the typed client for the medication collection.
type Service struct {
	api *backend.Client
}

func NewService(api *backend.Client) *Service {
	return &Service{api: api}
}

func (s *Service) List(ctx context.Context, token string) ([]Medication, error) {
	var out []Medication
	if err := s.api.Do(ctx, "GET", "/medications", nil, token, nil, &out); err != nil {
		return nil, err
	}
	return out, nil
}

func (s *Service) Get(ctx context.Context, token string, id int) (*Medication, error) {
	var m Medication
	if err := s.api.Do(ctx, "GET", fmt.Sprintf("/medications/%d", id), nil, token, nil, &m); err != nil {
		return nil, err
	}
	return &m, nil
}

// GetByName resolves a catalog entry from its denormalized display name, the
// lookup the prescription detail view uses.
func (s *Service) GetByName(ctx context.Context, token, name string) (*Medication, error) {
	if name == "" {
		return nil, backend.Validation("medication name is required")
	}
	var m Medication
	path := "/medications/by-name/" + url.PathEscape(name)
	if err := s.api.Do(ctx, "GET", path, nil, token, nil, &m); err != nil {
		return nil, err
	}
	return &m, nil
}

func (s *Service) Create(ctx context.Context, token string, m *Medication) (*Medication, error) {
	if m.Name == "" {
		return nil, backend.Validation("medication name is required")
	}
	var created Medication
	if err := s.api.Do(ctx, "POST", "/medications", nil, token, m, &created); err != nil {
		return nil, err
	}
	return &created, nil
}

func (s *Service) Update(ctx context.Context, token string, id int, m *Medication) (*Medication, error) {
	var updated Medication
	if err := s.api.Do(ctx, "PATCH", fmt.Sprintf("/medications/%d", id), nil, token, m, &updated); err != nil {
		return nil, err
	}
	return &updated, nil
}

func (s *Service) Delete(ctx context.Context, token string, id int) error {
	return s.api.Do(ctx, "DELETE", fmt.Sprintf("/medications/%d", id), nil, token, nil, nil)
}

// Restock reads the current stock and patches the incremented quantity. The
// read-then-write is not atomic; the backend resolves concurrent restocks.
func (s *Service) Restock(ctx context.Context, token string, id, quantity int) (*Medication, error) {
	if quantity <= 0 {
		return nil, backend.Validation("restock quantity must be positive")
	}
	current, err := s.Get(ctx, token, id)
	if err != nil {
		return nil, err
	}
	patch := map[string]int{"stock_quantity": current.StockQuantity + quantity}
	var updated Medication
	if err := s.api.Do(ctx, "PATCH", fmt.Sprintf("/medications/%d", id), nil, token, patch, &updated); err != nil {
		return nil, err
	}
	return &updated, nil
}
