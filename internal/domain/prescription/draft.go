package prescription

import (
	"sync"

	"github.com/rxgate/rxgate/internal/platform/backend"
)

// Draft is the in-memory prescription being composed: patient identity,
// doctor identity, and an ordered line list. Nothing here touches the
// network; validation happens before any round trip.
type Draft struct {
	PatientSSN    string           `json:"patient_ssn"`
	DoctorLicense string           `json:"doctor_license"`
	Lines         []MedicationLine `json:"medications"`
}

// AddLine appends a line. A line whose medication identity already exists in
// the draft replaces the existing line in place, keeping its position:
// last write wins per medication, by policy rather than accident.
func (d *Draft) AddLine(l MedicationLine) {
	key := l.identity()
	for i, existing := range d.Lines {
		if existing.identity() == key {
			d.Lines[i] = l
			return
		}
	}
	d.Lines = append(d.Lines, l)
}

// RemoveLine drops the line matching the given line's medication identity.
// Removing an absent line is a no-op.
func (d *Draft) RemoveLine(l MedicationLine) {
	key := l.identity()
	for i, existing := range d.Lines {
		if existing.identity() == key {
			d.Lines = append(d.Lines[:i], d.Lines[i+1:]...)
			return
		}
	}
}

// Validate applies the local persistence preconditions: a patient identity
// and at least one medication line. Fails fast with no network call.
func (d *Draft) Validate() error {
	if d.PatientSSN == "" {
		return backend.Validation("a patient identity is required")
	}
	if len(d.Lines) == 0 {
		return backend.Validation("a prescription needs at least one medication line")
	}
	return nil
}

// DraftStore holds one draft per session.
type DraftStore struct {
	mu     sync.Mutex
	drafts map[string]*Draft
}

func NewDraftStore() *DraftStore {
	return &DraftStore{drafts: make(map[string]*Draft)}
}

// Update runs fn against the session's draft under the store lock and
// returns a copy of the result.
func (s *DraftStore) Update(sessionID string, fn func(*Draft)) Draft {
	s.mu.Lock()
	defer s.mu.Unlock()
	d, ok := s.drafts[sessionID]
	if !ok {
		d = &Draft{}
		s.drafts[sessionID] = d
	}
	fn(d)
	return d.snapshot()
}

// Snapshot returns a copy of the session's draft.
func (s *DraftStore) Snapshot(sessionID string) Draft {
	s.mu.Lock()
	defer s.mu.Unlock()
	if d, ok := s.drafts[sessionID]; ok {
		return d.snapshot()
	}
	return Draft{}
}

// Clear discards the session's draft, after a successful create or an
// explicit reset.
func (s *DraftStore) Clear(sessionID string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.drafts, sessionID)
}

func (d *Draft) snapshot() Draft {
	out := *d
	out.Lines = append([]MedicationLine(nil), d.Lines...)
	return out
}
