package prescription

import (
	"testing"

	"github.com/rxgate/rxgate/internal/auth"
	"github.com/rxgate/rxgate/internal/session"
)

func TestOnSession_ClearedIdentityPurgesDraftAndCache(t *testing.T) {
	h := NewHandler(nil)
	h.drafts.Update("s1", func(d *Draft) {
		d.PatientSSN = "111"
		d.AddLine(MedicationLine{MedicationName: "Aspirin"})
	})
	h.cache.Put("s1", []Prescription{{ID: 1, Status: StatusPending}})

	h.OnSession(session.Session{ID: "s1"})

	if d := h.drafts.Snapshot("s1"); d.PatientSSN != "" || len(d.Lines) != 0 {
		t.Errorf("draft survived logout: %+v", d)
	}
	if _, ok := h.cache.Get("s1"); ok {
		t.Error("cached list survived logout")
	}
}

func TestOnSession_LiveSessionKeepsState(t *testing.T) {
	h := NewHandler(nil)
	h.drafts.Update("s1", func(d *Draft) { d.PatientSSN = "111" })
	h.cache.Put("s1", []Prescription{{ID: 1}})

	h.OnSession(session.Session{ID: "s1", Token: "tok", Role: auth.RolePharmacist})

	if d := h.drafts.Snapshot("s1"); d.PatientSSN != "111" {
		t.Errorf("draft dropped for a live session: %+v", d)
	}
	if _, ok := h.cache.Get("s1"); !ok {
		t.Error("cached list dropped for a live session")
	}
}
