package prescription

import "testing"

func seedCache() *ListCache {
	c := NewListCache()
	c.Put("s1", []Prescription{
		{ID: 1, Status: StatusPending},
		{ID: 2, Status: StatusPending},
	})
	c.Put("s2", []Prescription{
		{ID: 1, Status: StatusPending},
	})
	return c
}

func TestListCache_SetStatusTouchesOneEntry(t *testing.T) {
	c := seedCache()
	if !c.SetStatus("s1", 1, StatusFulfilled) {
		t.Fatal("expected the cached entry to be updated")
	}

	st, ok := c.Status("s1", 1)
	if !ok || st != StatusFulfilled {
		t.Errorf("s1 entry 1 = %s, %v", st, ok)
	}
	st, _ = c.Status("s1", 2)
	if st != StatusPending {
		t.Errorf("sibling entry touched: %s", st)
	}
}

func TestListCache_SetStatusIsSessionScoped(t *testing.T) {
	c := seedCache()
	c.SetStatus("s1", 1, StatusFulfilled)

	// The other session's view stays stale until it refetches.
	st, ok := c.Status("s2", 1)
	if !ok || st != StatusPending {
		t.Errorf("s2 view must be untouched, got %s, %v", st, ok)
	}
}

func TestListCache_SetStatusMissingEntry(t *testing.T) {
	c := seedCache()
	if c.SetStatus("s1", 99, StatusFulfilled) {
		t.Error("expected false for an entry not in the cached list")
	}
}

func TestListCache_Remove(t *testing.T) {
	c := seedCache()
	c.Remove("s1", 1)
	if _, ok := c.Status("s1", 1); ok {
		t.Error("entry still cached after remove")
	}
	if _, ok := c.Status("s1", 2); !ok {
		t.Error("sibling entry lost on remove")
	}
}

func TestListCache_GetReturnsCopy(t *testing.T) {
	c := seedCache()
	list, ok := c.Get("s1")
	if !ok {
		t.Fatal("expected cached list")
	}
	list[0].Status = StatusCancelled

	st, _ := c.Status("s1", 1)
	if st != StatusPending {
		t.Error("cache must not share slice storage with callers")
	}
}

func TestListCache_Drop(t *testing.T) {
	c := seedCache()
	c.Drop("s1")
	if _, ok := c.Get("s1"); ok {
		t.Error("expected no cached list after drop")
	}
	if _, ok := c.Get("s2"); !ok {
		t.Error("drop must be session-scoped")
	}
}
