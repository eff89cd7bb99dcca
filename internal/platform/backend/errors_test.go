package backend

import (
	"net/http"
	"testing"
)

func TestErrorFromResponse_StringDetail(t *testing.T) {
	err := errorFromResponse(http.StatusNotFound, []byte(`{"detail":"Prescription not found"}`))
	if err.Kind != KindNotFound {
		t.Errorf("expected not-found kind, got %s", err.Kind)
	}
	if err.Detail != "Prescription not found" {
		t.Errorf("unexpected detail: %q", err.Detail)
	}
}

func TestErrorFromResponse_FieldList(t *testing.T) {
	body := []byte(`{"detail":[
		{"loc":["body","patient_ssn"],"msg":"field required","type":"value_error.missing"},
		{"loc":["body","medications",0,"dosage"],"msg":"field required","type":"value_error.missing"}
	]}`)
	err := errorFromResponse(http.StatusUnprocessableEntity, body)
	if err.Kind != KindValidationFailed {
		t.Fatalf("expected validation kind, got %s", err.Kind)
	}
	if len(err.Fields) != 2 {
		t.Fatalf("expected 2 field violations, got %d", len(err.Fields))
	}
	if err.Fields[0].Field != "patient_ssn" {
		t.Errorf("unexpected first field: %q", err.Fields[0].Field)
	}
	if err.Fields[1].Field != "medications.0.dosage" {
		t.Errorf("unexpected second field: %q", err.Fields[1].Field)
	}
}

func TestErrorFromResponse_UnparseableBody(t *testing.T) {
	err := errorFromResponse(http.StatusForbidden, []byte(`<html>forbidden</html>`))
	if err.Kind != KindForbidden {
		t.Errorf("expected forbidden kind, got %s", err.Kind)
	}
	if err.Detail == "" {
		t.Error("expected a generic detail message")
	}
}

func TestErrorFromResponse_UnknownStatus(t *testing.T) {
	err := errorFromResponse(http.StatusBadGateway, nil)
	if err.Kind != KindUnknown {
		t.Errorf("expected unknown kind, got %s", err.Kind)
	}
	if err.Status != http.StatusBadGateway {
		t.Errorf("expected status recorded, got %d", err.Status)
	}
}

func TestIsKind_NonBackendError(t *testing.T) {
	if IsKind(http.ErrServerClosed, KindUnknown) {
		t.Error("plain errors must not match any kind")
	}
	if KindOf(http.ErrServerClosed) != KindUnknown {
		t.Error("KindOf on a plain error should report unknown")
	}
}

func TestValidationConstructor(t *testing.T) {
	err := Validation("at least one medication is required")
	if err.Kind != KindValidationFailed {
		t.Errorf("expected validation kind, got %s", err.Kind)
	}
	if err.Error() == "" {
		t.Error("expected a non-empty error string")
	}
}
