package auth

import (
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/rs/zerolog"

	"github.com/rxgate/rxgate/internal/platform/backend"
)

func testGateway(t *testing.T, handler http.Handler) *Gateway {
	t.Helper()
	srv := httptest.NewServer(handler)
	t.Cleanup(srv.Close)
	api := backend.New(srv.URL, 2*time.Second, nil, zerolog.Nop())
	return NewGateway(api, zerolog.Nop())
}

func TestLogin_FormEncodedToRoleEndpoint(t *testing.T) {
	var gotPath, gotUser, gotPass string
	gw := testGateway(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotPath = r.URL.Path
		if err := r.ParseForm(); err != nil {
			t.Errorf("parse form: %v", err)
		}
		gotUser = r.PostForm.Get("username")
		gotPass = r.PostForm.Get("password")
		json.NewEncoder(w).Encode(map[string]string{"access_token": "tok-1", "token_type": "bearer"})
	}))

	token, err := gw.Login(context.Background(), Credentials{Username: "drsmith", Password: "pw", Role: RoleDoctor})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if token != "tok-1" {
		t.Errorf("token = %q", token)
	}
	if gotPath != "/auth/doctor-token" {
		t.Errorf("login hit %q, want doctor token endpoint", gotPath)
	}
	if gotUser != "drsmith" || gotPass != "pw" {
		t.Errorf("credentials not form-encoded: user=%q pass=%q", gotUser, gotPass)
	}
}

func TestLogin_InvalidRole(t *testing.T) {
	gw := testGateway(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		t.Error("no backend call expected for an invalid role")
	}))
	_, err := gw.Login(context.Background(), Credentials{Username: "u", Password: "p", Role: "admin"})
	if !backend.IsKind(err, backend.KindValidationFailed) {
		t.Errorf("expected validation failure, got %v", err)
	}
}

func TestLogin_BadCredentials(t *testing.T) {
	gw := testGateway(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusUnauthorized)
		w.Write([]byte(`{"detail":"Incorrect username or password"}`))
	}))
	_, err := gw.Login(context.Background(), Credentials{Username: "u", Password: "wrong", Role: RolePharmacist})
	if !backend.IsKind(err, backend.KindInvalidCredentials) {
		t.Errorf("expected invalid credentials, got %v", err)
	}
}

func TestLogin_MissingToken(t *testing.T) {
	gw := testGateway(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`{"token_type":"bearer"}`))
	}))
	_, err := gw.Login(context.Background(), Credentials{Username: "u", Password: "p", Role: RolePatient})
	if err == nil {
		t.Fatal("expected error when the response carries no token")
	}
}

func TestRegister_StripsRoleFromPayload(t *testing.T) {
	var gotPath string
	var payload map[string]any
	gw := testGateway(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotPath = r.URL.Path
		body, _ := io.ReadAll(r.Body)
		if err := json.Unmarshal(body, &payload); err != nil {
			t.Errorf("decode payload: %v", err)
		}
		w.WriteHeader(http.StatusCreated)
		w.Write([]byte(`{"id": 3, "name": "Pat", "email": "pat@example.com"}`))
	}))

	p, err := gw.Register(context.Background(), Registration{
		Role:     RolePatient,
		Name:     "Pat",
		Email:    "pat@example.com",
		Password: "pw",
		SSN:      "123-45-6789",
	})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if gotPath != "/patients/" {
		t.Errorf("register hit %q, want /patients/", gotPath)
	}
	if _, present := payload["role"]; present {
		t.Error("role must not be serialized into the registration payload")
	}
	if payload["ssn"] != "123-45-6789" {
		t.Errorf("ssn not carried: %v", payload["ssn"])
	}
	if p.Role != RolePatient {
		t.Errorf("returned profile role = %s", p.Role)
	}
	if p.ID != 3 {
		t.Errorf("returned profile id = %d", p.ID)
	}
}

func TestProfile_PerRoleEndpoint(t *testing.T) {
	var gotPath, gotAuth string
	gw := testGateway(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotPath = r.URL.Path
		gotAuth = r.Header.Get("Authorization")
		w.Write([]byte(`{"id": 9, "name": "Dr. Smith", "license_number": "LIC-1"}`))
	}))

	p, err := gw.Profile(context.Background(), RoleDoctor, "tok-9")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if gotPath != "/doctors/me" {
		t.Errorf("profile hit %q, want /doctors/me", gotPath)
	}
	if gotAuth != "Bearer tok-9" {
		t.Errorf("authorization header = %q", gotAuth)
	}
	if p.Role != RoleDoctor || p.LicenseNumber != "LIC-1" {
		t.Errorf("unexpected profile: %+v", p)
	}
}
