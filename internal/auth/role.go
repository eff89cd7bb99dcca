// Package auth translates login, registration, and profile intents into
// backend calls. Each role authenticates against its own endpoint set; the
// dispatch table below replaces the string comparisons the endpoints used to
// be selected with at every call site.
package auth

import (
	"fmt"
	"strings"
)

// Role identifies which of the three user populations a session belongs to.
type Role string

const (
	RolePharmacist Role = "pharmacist"
	RoleDoctor     Role = "doctor"
	RolePatient    Role = "patient"
)

// Endpoints is one role's backend contract: where it authenticates, where it
// reads its own profile, where new accounts are created, plus the gateway-side
// home path and route namespaces the role may navigate.
type Endpoints struct {
	Token      string
	Profile    string
	Register   string
	Home       string
	Namespaces []string
}

var roleEndpoints = map[Role]Endpoints{
	RolePharmacist: {
		Token:    "/auth/token",
		Profile:  "/pharmacists/me",
		Register: "/pharmacists/",
		Home:     "/dashboard",
		Namespaces: []string{
			"/dashboard", "/medications", "/patients", "/prescriptions",
		},
	},
	RoleDoctor: {
		Token:      "/auth/doctor-token",
		Profile:    "/doctors/me",
		Register:   "/doctors/",
		Home:       "/doctor-dashboard",
		Namespaces: []string{"/doctor-dashboard"},
	},
	RolePatient: {
		Token:      "/auth/patient-token",
		Profile:    "/patients/me",
		Register:   "/patients/",
		Home:       "/patient-dashboard",
		Namespaces: []string{"/patient-dashboard"},
	},
}

// ParseRole validates a role string from a request or a stored session record.
func ParseRole(s string) (Role, error) {
	switch Role(strings.ToLower(strings.TrimSpace(s))) {
	case RolePharmacist:
		return RolePharmacist, nil
	case RoleDoctor:
		return RoleDoctor, nil
	case RolePatient:
		return RolePatient, nil
	default:
		return "", fmt.Errorf("unknown role %q", s)
	}
}

// Valid reports whether r is one of the three known roles.
func (r Role) Valid() bool {
	_, ok := roleEndpoints[r]
	return ok
}

// Endpoints returns the role's dispatch entry. Unknown roles map to the
// pharmacist entry so a corrupted record degrades to the most restricted
// backend surface rather than panicking; Valid() is the real gate.
func (r Role) Endpoints() Endpoints {
	if e, ok := roleEndpoints[r]; ok {
		return e
	}
	return roleEndpoints[RolePharmacist]
}

// Home is the role's canonical landing path on the gateway.
func (r Role) Home() string {
	return r.Endpoints().Home
}

// AllowsPath reports whether path sits inside one of the role's namespaces.
// The root path and the current-user view are shared by every authenticated
// role.
func (r Role) AllowsPath(path string) bool {
	if path == "/" || path == "/me" {
		return true
	}
	for _, ns := range r.Endpoints().Namespaces {
		if path == ns || strings.HasPrefix(path, ns+"/") {
			return true
		}
	}
	return false
}
