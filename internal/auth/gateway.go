package auth

import (
	"context"
	"net/url"

	"github.com/rs/zerolog"

	"github.com/rxgate/rxgate/internal/platform/backend"
)

// Credentials is a login intent. Role selects the token endpoint; the three
// populations are not interchangeable.
type Credentials struct {
	Username string `json:"username"`
	Password string `json:"password"`
	Role     Role   `json:"role"`
}

// Registration is an account-creation intent. The role is encoded by endpoint
// choice and never serialized into the payload.
type Registration struct {
	Role           Role   `json:"-"`
	Name           string `json:"name"`
	Email          string `json:"email"`
	Password       string `json:"password"`
	ContactInfo    string `json:"contact_info,omitempty"`
	LicenseNumber  string `json:"license_number,omitempty"`
	Specialization string `json:"specialization,omitempty"`
	SSN            string `json:"ssn,omitempty"`
	Allergies      string `json:"allergies,omitempty"`
	DateOfBirth    string `json:"date_of_birth,omitempty"`
}

// Profile is the authenticated user's record, replaced wholesale on each
// fetch. Role-specific fields stay empty for the other roles.
type Profile struct {
	ID             int    `json:"id"`
	Name           string `json:"name"`
	Email          string `json:"email"`
	Role           Role   `json:"role,omitempty"`
	ContactInfo    string `json:"contact_info,omitempty"`
	LicenseNumber  string `json:"license_number,omitempty"`
	Specialization string `json:"specialization,omitempty"`
	SSN            string `json:"ssn,omitempty"`
	Allergies      string `json:"allergies,omitempty"`
	DateOfBirth    string `json:"date_of_birth,omitempty"`
}

type tokenResponse struct {
	AccessToken string `json:"access_token"`
	TokenType   string `json:"token_type"`
}

// Gateway performs the auth calls against the backend: one HTTP call per
// intent, plus the follow-up profile read after login.
type Gateway struct {
	api    *backend.Client
	logger zerolog.Logger
}

func NewGateway(api *backend.Client, logger zerolog.Logger) *Gateway {
	return &Gateway{api: api, logger: logger}
}

// Login exchanges credentials for an access token at the role's token
// endpoint. Credentials go form-encoded per the backend contract.
func (g *Gateway) Login(ctx context.Context, creds Credentials) (string, error) {
	if !creds.Role.Valid() {
		return "", backend.Validation("a role must be selected to sign in")
	}
	form := url.Values{}
	form.Set("username", creds.Username)
	form.Set("password", creds.Password)

	var res tokenResponse
	if err := g.api.PostForm(ctx, creds.Role.Endpoints().Token, form, &res); err != nil {
		return "", err
	}
	if res.AccessToken == "" {
		return "", &backend.Error{Kind: backend.KindUnknown, Detail: "no access token in response"}
	}
	g.logger.Info().Str("role", string(creds.Role)).Str("username", creds.Username).Msg("login succeeded")
	return res.AccessToken, nil
}

// Register creates an account in the role's collection. The Role field is
// json-ignored, so the payload carries no role discriminator.
func (g *Gateway) Register(ctx context.Context, reg Registration) (*Profile, error) {
	if !reg.Role.Valid() {
		return nil, backend.Validation("a role must be selected to register")
	}
	var p Profile
	if err := g.api.Do(ctx, "POST", reg.Role.Endpoints().Register, nil, "", reg, &p); err != nil {
		return nil, err
	}
	p.Role = reg.Role
	return &p, nil
}

// Profile reads the current user from the role's profile endpoint.
func (g *Gateway) Profile(ctx context.Context, role Role, token string) (*Profile, error) {
	var p Profile
	if err := g.api.Do(ctx, "GET", role.Endpoints().Profile, nil, token, nil, &p); err != nil {
		return nil, err
	}
	p.Role = role
	return &p, nil
}
