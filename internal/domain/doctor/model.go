package doctor

// Doctor mirrors the backend doctor record. The license number doubles as
// the prescription-facing identity.
type Doctor struct {
	ID             int    `json:"id,omitempty"`
	LicenseNumber  string `json:"license_number"`
	Name           string `json:"name"`
	Email          string `json:"email,omitempty"`
	Specialization string `json:"specialization,omitempty"`
	ContactInfo    string `json:"contact_info,omitempty"`
}
