package patient

// Patient mirrors the backend patient record. The SSN doubles as the
// prescription-facing identity.
type Patient struct {
	ID          int    `json:"id,omitempty"`
	SSN         string `json:"ssn,omitempty"`
	Name        string `json:"name"`
	Email       string `json:"email,omitempty"`
	Age         int    `json:"age,omitempty"`
	ContactInfo string `json:"contact_info,omitempty"`
	Allergies   string `json:"allergies,omitempty"`
	DateOfBirth string `json:"date_of_birth,omitempty"`
}
