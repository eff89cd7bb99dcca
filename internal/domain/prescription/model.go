package prescription

import (
	"strconv"
	"strings"
)

// Status is the prescription lifecycle state. The only client-initiated
// transition is pending to fulfilled; cancelled is terminal too.
type Status string

const (
	StatusPending   Status = "pending"
	StatusFulfilled Status = "fulfilled"
	StatusCancelled Status = "cancelled"
)

// CanFulfill reports whether the one-way fulfill transition applies.
func (s Status) CanFulfill() bool {
	return s == StatusPending
}

// MedicationLine is one medication entry on a prescription, owned exclusively
// by its parent. The name is a denormalized display copy.
type MedicationLine struct {
	ID             int    `json:"id,omitempty"`
	MedicationID   int    `json:"medication_id,omitempty"`
	MedicationName string `json:"medication_name"`
	Dosage         string `json:"dosage"`
	Frequency      string `json:"frequency"`
	Duration       string `json:"duration"`
}

// identity keys draft de-duplication: the catalog ID when known, the display
// name otherwise.
func (l MedicationLine) identity() string {
	if l.MedicationID != 0 {
		return "id:" + strconv.Itoa(l.MedicationID)
	}
	return "name:" + strings.ToLower(strings.TrimSpace(l.MedicationName))
}

// Prescription ties a patient identity and a doctor identity to an ordered
// list of medication lines.
type Prescription struct {
	ID            int              `json:"id,omitempty"`
	PatientSSN    string           `json:"patient_ssn"`
	DoctorLicense string           `json:"doctor_license"`
	DateIssued    string           `json:"date_issued,omitempty"`
	Status        Status           `json:"status,omitempty"`
	Medications   []MedicationLine `json:"medications"`
}
