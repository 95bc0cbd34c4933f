// internal/domain/models/patient.go
package models

// Patient holds the person-identifying half of a case. These fields
// live exclusively in the relational PII store and are only ever joined
// into views by case identifier; nothing here is written to MongoDB.
type Patient struct {
	CaseID      string `json:"case_id"`
	FirstName   string `json:"first_name"`
	LastName    string `json:"last_name"`
	DateOfBirth string `json:"date_of_birth"`
	Email       string `json:"email"`
	Phone       string `json:"phone"`
	Address     string `json:"address"`
	Notes       string `json:"notes"`
}

// DisplayName returns "First Last" trimmed of missing parts, or "" when
// both names are absent (callers render the Unknown Patient sentinel).
func (p Patient) DisplayName() string {
	switch {
	case p.FirstName != "" && p.LastName != "":
		return p.FirstName + " " + p.LastName
	case p.FirstName != "":
		return p.FirstName
	default:
		return p.LastName
	}
}
