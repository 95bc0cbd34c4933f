// internal/domain/models/case.go
package models

import "time"

// Case statuses.
const (
	CaseStatusNew      = "new"
	CaseStatusActive   = "active"
	CaseStatusInactive = "inactive"
)

// Case is the operational (non-PII) half of a patient record, stored in
// the patients collection of the document store. The PII half lives in
// the relational store and is joined at display time by CaseID.
//
// A case document always exists before its PII counterpart is created.
// If the PII write fails after the document write, creation reports
// failure and the document is left behind (no rollback); see lifecycle.
type Case struct {
	CaseID string `bson:"_id" json:"case_id"`
	Status string `bson:"status" json:"status"`

	CreatedBy string `bson:"created_by" json:"created_by"`

	// AssignedAdmins always includes the creator unless the case was
	// explicitly reassigned.
	AssignedAdmins []string `bson:"assigned_admins" json:"assigned_admins"`

	// Notes is operational free text; it is not PII and deliberately
	// stays in the document store.
	Notes string `bson:"notes,omitempty" json:"notes,omitempty"`

	CreatedAt time.Time `bson:"created_at" json:"created_at"`
	UpdatedAt time.Time `bson:"updated_at" json:"updated_at"`
}

// IsValidCaseStatus reports whether s is a known case status.
func IsValidCaseStatus(s string) bool {
	switch s {
	case CaseStatusNew, CaseStatusActive, CaseStatusInactive:
		return true
	}
	return false
}
