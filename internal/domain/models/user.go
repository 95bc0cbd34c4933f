// internal/domain/models/user.go
package models

import "time"

// Terminology: User Identifiers
//   - UID / uid: the platform-issued identity id stored as the Mongo _id
//     of a user document. All created_by fields hold a UID.
//   - ProviderID / provider_id: an optional secondary sign-in identity
//     (alternate provider). It is a weak back-reference, not ownership:
//     resolving "which user does this login identity belong to" checks
//     _id first, then provider_id.

// User roles.
const (
	RoleAdmin     = "admin"     // privileged: unrestricted visibility and destructive actions
	RoleStaff     = "staff"     // standard: sees only self-authored/self-assigned records
	RoleScheduler = "scheduler" // standard sub-role
	RoleIntake    = "intake"    // standard sub-role
)

// User represents a console user stored in the users collection.
//
// Blocked and Restricted are independent booleans; semantically a user
// is never both at once (the admin UI toggles one off when setting the
// other), but the model does not enforce it.
type User struct {
	UID        string `bson:"_id" json:"uid"`
	Name       string `bson:"name" json:"name"`
	Email      string `bson:"email" json:"email"`
	Role       string `bson:"role" json:"role"`
	Blocked    bool   `bson:"blocked" json:"blocked"`
	Restricted bool   `bson:"restricted" json:"restricted"`

	// ProviderID links an alternate sign-in identity to this user.
	ProviderID string `bson:"provider_id,omitempty" json:"provider_id,omitempty"`

	TwoFactorEnabled bool `bson:"two_factor_enabled" json:"two_factor_enabled"`

	CreatedAt time.Time `bson:"created_at" json:"created_at"`
	UpdatedAt time.Time `bson:"updated_at" json:"updated_at"`
}

// IsPrivileged reports whether the user's role grants unrestricted
// visibility across all records.
func (u User) IsPrivileged() bool { return u.Role == RoleAdmin }
