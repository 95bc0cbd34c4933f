// Package visibility applies role-based record scoping.
//
// The filter runs before any status/date/search predicate in every query
// path. Filtering afterwards would leak record existence through result
// counts, so callers must never reorder the pipeline.
package visibility

import "github.com/dalemusser/clinichub/internal/domain/models"

// FilterEvents returns the events the user may see. Privileged users
// see everything; standard users see only self-created events.
func FilterEvents(events []models.Event, user models.User) []models.Event {
	if user.IsPrivileged() {
		return events
	}
	out := make([]models.Event, 0, len(events))
	for _, e := range events {
		if e.CreatedBy == user.UID {
			out = append(out, e)
		}
	}
	return out
}

// FilterCases returns the cases the user may see. Privileged users see
// everything; standard users see cases they created or are assigned to.
func FilterCases(cases []models.Case, user models.User) []models.Case {
	if user.IsPrivileged() {
		return cases
	}
	out := make([]models.Case, 0, len(cases))
	for _, c := range cases {
		if c.CreatedBy == user.UID || assigned(c, user.UID) {
			out = append(out, c)
		}
	}
	return out
}

// FilterActivity returns the activity entries the user may see:
// privileged pass-through, otherwise self-authored entries only.
func FilterActivity(entries []models.ActivityEntry, user models.User) []models.ActivityEntry {
	if user.IsPrivileged() {
		return entries
	}
	out := make([]models.ActivityEntry, 0, len(entries))
	for _, e := range entries {
		if e.CreatedBy == user.UID {
			out = append(out, e)
		}
	}
	return out
}

func assigned(c models.Case, uid string) bool {
	for _, a := range c.AssignedAdmins {
		if a == uid {
			return true
		}
	}
	return false
}
