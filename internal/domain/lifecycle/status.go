package lifecycle

import (
	"encoding/json"
	"fmt"
	"strings"

	"github.com/turtacn/KeyIP-Lifecycle/pkg/errors"
)

// ─────────────────────────────────────────────────────────────────────────────
// TaskStatus
// ─────────────────────────────────────────────────────────────────────────────

// TaskStatus is the closed set of states a Stage can be in.  Any status may be
// set from any other; the Engine derives side effects, it does not gatekeep.
type TaskStatus string

const (
	StatusNotStarted    TaskStatus = "NOT_STARTED"
	StatusStarted       TaskStatus = "STARTED"
	StatusWaitingArctic TaskStatus = "WAITING_ARCTIC"
	StatusWIP           TaskStatus = "WIP"
	StatusCompleted     TaskStatus = "COMPLETED"
	StatusDelayed       TaskStatus = "DELAYED"
	StatusObjection     TaskStatus = "OBJECTION"
)

var statusLabels = map[TaskStatus]string{
	StatusNotStarted:    "Not Started",
	StatusStarted:       "Started",
	StatusWaitingArctic: "Waiting for confirmation from Arctic",
	StatusWIP:           "Work in progress",
	StatusCompleted:     "Completed",
	StatusDelayed:       "Delayed",
	StatusObjection:     "Objection",
}

// AllStatuses returns every TaskStatus in nominal lifecycle order.
func AllStatuses() []TaskStatus {
	return []TaskStatus{
		StatusNotStarted, StatusStarted, StatusWIP, StatusWaitingArctic,
		StatusCompleted, StatusDelayed, StatusObjection,
	}
}

// IsValid reports whether s is one of the declared statuses.
func (s TaskStatus) IsValid() bool {
	_, ok := statusLabels[s]
	return ok
}

// IsCompleted reports whether s is StatusCompleted.
func (s TaskStatus) IsCompleted() bool { return s == StatusCompleted }

// Label returns the display text for s.
func (s TaskStatus) Label() string {
	if l, ok := statusLabels[s]; ok {
		return l
	}
	return string(s)
}

func (s TaskStatus) String() string { return string(s) }

// ParseTaskStatus accepts either the code ("WIP") or the display label
// ("Work in progress"), case-insensitively.
func ParseTaskStatus(raw string) (TaskStatus, error) {
	v := strings.TrimSpace(raw)
	for st, label := range statusLabels {
		if strings.EqualFold(v, string(st)) || strings.EqualFold(v, label) {
			return st, nil
		}
	}
	return "", errors.Validation(errors.ErrCodeInvalidStatus, "invalid stage status").
		WithDetail(fmt.Sprintf("status=%q", raw))
}

// UnmarshalJSON rejects statuses outside the closed set.
func (s *TaskStatus) UnmarshalJSON(b []byte) error {
	var raw string
	if err := json.Unmarshal(b, &raw); err != nil {
		return err
	}
	st, err := ParseTaskStatus(raw)
	if err != nil {
		return err
	}
	*s = st
	return nil
}

// ─────────────────────────────────────────────────────────────────────────────
// Role
// ─────────────────────────────────────────────────────────────────────────────

// Role identifies which party last updated a Stage.
type Role string

const (
	RoleInternal Role = "INTERNAL"
	RoleExternal Role = "EXTERNAL"
)

var roleLabels = map[Role]string{
	RoleInternal: "NT (Internal)",
	RoleExternal: "Arctic (External)",
}

// IsValid reports whether r is a declared role.
func (r Role) IsValid() bool {
	_, ok := roleLabels[r]
	return ok
}

// Label returns the display text for r.
func (r Role) Label() string {
	if l, ok := roleLabels[r]; ok {
		return l
	}
	return string(r)
}

// ParseRole accepts the code or label, case-insensitively.
func ParseRole(raw string) (Role, error) {
	v := strings.TrimSpace(raw)
	for r, label := range roleLabels {
		if strings.EqualFold(v, string(r)) || strings.EqualFold(v, label) {
			return r, nil
		}
	}
	return "", errors.Validation(errors.ErrCodeInvalidRole, "invalid role").
		WithDetail(fmt.Sprintf("role=%q", raw))
}

// RoleForPOC attributes a point of contact to a role: the literal external
// consultant identifier maps to RoleExternal, everything else to RoleInternal.
func RoleForPOC(poc, externalPOC string) Role {
	if poc == externalPOC {
		return RoleExternal
	}
	return RoleInternal
}

// ─────────────────────────────────────────────────────────────────────────────
// Category / FilingType
// ─────────────────────────────────────────────────────────────────────────────

// Category classifies a patent's strategic weight.
type Category string

const (
	CategoryCore    Category = "Core"
	CategoryNonCore Category = "Non-Core"
)

// IsValid reports whether c is a declared category.
func (c Category) IsValid() bool {
	return c == CategoryCore || c == CategoryNonCore
}

// ParseCategory parses a category case-insensitively; "noncore" and
// "non_core" are accepted for Non-Core.
func ParseCategory(raw string) (Category, error) {
	switch normalizeToken(raw) {
	case "core":
		return CategoryCore, nil
	case "noncore":
		return CategoryNonCore, nil
	}
	return "", errors.Validation(errors.ErrCodeValidation, "invalid category").
		WithDetail(fmt.Sprintf("category=%q", raw))
}

// FilingType is the application type of a patent.
type FilingType string

const (
	FilingProvisional    FilingType = "Provisional"
	FilingNonProvisional FilingType = "Non-Provisional"
	FilingNotApplicable  FilingType = "N/A"
)

// IsValid reports whether f is a declared filing type.
func (f FilingType) IsValid() bool {
	switch f {
	case FilingProvisional, FilingNonProvisional, FilingNotApplicable:
		return true
	}
	return false
}

// ParseFilingType parses a filing type case-insensitively.
func ParseFilingType(raw string) (FilingType, error) {
	switch normalizeToken(raw) {
	case "provisional":
		return FilingProvisional, nil
	case "nonprovisional":
		return FilingNonProvisional, nil
	case "na":
		return FilingNotApplicable, nil
	}
	return "", errors.Validation(errors.ErrCodeValidation, "invalid filing type").
		WithDetail(fmt.Sprintf("type=%q", raw))
}

// normalizeToken lowercases s and drops separators so "Non-Core", "non_core"
// and "NONCORE" compare equal.
func normalizeToken(s string) string {
	r := strings.NewReplacer("-", "", "_", "", " ", "", "/", "")
	return r.Replace(strings.ToLower(strings.TrimSpace(s)))
}

//Personal.AI order the ending
