package domain

import "time"

// ReportStatus enumerates lifecycle states for a case.
type ReportStatus string

const (
	ReportStatusNew        ReportStatus = "NEW"
	ReportStatusInProgress ReportStatus = "IN_PROGRESS"
	ReportStatusClosed     ReportStatus = "CLOSED"
)

// ValidStatus reports whether s is one of the three known states.
func ValidStatus(s ReportStatus) bool {
	switch s {
	case ReportStatusNew, ReportStatusInProgress, ReportStatusClosed:
		return true
	}
	return false
}

// ReportCategory classifies the subject matter of a case.
type ReportCategory string

const (
	CategoryCorruption  ReportCategory = "CORRUPTION"
	CategoryTheft       ReportCategory = "THEFT"
	CategoryHarassment  ReportCategory = "HARASSMENT"
	CategoryDataPrivacy ReportCategory = "DATA_PRIVACY"
	CategoryOther       ReportCategory = "OTHER"
)

// Categories lists every selectable category, in display order.
func Categories() []ReportCategory {
	return []ReportCategory{
		CategoryCorruption,
		CategoryTheft,
		CategoryHarassment,
		CategoryDataPrivacy,
		CategoryOther,
	}
}

// NormalizeCategory coerces unknown input to CategoryOther. Submissions are
// never rejected over a bad category.
func NormalizeCategory(raw string) ReportCategory {
	candidate := ReportCategory(raw)
	for _, c := range Categories() {
		if c == candidate {
			return c
		}
	}
	return CategoryOther
}

// AutoAdvance is the single automatic status transition: a NEW report moves
// to IN_PROGRESS the first time the intake office acts on it (admin message
// or receipt confirmation). Every other status is left untouched; explicit
// admin status updates are unconstrained and do not go through here.
func AutoAdvance(s ReportStatus) ReportStatus {
	if s == ReportStatusNew {
		return ReportStatusInProgress
	}
	return s
}

// ConfirmationDeadline is how long the intake office has to acknowledge
// receipt of a report.
const ConfirmationDeadline = 7 * 24 * time.Hour

// Report is the aggregate for one whistleblower case. The case code doubles
// as the reporter's login name; the access secret is stored only as a bcrypt
// hash.
type Report struct {
	ID               string
	CaseCode         string
	SecretHash       string
	Category         ReportCategory
	Status           ReportStatus
	ConfirmationSent bool
	CreatedAt        time.Time
	UpdatedAt        time.Time
}

// ConfirmationDueAt returns the legal deadline for the receipt confirmation.
func (r *Report) ConfirmationDueAt() time.Time {
	return r.CreatedAt.Add(ConfirmationDeadline)
}
