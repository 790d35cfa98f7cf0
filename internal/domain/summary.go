package domain

import "time"

// ProjectSummary aggregates an owner's completed sessions on one project.
type ProjectSummary struct {
	ProjectID       string     `json:"project_id" yaml:"project_id"`
	TotalMinutes    int        `json:"total_minutes" yaml:"total_minutes"`
	TotalHours      float64    `json:"total_hours" yaml:"total_hours"`
	TotalSessions   int        `json:"total_sessions" yaml:"total_sessions"`
	AverageMinutes  float64    `json:"average_session_minutes" yaml:"average_session_minutes"`
	LastSessionDate *time.Time `json:"last_session_date,omitempty" yaml:"last_session_date,omitempty"`
}

// PeriodTotal aggregates completed sessions over a half-open window
// [Start, End).
type PeriodTotal struct {
	Start        time.Time `json:"start" yaml:"start"`
	End          time.Time `json:"end" yaml:"end"`
	TotalMinutes int       `json:"total_minutes" yaml:"total_minutes"`
	TotalHours   float64   `json:"total_hours" yaml:"total_hours"`
	Sessions     int       `json:"sessions" yaml:"sessions"`
}

// Overview bundles the windows shown on the stats dashboard.
type Overview struct {
	GeneratedAt time.Time   `json:"generated_at" yaml:"generated_at"`
	Today       PeriodTotal `json:"today" yaml:"today"`
	LastMonth   PeriodTotal `json:"last_month" yaml:"last_month"`
	Year        PeriodTotal `json:"year" yaml:"year"`
}

// SessionPage is one page of an owner's session history, newest first.
// Page numbers start at 1.
type SessionPage struct {
	Sessions   []*Session
	Page       int
	PageSize   int
	TotalCount int
}

// TotalPages returns the number of pages at the current page size.
func (p SessionPage) TotalPages() int {
	if p.PageSize <= 0 {
		return 0
	}
	return (p.TotalCount + p.PageSize - 1) / p.PageSize
}

// HasNext reports whether a page follows this one.
func (p SessionPage) HasNext() bool {
	return p.Page < p.TotalPages()
}
