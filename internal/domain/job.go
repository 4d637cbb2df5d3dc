package domain

import "time"

// JobStatusActive is the only status assigned at creation.
// Effective activity is derived from the date window, not from Status.
const JobStatusActive = "active"

// Job represents a time-bounded posting.
type Job struct {
	// ID is assigned at creation and never changes.
	ID string `json:"id"`

	Title       string `json:"title"`
	OfficialURL string `json:"official_url"`
	Description string `json:"description"`

	// PostedBy identifies the submitter (optional).
	PostedBy string `json:"posted_by,omitempty"`

	// StartDate and EndDate are UTC midnight instants parsed from
	// day/month/year input. StartDate <= EndDate is expected, not enforced.
	StartDate time.Time `json:"start_date"`
	EndDate   time.Time `json:"end_date"`

	Status    string    `json:"status"`
	CreatedAt time.Time `json:"created_at"`
}

// IsActiveStatus reports whether the stored status tag is "active".
func (j *Job) IsActiveStatus() bool {
	return j.Status == JobStatusActive
}
