package model

import "time"

// Opportunity is a casting listing with a validity window and an
// auto-computed expiry. Only the owner mutates it; the expiry sweep may
// deactivate it without an owner actor.
type Opportunity struct {
	ID           string    `json:"id"`
	OwnerID      string    `json:"ownerId"`
	Title        string    `json:"title"`
	Description  string    `json:"description"`
	StartOn      time.Time `json:"startOn"`
	EndsOn       time.Time `json:"endsOn"`
	ExpiresOn    time.Time `json:"expiresOn"`
	Requirements string    `json:"requirements"`
	IsActive     bool      `json:"isActive"`
	CreatedAt    time.Time `json:"createdAt"`
	UpdatedAt    time.Time `json:"updatedAt"`
}

// Application status values. All transitions go from pending only.
const (
	ApplicationPending   = "pending"
	ApplicationApproved  = "approved"
	ApplicationAudition  = "audition"
	ApplicationRejected  = "rejected"
	ApplicationWithdrawn = "withdrawn"
)

// Application is a user's submission against an opportunity. OwnerID is
// the opportunity owner, denormalized at creation for authorization
// checks. Owner and applicant are never the same user.
type Application struct {
	ID            string    `json:"id"`
	OwnerID       string    `json:"ownerId"`
	ApplicantID   string    `json:"applicantId"`
	OpportunityID string    `json:"opportunityId"`
	Status        string    `json:"status"`
	Text          string    `json:"text"`
	MediaIDs      []string  `json:"mediaIds"`
	CreatedAt     time.Time `json:"createdAt"`
	UpdatedAt     time.Time `json:"updatedAt"`
}

// Queue schedules auditions for one opportunity. Applicants is an
// ordered list produced upstream by applause ranking; CurrentPosition
// advances one step at a time and never exceeds TotalQueued.
type Queue struct {
	ID              string    `json:"id"`
	ManagerID       string    `json:"managerId"`
	OpportunityID   string    `json:"opportunityId"`
	Applicants      []string  `json:"applicants"`
	StartTime       time.Time `json:"startTime"`
	MinutesPer      int       `json:"minutesPer"`
	CurrentPosition int       `json:"currentPosition"`
	TotalQueued     int       `json:"totalQueued"`
	CreatedAt       time.Time `json:"createdAt"`
	UpdatedAt       time.Time `json:"updatedAt"`
}
