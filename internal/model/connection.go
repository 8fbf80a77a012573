package model

import "time"

// Request status values for connection requests.
const (
	RequestPending  = "pending"
	RequestAccepted = "accepted"
	RequestRejected = "rejected"
)

// ConnectionRequest is a directed request from one user to another.
// At most one pending request per pair (in either direction), and a
// pending request must not exist while the users are connected.
type ConnectionRequest struct {
	ID        string    `json:"id"`
	FromID    string    `json:"fromId"`
	ToID      string    `json:"toId"`
	Status    string    `json:"status"`
	CreatedAt time.Time `json:"createdAt"`
	UpdatedAt time.Time `json:"updatedAt"`
}

// Connection is a symmetric relation between two users, created only by
// accepting a request. The pair is looked up by either ordering.
type Connection struct {
	ID        string    `json:"id"`
	User1ID   string    `json:"user1Id"`
	User2ID   string    `json:"user2Id"`
	CreatedAt time.Time `json:"createdAt"`
	UpdatedAt time.Time `json:"updatedAt"`
}

// Challenge is a daily-challenge prompt. Proposed challenges form a
// pool; posting draws one at random and moves it to the posted list,
// irreversibly. NumAccepted counts participation on posted challenges.
type Challenge struct {
	ID           string    `json:"id"`
	ChallengerID string    `json:"challengerId"`
	Prompt       string    `json:"prompt"`
	Posted       bool      `json:"posted"`
	NumAccepted  int       `json:"numAccepted"`
	CreatedAt    time.Time `json:"createdAt"`
	UpdatedAt    time.Time `json:"updatedAt"`
}
