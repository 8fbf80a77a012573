package model

import "time"

// PortfolioStyle captures the look of a user's portfolio page.
type PortfolioStyle struct {
	BackgroundColor string `json:"backgroundColor"`
	TextColor       string `json:"textColor"`
	Font            string `json:"font"`
}

// ProfessionalInfo is free-form career metadata on a portfolio.
type ProfessionalInfo struct {
	Height    string `json:"height"`
	HairColor string `json:"hairColor"`
	EyeColor  string `json:"eyeColor"`
	Agency    string `json:"agency"`
	Union     string `json:"union"`
}

// Portfolio is a user's public media showcase. Exactly one per user.
type Portfolio struct {
	ID         string           `json:"id"`
	OwnerID    string           `json:"ownerId"`
	Style      PortfolioStyle   `json:"style"`
	Intro      string           `json:"intro"`
	Info       ProfessionalInfo `json:"info"`
	MediaIDs   []string         `json:"mediaIds"`
	HeadshotID string           `json:"headshotId"`
	CreatedAt  time.Time        `json:"createdAt"`
	UpdatedAt  time.Time        `json:"updatedAt"`
}

// PracticeFolder is a user's capacity-limited working set. Exactly one
// per user; adds are rejected once NumContents reaches the configured
// capacity.
type PracticeFolder struct {
	ID          string    `json:"id"`
	OwnerID     string    `json:"ownerId"`
	ContentIDs  []string  `json:"contentIds"`
	NumContents int       `json:"numContents"`
	CreatedAt   time.Time `json:"createdAt"`
	UpdatedAt   time.Time `json:"updatedAt"`
}

// RepertoireFolder is a named content list. Users may own any number;
// every mutation is owner-checked.
type RepertoireFolder struct {
	ID         string    `json:"id"`
	OwnerID    string    `json:"ownerId"`
	Name       string    `json:"name"`
	ContentIDs []string  `json:"contentIds"`
	CreatedAt  time.Time `json:"createdAt"`
	UpdatedAt  time.Time `json:"updatedAt"`
}
