package domain

import "time"

// User is the domain model for people who report lost or found items.
type User struct {
	ID            string
	Name          string
	Email         string
	PasswordHash  string
	Points        int
	ItemsReported int
	ItemsAccepted int
	CreatedAt     time.Time
	UpdatedAt     time.Time
}

// LeaderboardEntry is the public projection of a user for the ranking page.
type LeaderboardEntry struct {
	Name          string `json:"name"`
	Email         string `json:"email"`
	Points        int    `json:"points"`
	ItemsAccepted int    `json:"items_accepted"`
	ItemsReported int    `json:"items_reported"`
}
