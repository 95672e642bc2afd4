package domain

import (
	"strings"
	"time"
)

// ProjectStatus is the lifecycle state of a project.
type ProjectStatus string

const (
	ProjectActive    ProjectStatus = "ACTIVE"
	ProjectPending   ProjectStatus = "PENDING"
	ProjectCompleted ProjectStatus = "COMPLETED"
	ProjectCancelled ProjectStatus = "CANCELLED"
)

// Valid reports whether s is a known project status.
func (s ProjectStatus) Valid() bool {
	switch s {
	case ProjectActive, ProjectPending, ProjectCompleted, ProjectCancelled:
		return true
	}
	return false
}

// Project is a market-expansion engagement owned by one client.
type Project struct {
	ID             int64         `json:"id"`
	ClientID       int64         `json:"clientId"`
	Country        string        `json:"country"`
	ServicesNeeded []string      `json:"servicesNeeded"`
	Budget         float64       `json:"budget"`
	Status         ProjectStatus `json:"status"`
	CreatedAt      time.Time     `json:"createdAt"`
	UpdatedAt      time.Time     `json:"updatedAt"`
}

// OwnerClientID returns the tenant owning the project.
func (p *Project) OwnerClientID() int64 { return p.ClientID }

// ProjectUpdate carries the optional fields of a project patch.
type ProjectUpdate struct {
	Country        *string
	ServicesNeeded []string
	Budget         *float64
	Status         *ProjectStatus
}

// ProjectFilter is the store-level filter for listing projects.
// ClientID is nil for an unrestricted (admin) listing.
type ProjectFilter struct {
	ClientID *int64
	Status   ProjectStatus
	Country  string
	Page     Page
}

// MatchesCountry reports a case-insensitive substring match, as the store does.
func (p *Project) MatchesCountry(country string) bool {
	return strings.Contains(strings.ToLower(p.Country), strings.ToLower(country))
}
