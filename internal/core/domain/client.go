package domain

import "time"

// Client is a tenant: the company that owns projects and CLIENT users.
type Client struct {
	ID           int64     `json:"id"`
	CompanyName  string    `json:"companyName"`
	ContactEmail string    `json:"contactEmail"`
	CreatedAt    time.Time `json:"createdAt"`
	UpdatedAt    time.Time `json:"updatedAt"`
}

// OwnerClientID makes a tenant subject to its own ownership checks.
func (c *Client) OwnerClientID() int64 { return c.ID }
