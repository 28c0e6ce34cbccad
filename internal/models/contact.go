package models

import "strings"

// Contact is a person attached to an organization.
type Contact struct {
	ID             int    `json:"id,omitempty"`
	OrganizationID int    `json:"organization_id"`
	FirstName      string `json:"first_name"`
	LastName       string `json:"last_name"`
	Email          string `json:"email"`
	Phone          string `json:"phone"`
	Address        string `json:"address"`
	City           string `json:"city"`
	Province       string `json:"province"`
	Country        string `json:"country"`
	PostalCode     string `json:"postal_code"`
}

// GetID implements Entity.
func (c Contact) GetID() int { return c.ID }

// FullName joins first and last name.
func (c Contact) FullName() string {
	return strings.TrimSpace(c.FirstName + " " + c.LastName)
}
