package models

// Organization is a company the CRM tracks. It owns zero or more contacts.
type Organization struct {
	ID         int    `json:"id,omitempty"`
	Name       string `json:"name"`
	Email      string `json:"email"`
	Phone      string `json:"phone"`
	Address    string `json:"address"`
	City       string `json:"city"`
	Province   string `json:"province"`
	Country    string `json:"country"`
	PostalCode string `json:"postal_code"`
}

// GetID implements Entity.
func (o Organization) GetID() int { return o.ID }
