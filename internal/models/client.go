package models

import "time"

// Client represents a counterparty a deal is signed with.
type Client struct {
	ID             int       `json:"id"`
	Name           string    `json:"name"`
	RegistrationNo string    `json:"registration_no"`
	Address        string    `json:"address"`
	ContactInfo    string    `json:"contact_info"`
	CreatedAt      time.Time `json:"created_at"`
}
