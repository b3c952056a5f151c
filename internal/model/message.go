package model

import "time"

// Message is one contact-form submission.
type Message struct {
	ID          string    `json:"id"`
	Name        string    `json:"name"`
	Email       string    `json:"email"`
	Phone       *string   `json:"phone"`
	Budget      *string   `json:"budget"`
	ProjectType *string   `json:"projectType"`
	Message     string    `json:"message"`
	IsRead      bool      `json:"isRead"`
	CreatedAt   time.Time `json:"createdAt"`
}

// NewMessage carries the client-supplied fields of a submission.
// Identity, read flag and creation time are always assigned server-side.
type NewMessage struct {
	Name        string
	Email       string
	Phone       *string
	Budget      *string
	ProjectType *string
	Message     string
}
