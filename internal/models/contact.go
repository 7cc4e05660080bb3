package models

import "time"

// ContactMessage is a contact-form submission. Messages are append-only.
type ContactMessage struct {
	ID          string    `json:"id,omitempty"`
	SenderName  string    `json:"name"`
	SenderEmail string    `json:"email"`
	Subject     string    `json:"subject"`
	Body        string    `json:"message"`
	SubmittedAt time.Time `json:"timestamp"`
}
