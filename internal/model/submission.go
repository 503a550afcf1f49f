package model

import (
	"time"

	"github.com/google/uuid"
)

const submissionDateFormat = "Jan 2, 2006 3:04 PM"

// ContactSubmission is created once per contact-form submission and is
// immutable afterwards. IDs are random UUIDs rather than timestamps so rapid
// concurrent submissions cannot collide.
type ContactSubmission struct {
	ID      string `json:"id"`
	Name    string `json:"name"`
	Email   string `json:"email"`
	Company string `json:"company"`
	Subject string `json:"subject"`
	Message string `json:"message"`
	Date    string `json:"date"`
}

func NewContactSubmission(name, email, company, subject, message string) ContactSubmission {
	return ContactSubmission{
		ID:      uuid.NewString(),
		Name:    name,
		Email:   email,
		Company: company,
		Subject: subject,
		Message: message,
		Date:    time.Now().Format(submissionDateFormat),
	}
}
