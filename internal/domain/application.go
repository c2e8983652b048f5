package domain

import "time"

// JobApplication belongs to exactly one Career.
type JobApplication struct {
	ID          string    `json:"id"`
	Name        string    `json:"name"`
	Email       string    `json:"email"`
	Phone       string    `json:"phone"`
	ResumeURL   string    `json:"resumeUrl"`
	CoverLetter *string   `json:"coverLetter"`
	CareerID    string    `json:"careerId"`
	CreatedAt   time.Time `json:"createdAt"`
}

// ApplicationView is the admin listing row, joined with the career title.
type ApplicationView struct {
	JobApplication
	CareerTitle string `json:"careerTitle"`
}

type ApplicationInput struct {
	Name        string  `json:"name" validate:"min=2" msg:"Name must be at least 2 characters"`
	Email       string  `json:"email" validate:"email" msg:"Please enter a valid email"`
	Phone       string  `json:"phone" validate:"min=10" msg:"Phone must be at least 10 digits"`
	ResumeURL   string  `json:"resumeUrl" validate:"required,url" msg:"Please upload your resume"`
	CoverLetter *string `json:"coverLetter,omitempty"`
	CareerID    string  `json:"careerId" validate:"required" msg:"Career ID is required"`
}
