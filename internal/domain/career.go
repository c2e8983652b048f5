package domain

import "time"

type EmploymentType string

const (
	FullTime   EmploymentType = "Full-Time"
	PartTime   EmploymentType = "Part-Time"
	Internship EmploymentType = "Internship"
)

type Career struct {
	ID           string         `json:"id"`
	Title        string         `json:"title"`
	Type         EmploymentType `json:"type"`
	Location     string         `json:"location"`
	Description  string         `json:"description"`
	Requirements string         `json:"requirements"`
	Salary       *string        `json:"salary"`
	ApplyURL     *string        `json:"applyUrl"`
	CreatedAt    time.Time      `json:"createdAt"`
}

type CareerInput struct {
	Title        string  `json:"title" validate:"min=2" msg:"Title must be at least 2 characters"`
	Type         string  `json:"type" validate:"oneof=Full-Time Part-Time Internship" msg:"Type must be one of Full-Time, Part-Time, Internship"`
	Location     string  `json:"location" validate:"min=2" msg:"Location must be at least 2 characters"`
	Description  string  `json:"description" validate:"min=10" msg:"Description must be at least 10 characters"`
	Requirements string  `json:"requirements" validate:"min=10" msg:"Requirements must be at least 10 characters"`
	Salary       *string `json:"salary,omitempty"`
	ApplyURL     *string `json:"applyUrl,omitempty" validate:"omitempty,url" msg:"Please enter a valid URL"`
}

// CareerPatch is a partial update; nil fields keep the stored value.
type CareerPatch struct {
	Title        *string `json:"title"`
	Type         *string `json:"type"`
	Location     *string `json:"location"`
	Description  *string `json:"description"`
	Requirements *string `json:"requirements"`
	Salary       *string `json:"salary"`
	ApplyURL     *string `json:"applyUrl"`
}

// Apply overlays the patch on the input form of c.
func (p CareerPatch) Apply(c Career) CareerInput {
	in := CareerInput{
		Title:        c.Title,
		Type:         string(c.Type),
		Location:     c.Location,
		Description:  c.Description,
		Requirements: c.Requirements,
		Salary:       c.Salary,
		ApplyURL:     c.ApplyURL,
	}
	if p.Title != nil {
		in.Title = *p.Title
	}
	if p.Type != nil {
		in.Type = *p.Type
	}
	if p.Location != nil {
		in.Location = *p.Location
	}
	if p.Description != nil {
		in.Description = *p.Description
	}
	if p.Requirements != nil {
		in.Requirements = *p.Requirements
	}
	if p.Salary != nil {
		in.Salary = p.Salary
	}
	if p.ApplyURL != nil {
		in.ApplyURL = p.ApplyURL
	}
	return in
}
