package domain

import "time"

type LeadCategory string

const (
	LeadResidential    LeadCategory = "residential"
	LeadHousingSociety LeadCategory = "housing_society"
	LeadCommercial     LeadCategory = "commercial"
)

// Lead is a prospective customer's contact submission.
type Lead struct {
	ID              string       `json:"id"`
	Name            string       `json:"name"`
	ContactNumber   string       `json:"whatsappNumber"`
	ElectricityBill int          `json:"electricityBill"`
	City            string       `json:"city"`
	CompanyName     *string      `json:"companyName"`
	Category        LeadCategory `json:"type"`
	CreatedAt       time.Time    `json:"createdAt"`
}

type LeadInput struct {
	Name            string  `json:"name" validate:"min=2" msg:"Name must be at least 2 characters"`
	ContactNumber   string  `json:"whatsappNumber" validate:"in_mobile" msg:"Please enter a valid Indian mobile number"`
	ElectricityBill *int    `json:"electricityBill" validate:"required,gte=1" msg:"Please enter your electricity bill amount"`
	City            string  `json:"city" validate:"min=2" msg:"Please enter your city"`
	CompanyName     *string `json:"companyName,omitempty"`
	Category        string  `json:"type" validate:"oneof=residential housing_society commercial" msg:"Type must be one of residential, housing_society, commercial"`
}
