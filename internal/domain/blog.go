package domain

import "time"

type Blog struct {
	ID        string    `json:"id"`
	Title     string    `json:"title"`
	Excerpt   string    `json:"excerpt"`
	Content   string    `json:"content"`
	ImageURL  string    `json:"imageUrl"`
	Category  string    `json:"category"`
	CreatedAt time.Time `json:"createdAt"`
}

// BlogView is what the API returns: the record plus derived reading time.
type BlogView struct {
	Blog
	ReadMinutes int `json:"readMinutes"`
}

type BlogInput struct {
	Title    string `json:"title" validate:"min=2" msg:"Title must be at least 2 characters"`
	Excerpt  string `json:"excerpt" validate:"min=10" msg:"Excerpt must be at least 10 characters"`
	Content  string `json:"content" validate:"min=50" msg:"Content must be at least 50 characters"`
	ImageURL string `json:"imageUrl" validate:"url" msg:"Please enter a valid image URL"`
	Category string `json:"category" validate:"min=2" msg:"Category must be at least 2 characters"`
}
