package domain

// Testimonial carries no timestamp; lists keep insertion order.
type Testimonial struct {
	ID         string  `json:"id"`
	Name       string  `json:"name"`
	Role       string  `json:"role"`
	Content    string  `json:"content"`
	ImageURL   string  `json:"imageUrl"`
	YoutubeURL *string `json:"youtubeUrl"`
}

type TestimonialInput struct {
	Name       string  `json:"name" validate:"min=2" msg:"Name must be at least 2 characters"`
	Role       string  `json:"role" validate:"min=2" msg:"Role must be at least 2 characters"`
	Content    string  `json:"content" validate:"min=10" msg:"Content must be at least 10 characters"`
	ImageURL   string  `json:"imageUrl" validate:"url" msg:"Please enter a valid image URL"`
	YoutubeURL *string `json:"youtubeUrl,omitempty" validate:"omitempty,url" msg:"Please enter a valid YouTube URL"`
}
