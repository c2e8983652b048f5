package schema

import "nigaran-engine/internal/domain"

// Record builders return a record without ID or timestamp; the resource
// service stamps those.

func (s *Validator) Lead(in domain.LeadInput) (domain.Lead, error) {
	in.Name = trim(in.Name)
	in.ContactNumber = trim(in.ContactNumber)
	in.City = trim(in.City)
	in.Category = trim(in.Category)
	in.CompanyName = optional(in.CompanyName)
	if err := s.fail(in); err != nil {
		return domain.Lead{}, err
	}
	return domain.Lead{
		Name:            in.Name,
		ContactNumber:   in.ContactNumber,
		ElectricityBill: *in.ElectricityBill,
		City:            in.City,
		CompanyName:     in.CompanyName,
		Category:        domain.LeadCategory(in.Category),
	}, nil
}

func (s *Validator) Testimonial(in domain.TestimonialInput) (domain.Testimonial, error) {
	in.Name = trim(in.Name)
	in.Role = trim(in.Role)
	in.Content = trim(in.Content)
	in.ImageURL = trim(in.ImageURL)
	in.YoutubeURL = optional(in.YoutubeURL)
	if err := s.fail(in); err != nil {
		return domain.Testimonial{}, err
	}
	return domain.Testimonial{
		Name:       in.Name,
		Role:       in.Role,
		Content:    in.Content,
		ImageURL:   in.ImageURL,
		YoutubeURL: in.YoutubeURL,
	}, nil
}

func (s *Validator) Blog(in domain.BlogInput) (domain.Blog, error) {
	in.Title = trim(in.Title)
	in.Excerpt = trim(in.Excerpt)
	in.Content = trim(in.Content)
	in.ImageURL = trim(in.ImageURL)
	in.Category = trim(in.Category)
	if err := s.fail(in); err != nil {
		return domain.Blog{}, err
	}
	return domain.Blog{
		Title:    in.Title,
		Excerpt:  in.Excerpt,
		Content:  in.Content,
		ImageURL: in.ImageURL,
		Category: in.Category,
	}, nil
}

func (s *Validator) Career(in domain.CareerInput) (domain.Career, error) {
	in.Title = trim(in.Title)
	in.Type = trim(in.Type)
	in.Location = trim(in.Location)
	in.Description = trim(in.Description)
	in.Requirements = trim(in.Requirements)
	in.Salary = optional(in.Salary)
	in.ApplyURL = optional(in.ApplyURL)
	if err := s.fail(in); err != nil {
		return domain.Career{}, err
	}
	return domain.Career{
		Title:        in.Title,
		Type:         domain.EmploymentType(in.Type),
		Location:     in.Location,
		Description:  in.Description,
		Requirements: in.Requirements,
		Salary:       in.Salary,
		ApplyURL:     in.ApplyURL,
	}, nil
}

func (s *Validator) Application(in domain.ApplicationInput) (domain.JobApplication, error) {
	in.Name = trim(in.Name)
	in.Email = trim(in.Email)
	in.Phone = trim(in.Phone)
	in.ResumeURL = trim(in.ResumeURL)
	in.CareerID = trim(in.CareerID)
	in.CoverLetter = optional(in.CoverLetter)
	if err := s.fail(in); err != nil {
		return domain.JobApplication{}, err
	}
	return domain.JobApplication{
		Name:        in.Name,
		Email:       in.Email,
		Phone:       in.Phone,
		ResumeURL:   in.ResumeURL,
		CoverLetter: in.CoverLetter,
		CareerID:    in.CareerID,
	}, nil
}
