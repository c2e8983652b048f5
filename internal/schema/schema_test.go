package schema

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"nigaran-engine/internal/apperr"
	"nigaran-engine/internal/domain"
)

func ptr[T any](v T) *T { return &v }

func validLead() domain.LeadInput {
	return domain.LeadInput{
		Name:            "Anita Raman",
		ContactNumber:   "9876543210",
		ElectricityBill: ptr(3000),
		City:            "Chennai",
		CompanyName:     ptr("Acme Co"),
		Category:        "commercial",
	}
}

func fieldNames(err error) []string {
	var out []string
	for _, f := range apperr.FieldsOf(err) {
		out = append(out, f.Field)
	}
	return out
}

func TestLead_Valid(t *testing.T) {
	v := New()

	lead, err := v.Lead(validLead())
	require.NoError(t, err)
	assert.Equal(t, domain.LeadCommercial, lead.Category)
	assert.Equal(t, 3000, lead.ElectricityBill)
	require.NotNil(t, lead.CompanyName)
	assert.Equal(t, "Acme Co", *lead.CompanyName)
	assert.Empty(t, lead.ID)
}

func TestLead_RejectsBadContactNumbers(t *testing.T) {
	v := New()
	for _, num := range []string{"", "12345", "5876543210", "98765432101", "98765-43210", "abcdefghij"} {
		t.Run(num, func(t *testing.T) {
			in := validLead()
			in.ContactNumber = num
			_, err := v.Lead(in)
			require.Error(t, err)
			assert.Equal(t, apperr.KindValidation, apperr.KindOf(err))
			fields := apperr.FieldsOf(err)
			require.Len(t, fields, 1)
			assert.Equal(t, "whatsappNumber", fields[0].Field)
			assert.Equal(t, "Please enter a valid Indian mobile number", fields[0].Message)
		})
	}
}

func TestLead_CollectsEveryFailingField(t *testing.T) {
	v := New()
	in := domain.LeadInput{Name: "A", ContactNumber: "1", ElectricityBill: ptr(0), City: "", Category: "industrial"}

	_, err := v.Lead(in)
	require.Error(t, err)
	assert.Equal(t, []string{"name", "whatsappNumber", "electricityBill", "city", "type"}, fieldNames(err))
}

func TestLead_MissingBill(t *testing.T) {
	v := New()
	in := validLead()
	in.ElectricityBill = nil

	_, err := v.Lead(in)
	assert.Equal(t, []string{"electricityBill"}, fieldNames(err))
}

func TestLead_BlankCompanyIsAbsent(t *testing.T) {
	v := New()
	in := validLead()
	in.CompanyName = ptr("   ")

	lead, err := v.Lead(in)
	require.NoError(t, err)
	assert.Nil(t, lead.CompanyName)
}

func TestTestimonial_OptionalYoutube(t *testing.T) {
	v := New()
	in := domain.TestimonialInput{
		Name:       "Ravi",
		Role:       "Homeowner",
		Content:    "Our bill dropped by half.",
		ImageURL:   "https://cdn.example.com/ravi.jpg",
		YoutubeURL: ptr(""),
	}

	rec, err := v.Testimonial(in)
	require.NoError(t, err)
	assert.Nil(t, rec.YoutubeURL)

	in.YoutubeURL = ptr("not a url")
	_, err = v.Testimonial(in)
	assert.Equal(t, []string{"youtubeUrl"}, fieldNames(err))
}

func TestTestimonial_ShortFields(t *testing.T) {
	v := New()
	_, err := v.Testimonial(domain.TestimonialInput{Name: "R", Role: "H", Content: "short", ImageURL: "https://x.io/a.png"})
	assert.Equal(t, []string{"name", "role", "content"}, fieldNames(err))
}

func TestBlog_ContentMinimum(t *testing.T) {
	v := New()
	in := domain.BlogInput{
		Title:    "Net metering explained",
		Excerpt:  "What net metering means for you",
		Content:  strings.Repeat("x", 49),
		ImageURL: "https://cdn.example.com/net.jpg",
		Category: "Guides",
	}
	_, err := v.Blog(in)
	assert.Equal(t, []string{"content"}, fieldNames(err))

	in.Content = strings.Repeat("x", 50)
	_, err = v.Blog(in)
	assert.NoError(t, err)
}

func TestCareer_EnumAndOptionalURL(t *testing.T) {
	v := New()
	in := domain.CareerInput{
		Title:        "Sales Executive",
		Type:         "Contract",
		Location:     "Madurai",
		Description:  "Meet housing societies",
		Requirements: "Fluent Tamil and English",
		ApplyURL:     ptr(""),
	}
	_, err := v.Career(in)
	assert.Equal(t, []string{"type"}, fieldNames(err))

	in.Type = "Internship"
	c, err := v.Career(in)
	require.NoError(t, err)
	assert.Nil(t, c.ApplyURL)
	assert.Equal(t, domain.Internship, c.Type)
}

func TestApplication_RequiresResume(t *testing.T) {
	v := New()
	in := domain.ApplicationInput{
		Name:     "Meena",
		Email:    "meena@example.com",
		Phone:    "9876543210",
		CareerID: "c-1",
	}
	_, err := v.Application(in)
	require.Error(t, err)
	fields := apperr.FieldsOf(err)
	require.Len(t, fields, 1)
	assert.Equal(t, "resumeUrl", fields[0].Field)
	assert.Equal(t, "Please upload your resume", fields[0].Message)
}

func TestDecodeJSON_TypeMismatchIsFieldError(t *testing.T) {
	var in domain.LeadInput
	err := DecodeJSON(strings.NewReader(`{"name":"A","electricityBill":"lots"}`), &in)
	require.Error(t, err)
	assert.Equal(t, []string{"electricityBill"}, fieldNames(err))

	err = DecodeJSON(strings.NewReader(`{"name":`), &in)
	assert.Equal(t, []string{"body"}, fieldNames(err))
}
