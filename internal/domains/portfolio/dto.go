package portfolio

import (
	"strings"

	validation "github.com/go-ozzo/ozzo-validation/v4"
	"github.com/go-ozzo/ozzo-validation/v4/is"
)

// ProfileRequest replaces the profile fields. resume_url is managed by the upload endpoint.
type ProfileRequest struct {
	Name             string   `json:"name"`
	Role             string   `json:"role"`
	Tagline          string   `json:"tagline"`
	Mission          string   `json:"mission"`
	AboutTitle       string   `json:"about_title"`
	AboutDescription []string `json:"about_description"`
	AboutValues      []string `json:"about_values"`
	Email            string   `json:"email"`
	LinkedIn         string   `json:"linkedin"`
	GitHub           string   `json:"github"`
}

func (r ProfileRequest) Validate() error {
	return validation.ValidateStruct(&r,
		validation.Field(&r.Name, validation.Required, validation.Length(1, 100)),
		validation.Field(&r.Role, validation.Required, validation.Length(1, 100)),
		validation.Field(&r.Tagline, validation.Length(0, 200)),
		validation.Field(&r.AboutTitle, validation.Length(0, 200)),
		validation.Field(&r.Email, validation.Length(0, 254), is.EmailFormat),
		validation.Field(&r.LinkedIn, is.URL),
		validation.Field(&r.GitHub, is.URL),
	)
}

// Apply copies the request onto p, keeping id and resume_url.
func (r ProfileRequest) Apply(p *Profile) {
	p.Name = strings.TrimSpace(r.Name)
	p.Role = strings.TrimSpace(r.Role)
	p.Tagline = r.Tagline
	p.Mission = r.Mission
	p.AboutTitle = r.AboutTitle
	p.AboutDescription = nonNil(r.AboutDescription)
	p.AboutValues = nonNil(r.AboutValues)
	p.Email = strings.TrimSpace(r.Email)
	p.LinkedIn = strings.TrimSpace(r.LinkedIn)
	p.GitHub = strings.TrimSpace(r.GitHub)
}

type SkillRequest struct {
	Category string   `json:"category"`
	Items    []string `json:"items"`
}

func (r SkillRequest) Validate() error {
	return validation.ValidateStruct(&r,
		validation.Field(&r.Category, validation.Required, validation.Length(1, 100)),
	)
}

func (r SkillRequest) Model() SkillCategory {
	return SkillCategory{Name: strings.TrimSpace(r.Category), Items: nonNil(r.Items)}
}

type ExperienceRequest struct {
	Company      string   `json:"company"`
	Role         string   `json:"role"`
	Period       string   `json:"period"`
	Color        string   `json:"color"`
	Description  string   `json:"description"`
	Achievements []string `json:"achievements"`
}

func (r ExperienceRequest) Validate() error {
	return validation.ValidateStruct(&r,
		validation.Field(&r.Company, validation.Required, validation.Length(1, 100)),
		validation.Field(&r.Role, validation.Required, validation.Length(1, 100)),
		validation.Field(&r.Period, validation.Required, validation.Length(1, 50)),
		validation.Field(&r.Color, validation.Length(0, 50)),
	)
}

func (r ExperienceRequest) Model() Experience {
	return Experience{
		Company:      strings.TrimSpace(r.Company),
		Role:         strings.TrimSpace(r.Role),
		Period:       strings.TrimSpace(r.Period),
		Color:        r.Color,
		Description:  r.Description,
		Achievements: nonNil(r.Achievements),
	}
}

type ProjectRequest struct {
	Title       string   `json:"title"`
	Category    string   `json:"category"`
	Description string   `json:"description"`
	Tech        []string `json:"tech"`
	Link        *string  `json:"link"`
}

func (r ProjectRequest) Validate() error {
	return validation.ValidateStruct(&r,
		validation.Field(&r.Title, validation.Required, validation.Length(1, 100)),
		validation.Field(&r.Category, validation.Required, validation.Length(1, 50)),
		validation.Field(&r.Link, validation.NilOrNotEmpty, is.URL),
	)
}

func (r ProjectRequest) Model() Project {
	return Project{
		Title:       strings.TrimSpace(r.Title),
		Category:    strings.TrimSpace(r.Category),
		Description: r.Description,
		Tech:        nonNil(r.Tech),
		Link:        r.Link,
	}
}

type AchievementRequest struct {
	Metric      string `json:"metric"`
	Label       string `json:"label"`
	Description string `json:"description"`
}

func (r AchievementRequest) Validate() error {
	return validation.ValidateStruct(&r,
		validation.Field(&r.Metric, validation.Required, validation.Length(1, 50)),
		validation.Field(&r.Label, validation.Required, validation.Length(1, 100)),
	)
}

func (r AchievementRequest) Model() Achievement {
	return Achievement{
		Metric:      strings.TrimSpace(r.Metric),
		Label:       strings.TrimSpace(r.Label),
		Description: r.Description,
	}
}
