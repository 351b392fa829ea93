package portfolio

import "time"

// Profile is the site owner's singleton record. The first row by id wins.
type Profile struct {
	ID               int64     `json:"id"`
	Name             string    `json:"name"`
	Role             string    `json:"role"`
	Tagline          string    `json:"tagline"`
	Mission          string    `json:"mission"`
	AboutTitle       string    `json:"about_title"`
	AboutDescription []string  `json:"about_description"`
	AboutValues      []string  `json:"about_values"`
	Email            string    `json:"email"`
	LinkedIn         string    `json:"linkedin"`
	GitHub           string    `json:"github"`
	ResumeURL        string    `json:"resume_url"`
	UpdatedAt        time.Time `json:"updated_at"`
}

// ProfileView is the nested public shape of GET /api/personal-data/.
type ProfileView struct {
	Name    string      `json:"name"`
	Role    string      `json:"role"`
	Tagline string      `json:"tagline"`
	Mission string      `json:"mission"`
	About   AboutView   `json:"about"`
	Contact ContactView `json:"contact"`
}

type AboutView struct {
	Title       string   `json:"title"`
	Description []string `json:"description"`
	Values      []string `json:"values"`
}

type ContactView struct {
	Email     string `json:"email"`
	LinkedIn  string `json:"linkedin"`
	GitHub    string `json:"github"`
	ResumeURL string `json:"resumeUrl"`
}

// View converts the stored profile to its public shape.
func (p *Profile) View() ProfileView {
	return ProfileView{
		Name:    p.Name,
		Role:    p.Role,
		Tagline: p.Tagline,
		Mission: p.Mission,
		About: AboutView{
			Title:       p.AboutTitle,
			Description: nonNil(p.AboutDescription),
			Values:      nonNil(p.AboutValues),
		},
		Contact: ContactView{
			Email:     p.Email,
			LinkedIn:  p.LinkedIn,
			GitHub:    p.GitHub,
			ResumeURL: p.ResumeURL,
		},
	}
}

// SkillCategory groups skills under a heading. Name is exposed as "category".
type SkillCategory struct {
	ID    int64    `json:"id"`
	Name  string   `json:"category"`
	Items []string `json:"items"`
}

type Experience struct {
	ID           int64    `json:"id"`
	Company      string   `json:"company"`
	Role         string   `json:"role"`
	Period       string   `json:"period"`
	Color        string   `json:"color"`
	Description  string   `json:"description"`
	Achievements []string `json:"achievements"`
}

type Project struct {
	ID          int64    `json:"id"`
	Title       string   `json:"title"`
	Category    string   `json:"category"`
	Description string   `json:"description"`
	Tech        []string `json:"tech"`
	Link        *string  `json:"link"`
}

type Achievement struct {
	ID          int64  `json:"id"`
	Metric      string `json:"metric"`
	Label       string `json:"label"`
	Description string `json:"description"`
}

// Snapshot is every piece of portfolio content read at one point in time.
type Snapshot struct {
	Profile      *Profile        `json:"profile,omitempty"`
	Skills       []SkillCategory `json:"skills"`
	Experience   []Experience    `json:"experience"`
	Projects     []Project       `json:"projects"`
	Achievements []Achievement   `json:"achievements"`
}

// Kind names one of the admin-editable collections.
type Kind string

const (
	KindSkills       Kind = "skills"
	KindExperience   Kind = "experience"
	KindProjects     Kind = "projects"
	KindAchievements Kind = "achievements"
)

func nonNil(s []string) []string {
	if s == nil {
		return []string{}
	}
	return s
}
