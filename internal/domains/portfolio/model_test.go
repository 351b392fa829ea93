package portfolio

import (
	"testing"

	validation "github.com/go-ozzo/ozzo-validation/v4"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestProfileView_NilSlices(t *testing.T) {
	p := &Profile{Name: "Jane", GitHub: "https://github.com/jane"}
	v := p.View()

	assert.Equal(t, []string{}, v.About.Description)
	assert.Equal(t, []string{}, v.About.Values)
	assert.Equal(t, "https://github.com/jane", v.Contact.GitHub)
}

func TestProfileRequest_ApplyKeepsResume(t *testing.T) {
	p := &Profile{ID: 2, ResumeURL: "https://cdn/cv.pdf"}
	ProfileRequest{Name: "  Jane ", Role: "Eng"}.Apply(p)

	assert.Equal(t, int64(2), p.ID)
	assert.Equal(t, "Jane", p.Name)
	assert.Equal(t, "https://cdn/cv.pdf", p.ResumeURL)
	assert.NotNil(t, p.AboutValues)
}

func TestExperienceRequest_Validate(t *testing.T) {
	err := ExperienceRequest{Company: "Acme"}.Validate()

	var verrs validation.Errors
	require.ErrorAs(t, err, &verrs)
	assert.Contains(t, verrs, "role")
	assert.Contains(t, verrs, "period")
	assert.NotContains(t, verrs, "company")
}

func TestAchievementRequest_Model(t *testing.T) {
	m := AchievementRequest{Metric: " 40% ", Label: "Faster builds"}.Model()
	assert.Equal(t, "40%", m.Metric)
}
