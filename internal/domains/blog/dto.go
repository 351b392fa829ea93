package blog

import (
	"regexp"
	"strings"

	validation "github.com/go-ozzo/ozzo-validation/v4"
)

var slugPattern = regexp.MustCompile(`^[a-z0-9]+(?:-[a-z0-9]+)*$`)

// CreatePostRequest is the admin payload for a new post.
type CreatePostRequest struct {
	Title           string   `json:"title"`
	Slug            string   `json:"slug"`
	Excerpt         string   `json:"excerpt"`
	Content         string   `json:"content"`
	Author          string   `json:"author"`
	Tags            []string `json:"tags"`
	Category        string   `json:"category"`
	Status          string   `json:"status"`
	ReadTime        int      `json:"read_time"`
	MetaDescription string   `json:"meta_description"`
	MetaKeywords    string   `json:"meta_keywords"`
}

func (r CreatePostRequest) Validate() error {
	return validation.ValidateStruct(&r,
		validation.Field(&r.Title, validation.Required, validation.Length(1, 200)),
		validation.Field(&r.Slug, validation.Length(0, 200), validation.Match(slugPattern)),
		validation.Field(&r.Excerpt, validation.Required),
		validation.Field(&r.Content, validation.Required),
		validation.Field(&r.Author, validation.Length(0, 100)),
		validation.Field(&r.Category, validation.Length(0, 50)),
		validation.Field(&r.Status, validation.In(StatusDraft, StatusPublished)),
		validation.Field(&r.ReadTime, validation.Min(0)),
		validation.Field(&r.MetaDescription, validation.Length(0, MetaDescriptionMax)),
		validation.Field(&r.MetaKeywords, validation.Length(0, 255)),
	)
}

// Normalize trims input and fills defaults.
func (r *CreatePostRequest) Normalize() {
	r.Title = strings.TrimSpace(r.Title)
	r.Slug = strings.TrimSpace(strings.ToLower(r.Slug))
	r.Category = strings.TrimSpace(r.Category)
	r.Author = strings.TrimSpace(r.Author)
	r.Tags = cleanTags(r.Tags)
	if r.Status == "" {
		r.Status = StatusDraft
	}
}

// UpdatePostRequest is a partial update; nil fields are left unchanged.
type UpdatePostRequest struct {
	Title           *string   `json:"title"`
	Slug            *string   `json:"slug"`
	Excerpt         *string   `json:"excerpt"`
	Content         *string   `json:"content"`
	Author          *string   `json:"author"`
	Tags            *[]string `json:"tags"`
	Category        *string   `json:"category"`
	Status          *string   `json:"status"`
	ReadTime        *int      `json:"read_time"`
	MetaDescription *string   `json:"meta_description"`
	MetaKeywords    *string   `json:"meta_keywords"`
}

func (r UpdatePostRequest) Validate() error {
	return validation.ValidateStruct(&r,
		validation.Field(&r.Title, validation.NilOrNotEmpty, validation.Length(1, 200)),
		validation.Field(&r.Slug, validation.NilOrNotEmpty, validation.Length(1, 200), validation.Match(slugPattern)),
		validation.Field(&r.Excerpt, validation.NilOrNotEmpty),
		validation.Field(&r.Content, validation.NilOrNotEmpty),
		validation.Field(&r.Author, validation.Length(0, 100)),
		validation.Field(&r.Category, validation.Length(0, 50)),
		validation.Field(&r.Status, validation.In(StatusDraft, StatusPublished)),
		validation.Field(&r.ReadTime, validation.Min(0)),
		validation.Field(&r.MetaDescription, validation.Length(0, MetaDescriptionMax)),
		validation.Field(&r.MetaKeywords, validation.Length(0, 255)),
	)
}

// Apply copies the set fields onto p.
func (r UpdatePostRequest) Apply(p *BlogPost) {
	if r.Title != nil {
		p.Title = strings.TrimSpace(*r.Title)
	}
	if r.Slug != nil {
		p.Slug = strings.TrimSpace(strings.ToLower(*r.Slug))
	}
	if r.Excerpt != nil {
		p.Excerpt = *r.Excerpt
	}
	if r.Content != nil {
		p.Content = *r.Content
	}
	if r.Author != nil {
		p.Author = strings.TrimSpace(*r.Author)
	}
	if r.Tags != nil {
		p.Tags = cleanTags(*r.Tags)
	}
	if r.Category != nil {
		p.Category = strings.TrimSpace(*r.Category)
	}
	if r.Status != nil {
		p.Status = *r.Status
	}
	if r.ReadTime != nil {
		p.ReadTime = *r.ReadTime
	}
	if r.MetaDescription != nil {
		p.MetaDescription = *r.MetaDescription
	}
	if r.MetaKeywords != nil {
		p.MetaKeywords = *r.MetaKeywords
	}
}

// BatchRequest selects posts for publish / unpublish.
type BatchRequest struct {
	IDs []int64 `json:"ids"`
}

func (r BatchRequest) Validate() error {
	return validation.ValidateStruct(&r,
		validation.Field(&r.IDs, validation.Required, validation.Length(1, 500)),
	)
}

// ListFilter drives the admin listing.
type ListFilter struct {
	Status string `form:"status"`
	Page   int    `form:"page"`
	Limit  int    `form:"limit"`
}

func (f ListFilter) Validate() error {
	return validation.ValidateStruct(&f,
		validation.Field(&f.Status, validation.In(StatusDraft, StatusPublished)),
		validation.Field(&f.Page, validation.Min(0)),
		validation.Field(&f.Limit, validation.Min(0), validation.Max(100)),
	)
}

// Normalize applies page defaults.
func (f *ListFilter) Normalize() {
	if f.Page < 1 {
		f.Page = 1
	}
	if f.Limit < 1 {
		f.Limit = 20
	}
}

func (f ListFilter) Offset() int {
	return (f.Page - 1) * f.Limit
}

func cleanTags(tags []string) []string {
	out := make([]string, 0, len(tags))
	seen := make(map[string]struct{}, len(tags))
	for _, t := range tags {
		t = strings.TrimSpace(t)
		if t == "" {
			continue
		}
		if _, ok := seen[t]; ok {
			continue
		}
		seen[t] = struct{}{}
		out = append(out, t)
	}
	return out
}
