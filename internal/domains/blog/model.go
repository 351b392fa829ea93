package blog

import (
	"fmt"
	"html"
	"regexp"
	"strings"
	"time"
	"unicode/utf8"
)

// Post statuses
const (
	StatusDraft     = "draft"
	StatusPublished = "published"
)

const (
	wordsPerMinute     = 200
	MetaDescriptionMax = 160
	MaxSlugLength      = 200

	// room kept for a "-N" suffix when matching taken slugs
	slugSuffixReserve = 8
)

// BlogPost is a full post, as returned by the detail endpoints.
type BlogPost struct {
	ID              int64      `json:"id"`
	Title           string     `json:"title"`
	Slug            string     `json:"slug"`
	Excerpt         string     `json:"excerpt"`
	Content         string     `json:"content"`
	FeaturedImage   *string    `json:"featured_image_url"`
	Author          string     `json:"author"`
	Tags            []string   `json:"tags"`
	Category        string     `json:"category"`
	Status          string     `json:"status"`
	ReadTime        int        `json:"read_time"`
	Views           int64      `json:"views"`
	MetaDescription string     `json:"meta_description"`
	MetaKeywords    string     `json:"meta_keywords"`
	CreatedAt       time.Time  `json:"created_at"`
	UpdatedAt       time.Time  `json:"updated_at"`
	PublishedAt     *time.Time `json:"published_at"`
}

// BlogPostSummary is the list representation (no content).
type BlogPostSummary struct {
	ID            int64      `json:"id"`
	Title         string     `json:"title"`
	Slug          string     `json:"slug"`
	Excerpt       string     `json:"excerpt"`
	FeaturedImage *string    `json:"featured_image_url"`
	Author        string     `json:"author"`
	Category      string     `json:"category"`
	Tags          []string   `json:"tags"`
	Status        string     `json:"status"`
	ReadTime      int        `json:"read_time"`
	Views         int64      `json:"views"`
	CreatedAt     time.Time  `json:"created_at"`
	PublishedAt   *time.Time `json:"published_at"`
}

func (p *BlogPost) IsPublished() bool {
	return p.Status == StatusPublished
}

// Summary drops the content.
func (p *BlogPost) Summary() BlogPostSummary {
	return BlogPostSummary{
		ID:            p.ID,
		Title:         p.Title,
		Slug:          p.Slug,
		Excerpt:       p.Excerpt,
		FeaturedImage: p.FeaturedImage,
		Author:        p.Author,
		Category:      p.Category,
		Tags:          p.Tags,
		Status:        p.Status,
		ReadTime:      p.ReadTime,
		Views:         p.Views,
		CreatedAt:     p.CreatedAt,
		PublishedAt:   p.PublishedAt,
	}
}

// ========================================
// DERIVED FIELDS
// ========================================

var htmlTags = regexp.MustCompile(`<[^>]*>`)

// StripHTML removes markup and unescapes entities.
func StripHTML(s string) string {
	return html.UnescapeString(htmlTags.ReplaceAllString(s, " "))
}

// EstimateReadTime returns minutes at 200 words per minute, at least 1.
func EstimateReadTime(content string) int {
	words := len(strings.Fields(StripHTML(content)))
	minutes := (words + wordsPerMinute - 1) / wordsPerMinute
	if minutes < 1 {
		return 1
	}
	return minutes
}

// DeriveMetaDescription takes the first 160 characters of the excerpt.
func DeriveMetaDescription(excerpt string) string {
	text := strings.Join(strings.Fields(StripHTML(excerpt)), " ")
	if utf8.RuneCountInString(text) <= MetaDescriptionMax {
		return text
	}
	return string([]rune(text)[:MetaDescriptionMax])
}

// NextSlug returns base, or base-N with the lowest N >= 2 not in taken.
// Slugs are cut to MaxSlugLength, trimming base to make room for the suffix.
func NextSlug(base string, taken []string) string {
	used := make(map[string]struct{}, len(taken))
	for _, s := range taken {
		used[s] = struct{}{}
	}
	base = truncateSlug(base, MaxSlugLength)
	if _, ok := used[base]; !ok {
		return base
	}
	for n := 2; ; n++ {
		suffix := fmt.Sprintf("-%d", n)
		candidate := truncateSlug(base, MaxSlugLength-len(suffix)) + suffix
		if _, ok := used[candidate]; !ok {
			return candidate
		}
	}
}

// SlugStem is the prefix shared by base and every candidate NextSlug can produce.
func SlugStem(base string) string {
	return truncateSlug(base, MaxSlugLength-slugSuffixReserve)
}

// slugs are ASCII, so byte slicing is safe
func truncateSlug(s string, max int) string {
	if len(s) <= max {
		return s
	}
	return strings.TrimRight(s[:max], "-")
}
