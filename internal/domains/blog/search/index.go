package search

import (
	"errors"
	"fmt"
	"strconv"
	"strings"

	"github.com/blevesearch/bleve/v2"
	"github.com/blevesearch/bleve/v2/mapping"

	"portfolio-backend/internal/domains/blog"
)

// Index wraps a Bleve index of published posts.
type Index struct {
	index bleve.Index
}

// indexedPost is the document stored per post.
type indexedPost struct {
	Title    string   `json:"title"`
	Excerpt  string   `json:"excerpt"`
	Content  string   `json:"content"`
	Tags     []string `json:"tags"`
	Category string   `json:"category"`
	Author   string   `json:"author"`
}

// Open opens or creates an on-disk index at path.
func Open(path string) (*Index, error) {
	idx, err := bleve.Open(path)
	if errors.Is(err, bleve.ErrorIndexPathDoesNotExist) {
		idx, err = bleve.New(path, buildIndexMapping())
		if err != nil {
			return nil, fmt.Errorf("create index: %w", err)
		}
	} else if err != nil {
		return nil, fmt.Errorf("open index: %w", err)
	}
	return &Index{index: idx}, nil
}

// NewMemOnly creates a volatile index; used when no path is configured and in tests.
func NewMemOnly() (*Index, error) {
	idx, err := bleve.NewMemOnly(buildIndexMapping())
	if err != nil {
		return nil, fmt.Errorf("create memory index: %w", err)
	}
	return &Index{index: idx}, nil
}

func buildIndexMapping() mapping.IndexMapping {
	english := bleve.NewTextFieldMapping()
	english.Analyzer = "en"

	keyword := bleve.NewTextFieldMapping()
	keyword.Analyzer = "keyword"

	doc := bleve.NewDocumentMapping()
	doc.AddFieldMappingsAt("title", english)
	doc.AddFieldMappingsAt("excerpt", english)
	doc.AddFieldMappingsAt("content", english)
	doc.AddFieldMappingsAt("tags", english)
	doc.AddFieldMappingsAt("category", keyword)
	doc.AddFieldMappingsAt("author", bleve.NewTextFieldMapping())

	m := bleve.NewIndexMapping()
	m.DefaultMapping = doc
	m.DefaultAnalyzer = "en"
	return m
}

func docID(id int64) string {
	return strconv.FormatInt(id, 10)
}

func toDocument(p *blog.BlogPost) indexedPost {
	return indexedPost{
		Title:    p.Title,
		Excerpt:  p.Excerpt,
		Content:  blog.StripHTML(p.Content),
		Tags:     p.Tags,
		Category: p.Category,
		Author:   p.Author,
	}
}

// IndexPost adds or replaces a published post. Drafts are removed instead.
func (i *Index) IndexPost(p *blog.BlogPost) error {
	if !p.IsPublished() {
		return i.Remove(p.ID)
	}
	return i.index.Index(docID(p.ID), toDocument(p))
}

func (i *Index) Remove(id int64) error {
	return i.index.Delete(docID(id))
}

// Rebuild replaces the index content with posts.
func (i *Index) Rebuild(posts []blog.BlogPost) error {
	existing, err := i.allIDs()
	if err != nil {
		return err
	}

	batch := i.index.NewBatch()
	for _, id := range existing {
		batch.Delete(id)
	}
	for k := range posts {
		p := &posts[k]
		if !p.IsPublished() {
			continue
		}
		if err := batch.Index(docID(p.ID), toDocument(p)); err != nil {
			return fmt.Errorf("batch index %d: %w", p.ID, err)
		}
	}
	if err := i.index.Batch(batch); err != nil {
		return fmt.Errorf("commit batch: %w", err)
	}
	return nil
}

func (i *Index) allIDs() ([]string, error) {
	count, err := i.index.DocCount()
	if err != nil {
		return nil, err
	}
	if count == 0 {
		return nil, nil
	}
	req := bleve.NewSearchRequestOptions(bleve.NewMatchAllQuery(), int(count), 0, false)
	res, err := i.index.Search(req)
	if err != nil {
		return nil, fmt.Errorf("list indexed docs: %w", err)
	}
	ids := make([]string, 0, len(res.Hits))
	for _, hit := range res.Hits {
		ids = append(ids, hit.ID)
	}
	return ids, nil
}

// Search runs a query-string query (quotes, +/-, field:value) and returns post ids.
func (i *Index) Search(queryStr string, limit int) ([]int64, error) {
	queryStr = strings.TrimSpace(queryStr)
	if queryStr == "" {
		return []int64{}, nil
	}

	req := bleve.NewSearchRequestOptions(bleve.NewQueryStringQuery(queryStr), limit, 0, false)
	res, err := i.index.Search(req)
	if err != nil {
		return nil, fmt.Errorf("search: %w", err)
	}

	ids := make([]int64, 0, len(res.Hits))
	for _, hit := range res.Hits {
		id, err := strconv.ParseInt(hit.ID, 10, 64)
		if err != nil {
			continue
		}
		ids = append(ids, id)
	}
	return ids, nil
}

func (i *Index) Count() (uint64, error) {
	return i.index.DocCount()
}

func (i *Index) Close() error {
	return i.index.Close()
}
