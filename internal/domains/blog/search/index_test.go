package search

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"portfolio-backend/internal/domains/blog"
)

func post(id int64, title, content, status string, tags ...string) blog.BlogPost {
	return blog.BlogPost{ID: id, Title: title, Content: content, Status: status, Tags: tags}
}

func TestIndex_SearchPublishedOnly(t *testing.T) {
	idx, err := NewMemOnly()
	require.NoError(t, err)
	defer idx.Close()

	p1 := post(1, "Scaling microservices with Docker", "<p>containers and orchestration</p>", blog.StatusPublished, "docker")
	p2 := post(2, "Notes on Postgres indexing", "<p>btree and gin indexes</p>", blog.StatusPublished, "postgres")
	p3 := post(3, "Docker draft", "<p>unfinished</p>", blog.StatusDraft)

	require.NoError(t, idx.IndexPost(&p1))
	require.NoError(t, idx.IndexPost(&p2))
	require.NoError(t, idx.IndexPost(&p3))

	ids, err := idx.Search("docker", 10)
	require.NoError(t, err)
	assert.Equal(t, []int64{1}, ids)

	ids, err = idx.Search("indexes", 10)
	require.NoError(t, err)
	assert.Equal(t, []int64{2}, ids)

	ids, err = idx.Search("   ", 10)
	require.NoError(t, err)
	assert.Empty(t, ids)
}

func TestIndex_UnpublishRemoves(t *testing.T) {
	idx, err := NewMemOnly()
	require.NoError(t, err)
	defer idx.Close()

	p := post(5, "Go concurrency patterns", "channels", blog.StatusPublished)
	require.NoError(t, idx.IndexPost(&p))

	p.Status = blog.StatusDraft
	require.NoError(t, idx.IndexPost(&p))

	ids, err := idx.Search("concurrency", 10)
	require.NoError(t, err)
	assert.Empty(t, ids)
}

func TestIndex_Rebuild(t *testing.T) {
	idx, err := NewMemOnly()
	require.NoError(t, err)
	defer idx.Close()

	stale := post(9, "Stale post", "old", blog.StatusPublished)
	require.NoError(t, idx.IndexPost(&stale))

	require.NoError(t, idx.Rebuild([]blog.BlogPost{
		post(1, "First", "alpha", blog.StatusPublished),
		post(2, "Second", "beta", blog.StatusPublished),
		post(3, "Third", "gamma", blog.StatusDraft),
	}))

	count, err := idx.Count()
	require.NoError(t, err)
	assert.Equal(t, uint64(2), count)

	ids, err := idx.Search("stale", 10)
	require.NoError(t, err)
	assert.Empty(t, ids)
}
