package main

import (
	"context"
	_ "embed"
	"encoding/json"
	"errors"
	"fmt"
	"io"

	"github.com/spf13/cobra"

	"portfolio-backend/internal/domains/blog"
	blogRepo "portfolio-backend/internal/domains/blog/repository"
	"portfolio-backend/internal/domains/blog/search"
	blogService "portfolio-backend/internal/domains/blog/service"
	"portfolio-backend/internal/shared/utils"
)

//go:embed seed_posts.json
var seedPostsJSON []byte

func seedPosts() ([]blog.CreatePostRequest, error) {
	var posts []blog.CreatePostRequest
	if err := json.Unmarshal(seedPostsJSON, &posts); err != nil {
		return nil, fmt.Errorf("decode seed posts: %w", err)
	}
	for i := range posts {
		posts[i].Slug = utils.GenerateSlug(posts[i].Title)
	}
	return posts, nil
}

func newSeedBlogCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "seed-blog",
		Short: "Insert sample published blog posts",
		Long: `seed-blog inserts a fixed set of sample posts. Posts whose slug already
exists are skipped, so the command can run repeatedly. The API rebuilds its
search index on startup and picks the new posts up then.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := loadConfig()
			if err != nil {
				return err
			}

			db, err := connectDB(cmd.Context(), cfg)
			if err != nil {
				return err
			}
			defer db.Close()

			index, err := search.NewMemOnly()
			if err != nil {
				return err
			}
			defer index.Close()

			svc := blogService.NewBlogService(blogRepo.NewPostgresRepository(db.Pool), index, nil, nil)
			return seed(cmd, svc)
		},
	}
}

type postCreator interface {
	Create(ctx context.Context, req blog.CreatePostRequest) (*blog.BlogPost, error)
}

func seed(cmd *cobra.Command, svc postCreator) error {
	posts, err := seedPosts()
	if err != nil {
		return err
	}

	out := cmd.OutOrStdout()
	created := 0
	for _, req := range posts {
		post, err := svc.Create(cmd.Context(), req)
		switch {
		case errors.Is(err, blog.ErrSlugConflict):
			printf(out, "- already exists: %s\n", req.Title)
		case err != nil:
			return fmt.Errorf("seed %q: %w", req.Title, err)
		default:
			created++
			printf(out, "created: %s (/%s)\n", post.Title, post.Slug)
		}
	}

	printf(out, "%d new blog post(s) created\n", created)
	return nil
}

func printf(w io.Writer, format string, args ...any) {
	_, _ = fmt.Fprintf(w, format, args...)
}
