package service

import (
	"context"
	"strings"

	"bloglist/internal/apperror"
	"bloglist/internal/models"
	"bloglist/internal/repository"

	"github.com/google/uuid"
)

const msgDeleteNotOwner = "only the user who created the blog can delete it"

var (
	errTitleURLRequired = apperror.NewValidation("title and url are required", nil)
	errNegativeLikes    = apperror.NewValidation("likes must not be negative", nil)
	errCommentRequired  = apperror.NewValidation("comment is required", nil)
	errBlogNotFound     = apperror.NewNotFound("blog not found")
)

// BlogInput is the create payload. Likes defaults to 0 when nil.
type BlogInput struct {
	Title  string
	Author string
	URL    string
	Likes  *int
}

// BlogUpdate replaces only the fields that are set.
type BlogUpdate struct {
	Title  *string
	Author *string
	URL    *string
	Likes  *int
}

type BlogService struct {
	blogs repository.BlogRepo
}

func NewBlogService(blogs repository.BlogRepo) *BlogService {
	return &BlogService{blogs: blogs}
}

func (s *BlogService) List(ctx context.Context) ([]models.Blog, error) {
	return s.blogs.List(ctx)
}

func (s *BlogService) Get(ctx context.Context, id string) (*models.Blog, error) {
	b, err := s.blogs.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if b == nil {
		return nil, errBlogNotFound
	}
	return b, nil
}

// Create validates before anything is written, then persists the blog and
// its place in the actor's list atomically.
func (s *BlogService) Create(ctx context.Context, actor *models.User, in BlogInput) (*models.Blog, error) {
	if actor == nil {
		return nil, apperror.ErrTokenMissing
	}
	if strings.TrimSpace(in.Title) == "" || strings.TrimSpace(in.URL) == "" {
		return nil, errTitleURLRequired
	}
	likes := 0
	if in.Likes != nil {
		likes = *in.Likes
	}
	if likes < 0 {
		return nil, errNegativeLikes
	}

	b := models.Blog{
		ID:       uuid.NewString(),
		Title:    in.Title,
		Author:   in.Author,
		URL:      in.URL,
		Likes:    likes,
		Comments: []string{},
	}
	if err := s.blogs.Create(ctx, b, actor.ID); err != nil {
		return nil, err
	}
	b.User = &models.UserRef{ID: actor.ID, Username: actor.Username, Name: actor.Name}
	return &b, nil
}

// Update has no ownership check; any authenticated caller may edit.
func (s *BlogService) Update(ctx context.Context, id string, in BlogUpdate) (*models.Blog, error) {
	if in.Likes != nil && *in.Likes < 0 {
		return nil, errNegativeLikes
	}
	b, err := s.Get(ctx, id)
	if err != nil {
		return nil, err
	}

	if in.Title != nil {
		b.Title = *in.Title
	}
	if in.Author != nil {
		b.Author = *in.Author
	}
	if in.URL != nil {
		b.URL = *in.URL
	}
	if in.Likes != nil {
		b.Likes = *in.Likes
	}
	if strings.TrimSpace(b.Title) == "" || strings.TrimSpace(b.URL) == "" {
		return nil, errTitleURLRequired
	}

	found, err := s.blogs.Update(ctx, *b)
	if err != nil {
		return nil, err
	}
	if !found {
		return nil, errBlogNotFound
	}
	return b, nil
}

// Like adds exactly one like, whoever asks.
func (s *BlogService) Like(ctx context.Context, id string) (*models.Blog, error) {
	found, err := s.blogs.IncrementLikes(ctx, id)
	if err != nil {
		return nil, err
	}
	if !found {
		return nil, errBlogNotFound
	}
	return s.Get(ctx, id)
}

func (s *BlogService) Comment(ctx context.Context, id, comment string) (*models.Blog, error) {
	if strings.TrimSpace(comment) == "" {
		return nil, errCommentRequired
	}
	found, err := s.blogs.AppendComment(ctx, id, comment)
	if err != nil {
		return nil, err
	}
	if !found {
		return nil, errBlogNotFound
	}
	return s.Get(ctx, id)
}

// Delete removes the blog only when actor owns it. The ownership check always
// runs before the delete statement.
func (s *BlogService) Delete(ctx context.Context, actor *models.User, id string) error {
	if actor == nil {
		return apperror.ErrTokenMissing
	}
	b, err := s.Get(ctx, id)
	if err != nil {
		return err
	}
	if !CanDelete(b, actor) {
		return apperror.NewForbidden(msgDeleteNotOwner)
	}

	found, err := s.blogs.Delete(ctx, id)
	if err != nil {
		return err
	}
	if !found {
		return errBlogNotFound
	}
	return nil
}
