package repository

import (
	"context"
	"database/sql"
	"errors"

	"bloglist/internal/models"
)

// ErrDuplicateUsername is returned by UserRepo.Create when the username is taken.
var ErrDuplicateUsername = errors.New("duplicate username")

// Lookups return (nil, nil) when the row does not exist. Mutations return
// found=false for the same case.

type UserRepo interface {
	Create(ctx context.Context, u models.User) error
	GetByUsername(ctx context.Context, username string) (*models.User, error)
	GetByID(ctx context.Context, id string) (*models.User, error)
	List(ctx context.Context) ([]models.User, error)
}

type BlogRepo interface {
	// Create inserts the blog and appends it to its owner's blog list in one transaction.
	Create(ctx context.Context, b models.Blog, userID string) error
	GetByID(ctx context.Context, id string) (*models.Blog, error)
	List(ctx context.Context) ([]models.Blog, error)
	Update(ctx context.Context, b models.Blog) (bool, error)
	IncrementLikes(ctx context.Context, id string) (bool, error)
	AppendComment(ctx context.Context, id, comment string) (bool, error)
	Delete(ctx context.Context, id string) (bool, error)
}

type Resetter interface {
	Reset(ctx context.Context) error
}

type Repository struct {
	Users UserRepo
	Blogs BlogRepo
	Reset Resetter
}

func NewRepository(db *sql.DB) *Repository {
	return &Repository{
		Users: NewUserRepository(db),
		Blogs: NewBlogRepository(db),
		Reset: NewResetRepository(db),
	}
}
