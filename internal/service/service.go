package service

import (
	"context"

	"bloglist/internal/models"
	"bloglist/internal/repository"
)

// Authorization covers registration, login and resolving a bearer token to a user.
type Authorization interface {
	Register(ctx context.Context, in RegisterInput) (*models.User, error)
	Login(ctx context.Context, username, password string) (models.LoginResult, error)
	ResolveUser(ctx context.Context, token string) (*models.User, error)
}

// Blogs exposes blog reads and mutations. Only Create and Delete take an actor;
// updates, likes and comments are deliberately not ownership-checked.
type Blogs interface {
	List(ctx context.Context) ([]models.Blog, error)
	Get(ctx context.Context, id string) (*models.Blog, error)
	Create(ctx context.Context, actor *models.User, in BlogInput) (*models.Blog, error)
	Update(ctx context.Context, id string, in BlogUpdate) (*models.Blog, error)
	Like(ctx context.Context, id string) (*models.Blog, error)
	Comment(ctx context.Context, id, comment string) (*models.Blog, error)
	Delete(ctx context.Context, actor *models.User, id string) error
}

// Users is the read-only user directory.
type Users interface {
	List(ctx context.Context) ([]models.User, error)
	Get(ctx context.Context, id string) (*models.User, error)
}

// Maintenance holds test-environment operations.
type Maintenance interface {
	Reset(ctx context.Context) error
}

// Service aggregates all sub-services. Call them through the named field;
// Blogs and Users share method names.
type Service struct {
	Authorization
	Blogs
	Users
	Maintenance
}

type Options struct {
	Secret     string
	BcryptCost int
}

// NewService wires the repository layer into concrete services.
func NewService(repos *repository.Repository, opts Options) (*Service, error) {
	hasher := NewBcryptHasher(opts.BcryptCost)
	auth, err := NewAuthService(repos.Users, hasher, NewTokenManager(opts.Secret))
	if err != nil {
		return nil, err
	}
	return &Service{
		Authorization: auth,
		Blogs:         NewBlogService(repos.Blogs),
		Users:         NewUserService(repos.Users),
		Maintenance:   NewMaintenanceService(repos.Reset),
	}, nil
}
