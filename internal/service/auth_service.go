package service

import (
	"context"
	"errors"
	"fmt"
	"unicode/utf8"

	"bloglist/internal/apperror"
	"bloglist/internal/models"
	"bloglist/internal/repository"

	"github.com/google/uuid"
)

const minCredentialLength = 3

var (
	errShortCredentials = apperror.NewValidation("username and password must be at least 3 characters", nil)
	errDuplicateUser    = apperror.NewValidation("username must be unique", nil)
)

// RegisterInput is the sign-up payload. Password is never stored or logged.
type RegisterInput struct {
	Username string
	Name     string
	Password string
}

// AuthService handles user auth logic.
type AuthService struct {
	users  repository.UserRepo
	hasher PasswordHasher
	tokens *TokenManager

	// dummyHash is verified against when the username is unknown so both
	// login failure paths cost one bcrypt comparison.
	dummyHash string
}

func NewAuthService(users repository.UserRepo, hasher PasswordHasher, tokens *TokenManager) (*AuthService, error) {
	dummy, err := hasher.Hash(uuid.NewString())
	if err != nil {
		return nil, fmt.Errorf("prepare dummy hash: %w", err)
	}
	return &AuthService{users: users, hasher: hasher, tokens: tokens, dummyHash: dummy}, nil
}

// Register validates lengths before hashing and creates the user.
func (s *AuthService) Register(ctx context.Context, in RegisterInput) (*models.User, error) {
	if utf8.RuneCountInString(in.Username) < minCredentialLength ||
		utf8.RuneCountInString(in.Password) < minCredentialLength {
		return nil, errShortCredentials
	}

	hash, err := s.hasher.Hash(in.Password)
	if err != nil {
		return nil, err
	}

	u := models.User{
		ID:           uuid.NewString(),
		Username:     in.Username,
		Name:         in.Name,
		PasswordHash: hash,
		Blogs:        []models.BlogRef{},
	}
	if err := s.users.Create(ctx, u); err != nil {
		if errors.Is(err, repository.ErrDuplicateUsername) {
			return nil, errDuplicateUser
		}
		return nil, err
	}
	return &u, nil
}

// Login checks the credentials and issues a token for {username, id}.
// Unknown user and wrong password return the same error value.
func (s *AuthService) Login(ctx context.Context, username, password string) (models.LoginResult, error) {
	u, err := s.users.GetByUsername(ctx, username)
	if err != nil {
		return models.LoginResult{}, err
	}
	if u == nil {
		_ = s.hasher.Verify(s.dummyHash, password)
		return models.LoginResult{}, apperror.ErrInvalidCredentials
	}
	if !s.hasher.Verify(u.PasswordHash, password) {
		return models.LoginResult{}, apperror.ErrInvalidCredentials
	}

	token, err := s.tokens.Issue(TokenClaims{Username: u.Username, ID: u.ID})
	if err != nil {
		return models.LoginResult{}, err
	}
	return models.LoginResult{Token: token, Username: u.Username, Name: u.Name}, nil
}

// ResolveUser turns a bearer token into the persisted user it names.
// A validly signed token without an id claim is rejected.
func (s *AuthService) ResolveUser(ctx context.Context, token string) (*models.User, error) {
	claims, err := s.tokens.Parse(token)
	if err != nil {
		return nil, err
	}
	if claims.ID == "" {
		return nil, apperror.New(apperror.UserNotFound, "token carries no user id", nil)
	}

	u, err := s.users.GetByID(ctx, claims.ID)
	if err != nil {
		return nil, err
	}
	if u == nil {
		return nil, apperror.ErrUserNotFound
	}
	return u, nil
}
