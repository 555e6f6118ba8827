package repository

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"

	"bloglist/internal/models"

	"modernc.org/sqlite"
	sqlite3 "modernc.org/sqlite/lib"
)

type UserRepository struct {
	db *sql.DB
}

func NewUserRepository(db *sql.DB) *UserRepository {
	return &UserRepository{db: db}
}

// Ensure implementation of UserRepo interface at compile time.
var _ UserRepo = (*UserRepository)(nil)

const (
	insertUserSQL           = `INSERT INTO users (id, username, name, password_hash) VALUES (?, ?, ?, ?)`
	selectUserByUsernameSQL = `SELECT id, username, name, password_hash FROM users WHERE username = ?`
	selectUserByIDSQL       = `SELECT id, username, name, password_hash FROM users WHERE id = ?`
	selectUsersSQL          = `SELECT id, username, name, password_hash FROM users ORDER BY rowid`

	selectUserBlogsSQL = `
		SELECT ub.user_id, b.id, b.title, b.author, b.url, b.likes
		FROM user_blogs ub JOIN blogs b ON b.id = ub.blog_id
		ORDER BY ub.position`
	selectUserBlogsByUserSQL = `
		SELECT ub.user_id, b.id, b.title, b.author, b.url, b.likes
		FROM user_blogs ub JOIN blogs b ON b.id = ub.blog_id
		WHERE ub.user_id = ?
		ORDER BY ub.position`
)

// isUniqueViolation recognizes UNIQUE constraint failures from the sqlite driver.
func isUniqueViolation(err error) bool {
	var se *sqlite.Error
	if errors.As(err, &se) && se.Code() == sqlite3.SQLITE_CONSTRAINT_UNIQUE {
		return true
	}
	return strings.Contains(err.Error(), "UNIQUE constraint failed")
}

// Create inserts a new user. The caller assigns ID and PasswordHash.
func (r *UserRepository) Create(ctx context.Context, u models.User) error {
	_, err := r.db.ExecContext(ctx, insertUserSQL, u.ID, u.Username, u.Name, u.PasswordHash)
	if err != nil {
		if isUniqueViolation(err) {
			return fmt.Errorf("insert user %q: %w", u.Username, ErrDuplicateUsername)
		}
		return fmt.Errorf("insert user %q: %w", u.Username, err)
	}
	return nil
}

// GetByUsername fetches a user by username without its blog list. Returns (nil, nil) if not found.
func (r *UserRepository) GetByUsername(ctx context.Context, username string) (*models.User, error) {
	u, err := scanUser(r.db.QueryRowContext(ctx, selectUserByUsernameSQL, username))
	if err != nil {
		return nil, fmt.Errorf("select user %q: %w", username, err)
	}
	return u, nil
}

// GetByID fetches a user with its blogs populated. Returns (nil, nil) if not found.
func (r *UserRepository) GetByID(ctx context.Context, id string) (*models.User, error) {
	u, err := scanUser(r.db.QueryRowContext(ctx, selectUserByIDSQL, id))
	if err != nil {
		return nil, fmt.Errorf("select user id %q: %w", id, err)
	}
	if u == nil {
		return nil, nil
	}

	refs, err := r.blogRefs(ctx, selectUserBlogsByUserSQL, id)
	if err != nil {
		return nil, err
	}
	u.Blogs = refs[id]
	if u.Blogs == nil {
		u.Blogs = []models.BlogRef{}
	}
	return u, nil
}

// List returns all users in registration order with blogs populated.
func (r *UserRepository) List(ctx context.Context) ([]models.User, error) {
	rows, err := r.db.QueryContext(ctx, selectUsersSQL)
	if err != nil {
		return nil, fmt.Errorf("select users: %w", err)
	}
	defer rows.Close()

	out := make([]models.User, 0, 16)
	for rows.Next() {
		var u models.User
		if err := rows.Scan(&u.ID, &u.Username, &u.Name, &u.PasswordHash); err != nil {
			return nil, fmt.Errorf("scan user: %w", err)
		}
		out = append(out, u)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate users: %w", err)
	}

	refs, err := r.blogRefs(ctx, selectUserBlogsSQL)
	if err != nil {
		return nil, err
	}
	for i := range out {
		out[i].Blogs = refs[out[i].ID]
		if out[i].Blogs == nil {
			out[i].Blogs = []models.BlogRef{}
		}
	}
	return out, nil
}

// blogRefs groups the populated blog list by owner id, keeping append order.
func (r *UserRepository) blogRefs(ctx context.Context, query string, args ...any) (map[string][]models.BlogRef, error) {
	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("select user blogs: %w", err)
	}
	defer rows.Close()

	out := make(map[string][]models.BlogRef)
	for rows.Next() {
		var userID string
		var ref models.BlogRef
		if err := rows.Scan(&userID, &ref.ID, &ref.Title, &ref.Author, &ref.URL, &ref.Likes); err != nil {
			return nil, fmt.Errorf("scan user blog: %w", err)
		}
		out[userID] = append(out[userID], ref)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate user blogs: %w", err)
	}
	return out, nil
}

func scanUser(row *sql.Row) (*models.User, error) {
	var u models.User
	if err := row.Scan(&u.ID, &u.Username, &u.Name, &u.PasswordHash); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, nil
		}
		return nil, err
	}
	return &u, nil
}
