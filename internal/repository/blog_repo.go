package repository

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"

	"bloglist/internal/models"
)

type BlogRepository struct {
	db *sql.DB
}

func NewBlogRepository(db *sql.DB) *BlogRepository {
	return &BlogRepository{db: db}
}

var _ BlogRepo = (*BlogRepository)(nil)

const (
	insertBlogSQL     = `INSERT INTO blogs (id, title, author, url, likes, user_id, comments) VALUES (?, ?, ?, ?, ?, ?, ?)`
	insertUserBlogSQL = `INSERT INTO user_blogs (user_id, blog_id) VALUES (?, ?)`

	selectBlogColumns = `
		SELECT b.id, b.title, b.author, b.url, b.likes, b.comments, u.id, u.username, u.name
		FROM blogs b JOIN users u ON u.id = b.user_id`
	selectBlogByIDSQL = selectBlogColumns + ` WHERE b.id = ?`
	selectBlogsSQL    = selectBlogColumns + ` ORDER BY b.rowid`

	updateBlogSQL     = `UPDATE blogs SET title = ?, author = ?, url = ?, likes = ? WHERE id = ?`
	incrementLikesSQL = `UPDATE blogs SET likes = likes + 1 WHERE id = ?`
	appendCommentSQL  = `UPDATE blogs SET comments = json_insert(comments, '$[#]', ?) WHERE id = ?`
	deleteBlogSQL     = `DELETE FROM blogs WHERE id = ?`
)

// marshalComments converts the slice to a JSON array string; nil becomes "[]".
func marshalComments(comments []string) (string, error) {
	if comments == nil {
		comments = []string{}
	}
	b, err := json.Marshal(comments)
	if err != nil {
		return "", err
	}
	return string(b), nil
}

// unmarshalComments parses a JSON array string into a non-nil slice.
func unmarshalComments(s string) ([]string, error) {
	comments := []string{}
	if s == "" {
		return comments, nil
	}
	if err := json.Unmarshal([]byte(s), &comments); err != nil {
		return nil, err
	}
	return comments, nil
}

// Create inserts the blog row and appends it to the owner's list. Both writes
// share one transaction so a blog is never left unlisted under its user.
func (r *BlogRepository) Create(ctx context.Context, b models.Blog, userID string) error {
	commentsJSON, err := marshalComments(b.Comments)
	if err != nil {
		return fmt.Errorf("marshal comments: %w", err)
	}

	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin create blog: %w", err)
	}
	defer func() {
		_ = tx.Rollback()
	}()

	if _, err := tx.ExecContext(ctx, insertBlogSQL, b.ID, b.Title, b.Author, b.URL, b.Likes, userID, commentsJSON); err != nil {
		return fmt.Errorf("insert blog %q: %w", b.ID, err)
	}
	if _, err := tx.ExecContext(ctx, insertUserBlogSQL, userID, b.ID); err != nil {
		return fmt.Errorf("append blog %q to user %q: %w", b.ID, userID, err)
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("commit create blog: %w", err)
	}
	return nil
}

type rowScanner interface {
	Scan(dest ...any) error
}

func scanBlog(row rowScanner) (models.Blog, error) {
	var (
		b            models.Blog
		u            models.UserRef
		commentsJSON string
	)
	if err := row.Scan(&b.ID, &b.Title, &b.Author, &b.URL, &b.Likes, &commentsJSON, &u.ID, &u.Username, &u.Name); err != nil {
		return models.Blog{}, err
	}
	comments, err := unmarshalComments(commentsJSON)
	if err != nil {
		return models.Blog{}, fmt.Errorf("unmarshal comments of blog %q: %w", b.ID, err)
	}
	b.Comments = comments
	b.User = &u
	return b, nil
}

// GetByID returns the blog with its user populated. Returns (nil, nil) if not found.
func (r *BlogRepository) GetByID(ctx context.Context, id string) (*models.Blog, error) {
	b, err := scanBlog(r.db.QueryRowContext(ctx, selectBlogByIDSQL, id))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("select blog %q: %w", id, err)
	}
	return &b, nil
}

// List returns all blogs in creation order with users populated.
func (r *BlogRepository) List(ctx context.Context) ([]models.Blog, error) {
	rows, err := r.db.QueryContext(ctx, selectBlogsSQL)
	if err != nil {
		return nil, fmt.Errorf("select blogs: %w", err)
	}
	defer rows.Close()

	out := make([]models.Blog, 0, 64)
	for rows.Next() {
		b, err := scanBlog(rows)
		if err != nil {
			return nil, fmt.Errorf("scan blog: %w", err)
		}
		out = append(out, b)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate blogs: %w", err)
	}
	return out, nil
}

// Update replaces the editable fields. Ownership is untouched.
func (r *BlogRepository) Update(ctx context.Context, b models.Blog) (bool, error) {
	return r.execAffecting(ctx, "update blog "+b.ID, updateBlogSQL, b.Title, b.Author, b.URL, b.Likes, b.ID)
}

func (r *BlogRepository) IncrementLikes(ctx context.Context, id string) (bool, error) {
	return r.execAffecting(ctx, "increment likes of blog "+id, incrementLikesSQL, id)
}

// AppendComment appends in a single statement so concurrent comments are not lost.
func (r *BlogRepository) AppendComment(ctx context.Context, id, comment string) (bool, error) {
	return r.execAffecting(ctx, "append comment to blog "+id, appendCommentSQL, comment, id)
}

// Delete removes the blog; its user_blogs entry goes with it (ON DELETE CASCADE).
func (r *BlogRepository) Delete(ctx context.Context, id string) (bool, error) {
	return r.execAffecting(ctx, "delete blog "+id, deleteBlogSQL, id)
}

func (r *BlogRepository) execAffecting(ctx context.Context, what, query string, args ...any) (bool, error) {
	res, err := r.db.ExecContext(ctx, query, args...)
	if err != nil {
		return false, fmt.Errorf("%s: %w", what, err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return false, fmt.Errorf("%s rows affected: %w", what, err)
	}
	return n > 0, nil
}
