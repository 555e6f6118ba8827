package repository

import (
	"context"
	"database/sql"
	"errors"
	"regexp"
	"strings"
	"testing"

	"bloglist/internal/models"

	"github.com/DATA-DOG/go-sqlmock"
)

func newMockDB(t *testing.T) (*sql.DB, sqlmock.Sqlmock, func()) {
	t.Helper()

	db, mock, err := sqlmock.New()
	if err != nil {
		t.Fatalf("failed to create sqlmock: %v", err)
	}
	cleanup := func() {
		if err := mock.ExpectationsWereMet(); err != nil {
			t.Fatalf("unmet sqlmock expectations: %v", err)
		}
		_ = db.Close()
	}
	return db, mock, cleanup
}

func TestUserRepository_Create(t *testing.T) {
	tests := []struct {
		name           string
		user           models.User
		mockExpect     func(sqlmock.Sqlmock)
		wantErr        bool
		wantDuplicate  bool
		errContainsStr string
	}{
		{
			name: "success",
			user: models.User{ID: "u1", Username: "alice", Name: "Alice", PasswordHash: "h123"},
			mockExpect: func(m sqlmock.Sqlmock) {
				m.ExpectExec(regexp.QuoteMeta(insertUserSQL)).
					WithArgs("u1", "alice", "Alice", "h123").
					WillReturnResult(sqlmock.NewResult(1, 1))
			},
		},
		{
			name: "unique violation",
			user: models.User{ID: "u2", Username: "alice", Name: "Again", PasswordHash: "h"},
			mockExpect: func(m sqlmock.Sqlmock) {
				m.ExpectExec(regexp.QuoteMeta(insertUserSQL)).
					WithArgs("u2", "alice", "Again", "h").
					WillReturnError(errors.New("constraint failed: UNIQUE constraint failed: users.username (2067)"))
			},
			wantErr:       true,
			wantDuplicate: true,
		},
		{
			name: "exec error",
			user: models.User{ID: "u3", Username: "bob", PasswordHash: "h456"},
			mockExpect: func(m sqlmock.Sqlmock) {
				m.ExpectExec(regexp.QuoteMeta(insertUserSQL)).
					WithArgs("u3", "bob", "", "h456").
					WillReturnError(errors.New("db exec failed"))
			},
			wantErr:        true,
			errContainsStr: "insert user",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			db, mock, cleanup := newMockDB(t)
			defer cleanup()
			tt.mockExpect(mock)

			err := NewUserRepository(db).Create(context.Background(), tt.user)

			if !tt.wantErr {
				if err != nil {
					t.Fatalf("unexpected error: %v", err)
				}
				return
			}
			if err == nil {
				t.Fatalf("expected error, got nil")
			}
			if tt.wantDuplicate != errors.Is(err, ErrDuplicateUsername) {
				t.Fatalf("duplicate detection: want %v, got err %v", tt.wantDuplicate, err)
			}
			if tt.errContainsStr != "" && !strings.Contains(err.Error(), tt.errContainsStr) {
				t.Fatalf("expected error to contain %q, got %q", tt.errContainsStr, err.Error())
			}
		})
	}
}

func TestUserRepository_GetByUsername(t *testing.T) {
	tests := []struct {
		name           string
		username       string
		mockExpect     func(sqlmock.Sqlmock)
		wantUser       *models.User
		wantErr        bool
		errContainsStr string
	}{
		{
			name:     "found",
			username: "alice",
			mockExpect: func(m sqlmock.Sqlmock) {
				rows := sqlmock.NewRows([]string{"id", "username", "name", "password_hash"}).
					AddRow("u7", "alice", "Alice", "h123")
				m.ExpectQuery(regexp.QuoteMeta(selectUserByUsernameSQL)).
					WithArgs("alice").
					WillReturnRows(rows)
			},
			wantUser: &models.User{ID: "u7", Username: "alice", Name: "Alice", PasswordHash: "h123"},
		},
		{
			name:     "not found (ErrNoRows)",
			username: "missing",
			mockExpect: func(m sqlmock.Sqlmock) {
				m.ExpectQuery(regexp.QuoteMeta(selectUserByUsernameSQL)).
					WithArgs("missing").
					WillReturnError(sql.ErrNoRows)
			},
		},
		{
			name:     "query error",
			username: "bob",
			mockExpect: func(m sqlmock.Sqlmock) {
				m.ExpectQuery(regexp.QuoteMeta(selectUserByUsernameSQL)).
					WithArgs("bob").
					WillReturnError(errors.New("db query failed"))
			},
			wantErr:        true,
			errContainsStr: "select user",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			db, mock, cleanup := newMockDB(t)
			defer cleanup()
			tt.mockExpect(mock)

			u, err := NewUserRepository(db).GetByUsername(context.Background(), tt.username)

			if tt.wantErr {
				if err == nil {
					t.Fatalf("expected error, got nil")
				}
				if !strings.Contains(err.Error(), tt.errContainsStr) {
					t.Fatalf("expected error to contain %q, got %q", tt.errContainsStr, err.Error())
				}
				if u != nil {
					t.Fatalf("expected user=nil on error, got %+v", u)
				}
				return
			}
			if err != nil {
				t.Fatalf("unexpected error: %v", err)
			}
			if tt.wantUser == nil {
				if u != nil {
					t.Fatalf("expected nil user, got %+v", u)
				}
				return
			}
			if u == nil || u.ID != tt.wantUser.ID || u.Username != tt.wantUser.Username ||
				u.Name != tt.wantUser.Name || u.PasswordHash != tt.wantUser.PasswordHash {
				t.Fatalf("unexpected user: want %+v, got %+v", tt.wantUser, u)
			}
		})
	}
}

func TestUserRepository_List_PopulatesBlogsInOrder(t *testing.T) {
	db, mock, cleanup := newMockDB(t)
	defer cleanup()

	mock.ExpectQuery(regexp.QuoteMeta(selectUsersSQL)).
		WillReturnRows(sqlmock.NewRows([]string{"id", "username", "name", "password_hash"}).
			AddRow("u1", "root", "Root", "h1").
			AddRow("u2", "mluukkai", "Matti", "h2"))
	mock.ExpectQuery(regexp.QuoteMeta(selectUserBlogsSQL)).
		WillReturnRows(sqlmock.NewRows([]string{"user_id", "id", "title", "author", "url", "likes"}).
			AddRow("u1", "b1", "First", "A", "http://a", 3).
			AddRow("u1", "b2", "Second", "B", "http://b", 0))

	users, err := NewUserRepository(db).List(context.Background())
	if err != nil {
		t.Fatalf("List: %v", err)
	}
	if len(users) != 2 {
		t.Fatalf("expected 2 users, got %d", len(users))
	}
	if len(users[0].Blogs) != 2 || users[0].Blogs[0].ID != "b1" || users[0].Blogs[1].ID != "b2" {
		t.Fatalf("unexpected blogs for root: %+v", users[0].Blogs)
	}
	if users[1].Blogs == nil || len(users[1].Blogs) != 0 {
		t.Fatalf("expected empty non-nil blog list, got %#v", users[1].Blogs)
	}
}

func TestUserRepository_GetByID_NotFoundSkipsBlogQuery(t *testing.T) {
	db, mock, cleanup := newMockDB(t)
	defer cleanup()

	mock.ExpectQuery(regexp.QuoteMeta(selectUserByIDSQL)).
		WithArgs("nope").
		WillReturnError(sql.ErrNoRows)

	u, err := NewUserRepository(db).GetByID(context.Background(), "nope")
	if err != nil || u != nil {
		t.Fatalf("expected (nil, nil), got (%+v, %v)", u, err)
	}
}
