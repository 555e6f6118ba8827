package main

import (
	"bytes"
	"context"
	"net/http/httptest"
	"path/filepath"
	"strings"
	"testing"

	"bloglist/internal/handlers"
	"bloglist/internal/repository"
	"bloglist/internal/repository/db"
	"bloglist/internal/service"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/urfave/cli/v2"
	"golang.org/x/crypto/bcrypt"
)

func startAPI(t *testing.T) string {
	t.Helper()
	gin.SetMode(gin.TestMode)

	sqlDB, err := db.InitDB(filepath.Join(t.TempDir(), "cli.db"))
	require.NoError(t, err)
	t.Cleanup(func() { _ = sqlDB.Close() })

	services, err := service.NewService(repository.NewRepository(sqlDB), service.Options{Secret: "cli-secret", BcryptCost: bcrypt.MinCost})
	require.NoError(t, err)

	srv := httptest.NewServer(handlers.NewHandler(services, nil).InitRoutes())
	t.Cleanup(srv.Close)
	return srv.URL
}

type runner struct {
	t          *testing.T
	server     string
	sessionDir string
}

func (r runner) run(args ...string) (string, int) {
	r.t.Helper()
	var out bytes.Buffer
	exitCode := 0

	app := newApp()
	app.Writer = &out
	app.ErrWriter = &out
	app.ExitErrHandler = func(_ *cli.Context, err error) {
		if ec, ok := err.(cli.ExitCoder); ok {
			exitCode = ec.ExitCode()
			if msg := ec.Error(); msg != "" {
				out.WriteString(msg + "\n")
			}
		}
	}

	full := append([]string{"blogctl", "--server", r.server, "--session-dir", r.sessionDir}, args...)
	err := app.RunContext(context.Background(), full)
	if err != nil && exitCode == 0 {
		exitCode = 1
	}
	return out.String(), exitCode
}

func TestCLI_Workflow(t *testing.T) {
	r := runner{t: t, server: startAPI(t), sessionDir: t.TempDir()}

	out, code := r.run("whoami")
	assert.Equal(t, 0, code)
	assert.Contains(t, out, "not logged in")

	out, code = r.run("create", "--title", "T", "--url", "u")
	assert.Equal(t, 1, code)
	assert.Contains(t, out, "not logged in")

	_, code = r.run("register", "--name", "Superuser", "root", "secret")
	require.Equal(t, 0, code)

	out, code = r.run("login", "root", "wrong")
	assert.Equal(t, 1, code)
	assert.Contains(t, out, "[error] Wrong Username or Password")

	out, code = r.run("login", "root", "secret")
	require.Equal(t, 0, code, out)
	assert.Contains(t, out, "logged in as Superuser")

	// session restored by a fresh process
	out, _ = r.run("whoami")
	assert.Contains(t, out, "Superuser (root)")

	out, code = r.run("create", "--title", "Go Proverbs", "--author", "Rob Pike", "--url", "https://go-proverbs.github.io")
	require.Equal(t, 0, code, out)
	assert.Contains(t, out, "[success] A new blog Go Proverbs by Rob Pike added")
	lines := strings.Split(strings.TrimSpace(out), "\n")
	blogID := lines[len(lines)-1]

	out, code = r.run("like", blogID)
	require.Equal(t, 0, code, out)
	assert.Contains(t, out, "now has 1 likes")

	out, code = r.run("comment", blogID, "classic")
	require.Equal(t, 0, code, out)
	assert.Contains(t, out, "has 1 comments")

	out, _ = r.run("blogs")
	assert.Contains(t, out, "Go Proverbs")
	assert.Contains(t, out, "root")

	out, _ = r.run("users")
	assert.Contains(t, out, "root")

	out, code = r.run("delete", blogID)
	require.Equal(t, 0, code, out)

	out, code = r.run("delete", blogID)
	assert.Equal(t, 1, code)
	assert.Contains(t, out, "[error] blog not found")

	_, code = r.run("logout")
	require.Equal(t, 0, code)
	out, _ = r.run("whoami")
	assert.Contains(t, out, "not logged in")
}

func TestCLI_UsageErrors(t *testing.T) {
	r := runner{t: t, server: "http://127.0.0.1:1", sessionDir: t.TempDir()}

	out, code := r.run("like")
	assert.Equal(t, 2, code)
	assert.Contains(t, out, "usage: blogctl like <blog-id>")
}

func TestAppEnv_NotifyGoesThroughNotifier(t *testing.T) {
	var out bytes.Buffer
	a, err := newAppEnv("http://127.0.0.1:1", t.TempDir(), &out)
	require.NoError(t, err)
	defer a.close()

	a.notify("A new blog T by A added")
	a.notify("blog not found")

	assert.Equal(t, "[success] A new blog T by A added\n[error] blog not found\n", out.String())
	// visible until the notifier's countdown hides it
	n := a.state.State().Notification
	require.NotNil(t, n)
	assert.Equal(t, "blog not found", n.Message)

	a.close()
	assert.NotNil(t, a.state.State().Notification, "close only cancels the pending hide")
}
