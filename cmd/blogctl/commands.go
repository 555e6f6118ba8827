package main

import (
	"errors"
	"fmt"
	"io"
	"net/http"
	"text/tabwriter"

	"bloglist/internal/client"

	"github.com/urfave/cli/v2"
)

const envKey = "env"

// appEnv is what every command needs: the API client, the saved session and the view state.
type appEnv struct {
	api      *client.Client
	sessions *client.SessionStore
	state    *client.Store
	notifier *client.Notifier
	out      io.Writer
}

func newAppEnv(server, sessionDir string, out io.Writer) (*appEnv, error) {
	api, err := client.New(server)
	if err != nil {
		return nil, err
	}
	a := &appEnv{
		api:      api,
		sessions: client.NewSessionStore(sessionDir),
		state:    client.NewStore(client.State{}),
		out:      out,
	}
	a.state.Subscribe(a.render)
	a.notifier = client.NewNotifier(a.state, client.NotificationTTL)

	sess, err := a.sessions.Load()
	if err != nil {
		return nil, err
	}
	a.state.Dispatch(client.SetUser{Session: sess})
	return a, nil
}

func envFrom(c *cli.Context) *appEnv {
	return c.App.Metadata[envKey].(*appEnv)
}

func (a *appEnv) credential() client.Credential {
	return a.state.State().User.Credential()
}

func (a *appEnv) requireLogin() (client.Credential, error) {
	cred := a.credential()
	if cred.Token == "" {
		return cred, cli.Exit("not logged in, run `blogctl login` first", 1)
	}
	return cred, nil
}

func (a *appEnv) notify(message string) {
	a.notifier.Notify(message)
}

// render prints each newly shown notification tagged with its severity.
func (a *appEnv) render(prev, next client.State) {
	n := next.Notification
	if n == nil || n == prev.Notification {
		return
	}
	fmt.Fprintf(a.out, "[%s] %s\n", n.Severity, n.Message)
}

// close drops the pending hide; the process is about to exit.
func (a *appEnv) close() {
	a.notifier.Stop()
}

// apiFailure reports a server-side rejection as a notification and exit code 1.
func (a *appEnv) apiFailure(err error) error {
	var ae *client.APIError
	if errors.As(err, &ae) {
		a.notify(ae.Message)
		return cli.Exit("", 1)
	}
	return err
}

func commands() []*cli.Command {
	return []*cli.Command{
		{
			Name:      "login",
			Usage:     "log in and save the session",
			ArgsUsage: "<username> <password>",
			Action:    login,
		},
		{
			Name:   "logout",
			Usage:  "forget the saved session",
			Action: logout,
		},
		{
			Name:   "whoami",
			Usage:  "show the logged-in user",
			Action: whoami,
		},
		{
			Name:      "register",
			Usage:     "create a user",
			ArgsUsage: "<username> <password>",
			Flags:     []cli.Flag{&cli.StringFlag{Name: "name", Usage: "display name"}},
			Action:    register,
		},
		{
			Name:   "blogs",
			Usage:  "list blogs, most liked first",
			Action: listBlogs,
		},
		{
			Name:   "users",
			Usage:  "list users and how many blogs they created",
			Action: listUsers,
		},
		{
			Name:  "create",
			Usage: "create a blog",
			Flags: []cli.Flag{
				&cli.StringFlag{Name: "title", Required: true},
				&cli.StringFlag{Name: "author"},
				&cli.StringFlag{Name: "url", Required: true},
			},
			Action: createBlog,
		},
		{
			Name:      "like",
			Usage:     "like a blog",
			ArgsUsage: "<blog-id>",
			Action:    likeBlog,
		},
		{
			Name:      "delete",
			Usage:     "delete a blog you created",
			ArgsUsage: "<blog-id>",
			Action:    deleteBlog,
		},
		{
			Name:      "comment",
			Usage:     "comment on a blog",
			ArgsUsage: "<blog-id> <comment>",
			Action:    commentBlog,
		},
	}
}

func argsExactly(c *cli.Context, n int) error {
	if c.NArg() != n {
		return cli.Exit(fmt.Sprintf("usage: blogctl %s %s", c.Command.Name, c.Command.ArgsUsage), 2)
	}
	return nil
}

func login(c *cli.Context) error {
	if err := argsExactly(c, 2); err != nil {
		return err
	}
	a := envFrom(c)

	sess, err := a.api.Login(c.Context, c.Args().Get(0), c.Args().Get(1))
	if err != nil {
		if client.IsStatus(err, http.StatusUnauthorized) {
			a.notify("Wrong Username or Password")
			return cli.Exit("", 1)
		}
		return a.apiFailure(err)
	}
	if err := a.sessions.Save(sess); err != nil {
		return err
	}
	a.state.Dispatch(client.SetUser{Session: sess})
	fmt.Fprintf(a.out, "logged in as %s\n", displayName(sess))
	return nil
}

func logout(c *cli.Context) error {
	a := envFrom(c)
	if err := a.sessions.Clear(); err != nil {
		return err
	}
	a.state.Dispatch(client.SetUser{})
	fmt.Fprintln(a.out, "logged out")
	return nil
}

func whoami(c *cli.Context) error {
	a := envFrom(c)
	user := a.state.State().User
	if user == nil {
		fmt.Fprintln(a.out, "not logged in")
		return nil
	}
	fmt.Fprintf(a.out, "%s (%s)\n", displayName(user), user.Username)
	return nil
}

func register(c *cli.Context) error {
	if err := argsExactly(c, 2); err != nil {
		return err
	}
	a := envFrom(c)

	u, err := a.api.Register(c.Context, c.Args().Get(0), c.String("name"), c.Args().Get(1))
	if err != nil {
		return a.apiFailure(err)
	}
	fmt.Fprintf(a.out, "registered %s (id %s)\n", u.Username, u.ID)
	return nil
}

func listBlogs(c *cli.Context) error {
	a := envFrom(c)
	blogs, err := a.api.Blogs(c.Context)
	if err != nil {
		return a.apiFailure(err)
	}

	tw := tabwriter.NewWriter(a.out, 0, 4, 2, ' ', 0)
	fmt.Fprintln(tw, "ID\tLIKES\tTITLE\tAUTHOR\tADDED BY")
	for _, b := range client.SortByLikes(blogs) {
		addedBy := ""
		if b.User != nil {
			addedBy = b.User.Username
		}
		fmt.Fprintf(tw, "%s\t%d\t%s\t%s\t%s\n", b.ID, b.Likes, b.Title, b.Author, addedBy)
	}
	return tw.Flush()
}

func listUsers(c *cli.Context) error {
	a := envFrom(c)
	users, err := a.api.Users(c.Context)
	if err != nil {
		return a.apiFailure(err)
	}

	tw := tabwriter.NewWriter(a.out, 0, 4, 2, ' ', 0)
	fmt.Fprintln(tw, "USERNAME\tNAME\tBLOGS CREATED")
	for _, u := range users {
		fmt.Fprintf(tw, "%s\t%s\t%d\n", u.Username, u.Name, len(u.Blogs))
	}
	return tw.Flush()
}

func createBlog(c *cli.Context) error {
	a := envFrom(c)
	cred, err := a.requireLogin()
	if err != nil {
		return err
	}

	b, err := a.api.CreateBlog(c.Context, cred, client.NewBlog{
		Title:  c.String("title"),
		Author: c.String("author"),
		URL:    c.String("url"),
	})
	if err != nil {
		return a.apiFailure(err)
	}
	a.notify(fmt.Sprintf("A new blog %s by %s added", b.Title, b.Author))
	fmt.Fprintln(a.out, b.ID)
	return nil
}

func likeBlog(c *cli.Context) error {
	if err := argsExactly(c, 1); err != nil {
		return err
	}
	a := envFrom(c)

	b, err := a.api.Like(c.Context, a.credential(), c.Args().First())
	if err != nil {
		return a.apiFailure(err)
	}
	fmt.Fprintf(a.out, "%s now has %d likes\n", b.Title, b.Likes)
	return nil
}

func deleteBlog(c *cli.Context) error {
	if err := argsExactly(c, 1); err != nil {
		return err
	}
	a := envFrom(c)
	cred, err := a.requireLogin()
	if err != nil {
		return err
	}

	if err := a.api.Remove(c.Context, cred, c.Args().First()); err != nil {
		return a.apiFailure(err)
	}
	fmt.Fprintln(a.out, "deleted")
	return nil
}

func commentBlog(c *cli.Context) error {
	if err := argsExactly(c, 2); err != nil {
		return err
	}
	a := envFrom(c)

	b, err := a.api.AddComment(c.Context, a.credential(), c.Args().Get(0), c.Args().Get(1))
	if err != nil {
		return a.apiFailure(err)
	}
	fmt.Fprintf(a.out, "%s has %d comments\n", b.Title, len(b.Comments))
	return nil
}

func displayName(s *client.Session) string {
	if s.Name != "" {
		return s.Name
	}
	return s.Username
}
