package cli

import (
	"bufio"
	"context"
	"errors"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeExec struct {
	loggedIn bool

	calls []string
	args  [][]string
	err   error
}

func (f *fakeExec) record(name string, args []string) error {
	f.calls = append(f.calls, name)
	f.args = append(f.args, args)
	return f.err
}

func (f *fakeExec) isLoggedIn() bool { return f.loggedIn }
func (f *fakeExec) Register(ctx context.Context) error {
	return f.record("register", nil)
}
func (f *fakeExec) Login(ctx context.Context) error {
	f.loggedIn = true
	return f.record("login", nil)
}
func (f *fakeExec) Logout(ctx context.Context) error {
	f.loggedIn = false
	return f.record("logout", nil)
}
func (f *fakeExec) WhoAmI(ctx context.Context) error { return f.record("whoami", nil) }
func (f *fakeExec) Upload(ctx context.Context, args []string) error {
	return f.record("upload", args)
}
func (f *fakeExec) List(ctx context.Context) error { return f.record("list", nil) }
func (f *fakeExec) Download(ctx context.Context, args []string) error {
	return f.record("download", args)
}
func (f *fakeExec) Delete(ctx context.Context, args []string) error {
	return f.record("delete", args)
}
func (f *fakeExec) Share(ctx context.Context, args []string) error {
	return f.record("share", args)
}
func (f *fakeExec) Ping(ctx context.Context) error { return f.record("ping", nil) }

func capturePrintln(t *testing.T) *[]string {
	t.Helper()
	var lines []string
	origPrint := printlnFn
	printlnFn = func(a ...any) (int, error) {
		parts := make([]string, len(a))
		for i, v := range a {
			parts[i] = toString(v)
		}
		lines = append(lines, strings.Join(parts, " "))
		return 0, nil
	}
	t.Cleanup(func() { printlnFn = origPrint })
	return &lines
}

func toString(v any) string {
	if s, ok := v.(string); ok {
		return s
	}
	if e, ok := v.(error); ok {
		return e.Error()
	}
	return ""
}

func TestRunREPL_CommandsInOrder(t *testing.T) {
	capturePrintln(t)

	input := strings.NewReader(strings.Join([]string{
		"help",
		"signup",
		"login",
		"upload ./notes.txt",
		"",
		"list",
		`download "my report.pdf" out.pdf`,
		"share a.txt 3600",
		"rm a.txt",
		"logout",
		"exit",
		"list",
	}, "\n"))

	exec := &fakeExec{}
	runREPL(context.Background(), exec, func() string { return "status" }, bufio.NewScanner(input))

	assert.Equal(t, []string{"register", "login", "upload", "list", "download", "share", "delete", "logout"}, exec.calls)
	assert.Equal(t, []string{"./notes.txt"}, exec.args[2])
	assert.Equal(t, []string{"my report.pdf", "out.pdf"}, exec.args[4])
	assert.Equal(t, []string{"a.txt", "3600"}, exec.args[5])
}

func TestRunREPL_ReportsErrorsAndContinues(t *testing.T) {
	lines := capturePrintln(t)

	input := strings.NewReader("foobar\nupload \"oops\nping\nquit\n")
	exec := &fakeExec{err: errors.New("kaboom")}
	runREPL(context.Background(), exec, func() string { return "s" }, bufio.NewScanner(input))

	require.Equal(t, []string{"ping"}, exec.calls)
	out := strings.Join(*lines, "\n")
	assert.Contains(t, out, "unknown command: foobar")
	assert.Contains(t, out, "unterminated quote")
	assert.Contains(t, out, "Error: kaboom")
	assert.Contains(t, out, "Bye!")
}

func TestRunREPL_StopsAtEOF(t *testing.T) {
	capturePrintln(t)

	exec := &fakeExec{}
	runREPL(context.Background(), exec, func() string { return "s" }, bufio.NewScanner(strings.NewReader("whoami")))
	assert.Equal(t, []string{"whoami"}, exec.calls)
}

func TestDispatch_HelpDependsOnLoginState(t *testing.T) {
	lines := capturePrintln(t)

	require.NoError(t, dispatch(context.Background(), &fakeExec{}, "help", nil))
	require.NoError(t, dispatch(context.Background(), &fakeExec{loggedIn: true}, "help", nil))

	require.Len(t, *lines, 2)
	assert.Equal(t, helpGuest, (*lines)[0])
	assert.Equal(t, helpLoggedIn, (*lines)[1])
}

func TestDispatch_Quit(t *testing.T) {
	for _, cmd := range []string{"exit", "quit"} {
		require.ErrorIs(t, dispatch(context.Background(), &fakeExec{}, cmd, nil), errQuit)
	}
}
