package cli

import (
	"bufio"
	"context"
	"database/sql"
	"errors"
	"fmt"
	"io"
	"net/http"
	"os"
	"path/filepath"
	"time"

	"github.com/dmitrijs2005/minidrive/internal/client/client"
	"github.com/dmitrijs2005/minidrive/internal/client/config"
	"github.com/dmitrijs2005/minidrive/internal/client/services"
	"github.com/dmitrijs2005/minidrive/internal/filex"
)

const sessionDBName = "session.db"

type App struct {
	config      *config.Config
	authService services.AuthService
	fileService services.FileService
	db          *sql.DB
	userName    string
	reader      *bufio.Reader
	out         io.Writer
}

// NewApp opens the local session store under cfg.DataDir and builds the
// API services.
func NewApp(ctx context.Context, c *config.Config) (*App, error) {

	dir, err := filex.EnsureDir(c.DataDir)
	if err != nil {
		return nil, fmt.Errorf("data dir: %w", err)
	}

	db, err := client.InitDatabase(ctx, filepath.Join(dir, sessionDBName))
	if err != nil {
		return nil, fmt.Errorf("error initializing database: %w", err)
	}

	apiClient := client.NewHTTPClient(c.ServerURL, &http.Client{})

	as := services.NewAuthService(apiClient, db, c.ServerURL)
	fs := services.NewFileService(apiClient, &http.Client{})

	return &App{
		config:      c,
		authService: as,
		fileService: fs,
		db:          db,
		reader:      bufio.NewReader(os.Stdin),
		out:         os.Stdout,
	}, nil
}

// Close releases the local database.
func (a *App) Close() error {
	if a.db == nil {
		return nil
	}
	return a.db.Close()
}

// Run restores the saved session, then executes args as a single command
// or, with no args, starts the REPL. It returns the process exit code.
func (a *App) Run(ctx context.Context, args []string) int {
	if name, ok, err := a.authService.Restore(ctx); err != nil {
		fmt.Fprintln(a.out, "Could not read saved session:", err)
	} else if ok {
		a.userName = name
	}

	if len(args) > 0 {
		if err := dispatch(ctx, a, args[0], args[1:]); err != nil && !errors.Is(err, errQuit) {
			fmt.Fprintln(a.out, describeError(err))
			return 1
		}
		return 0
	}

	fmt.Fprintln(a.out, "Welcome to MiniDrive CLI (type 'help' for commands)")
	runREPL(ctx, a, a.getStatus, bufio.NewScanner(a.reader))
	return 0
}

func (a *App) isLoggedIn() bool {
	return a.userName != ""
}

func (a *App) getStatus() string {
	if a.userName == "" {
		return "(guest)"
	}
	return fmt.Sprintf("(%s)", a.userName)
}

func (a *App) requestTimeout() time.Duration {
	if a.config == nil {
		return 0
	}
	return a.config.RequestTimeout
}

func (a *App) transferTimeout() time.Duration {
	if a.config == nil {
		return 0
	}
	return a.config.TransferTimeout
}

func withTimeout(ctx context.Context, d time.Duration) (context.Context, context.CancelFunc) {
	if d <= 0 {
		return context.WithCancel(ctx)
	}
	return context.WithTimeout(ctx, d)
}
