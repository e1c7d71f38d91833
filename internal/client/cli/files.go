package cli

import (
	"context"
	"errors"
	"fmt"
	"math"
	"os"
	"path/filepath"
	"strconv"
	"text/tabwriter"
	"time"

	"github.com/dmitrijs2005/minidrive/internal/client/client"
)

// authorized runs fn for a logged-in user. A rejected token drops the
// saved session so the next prompt shows the guest state.
func (a *App) authorized(ctx context.Context, fn func() error) error {
	if !a.isLoggedIn() {
		return client.ErrNotLoggedIn
	}

	err := fn()
	if errors.Is(err, client.ErrUnauthorized) {
		_ = a.authService.Logout(context.WithoutCancel(ctx))
		a.userName = ""
	}
	return err
}

func (a *App) Upload(ctx context.Context, args []string) error {
	if len(args) != 1 {
		return usageError{"upload <path>"}
	}

	return a.authorized(ctx, func() error {
		ctx, cancel := withTimeout(ctx, a.transferTimeout())
		defer cancel()

		name, err := a.fileService.Upload(ctx, args[0])
		if err != nil {
			return err
		}
		fmt.Fprintf(a.out, "Uploaded %s\n", name)
		return nil
	})
}

func (a *App) List(ctx context.Context) error {
	return a.authorized(ctx, func() error {
		ctx, cancel := withTimeout(ctx, a.requestTimeout())
		defer cancel()

		files, err := a.fileService.List(ctx)
		if err != nil {
			return err
		}
		if len(files) == 0 {
			fmt.Fprintln(a.out, "No files.")
			return nil
		}

		tw := tabwriter.NewWriter(a.out, 0, 4, 2, ' ', 0)
		fmt.Fprintln(tw, "NAME\tSIZE\tTYPE\tUPLOADED")
		for _, f := range files {
			fmt.Fprintf(tw, "%s\t%d\t%s\t%s\n", f.Filename, f.Size, f.ContentType, f.Uploaded.Local().Format(time.DateTime))
		}
		return tw.Flush()
	})
}

// Download saves a file to dest, or to its name in the working directory.
// Existing files are never overwritten.
func (a *App) Download(ctx context.Context, args []string) error {
	if len(args) < 1 || len(args) > 2 {
		return usageError{"download <name> [dest]"}
	}

	name := args[0]
	dest := filepath.Base(name)
	if len(args) == 2 {
		dest = args[1]
	}
	if _, err := os.Stat(dest); err == nil {
		return fmt.Errorf("%s already exists", dest)
	}

	return a.authorized(ctx, func() error {
		ctx, cancel := withTimeout(ctx, a.transferTimeout())
		defer cancel()

		n, err := a.fileService.Download(ctx, name, dest)
		if err != nil {
			return err
		}
		fmt.Fprintf(a.out, "Saved %s (%d bytes)\n", dest, n)
		return nil
	})
}

func (a *App) Delete(ctx context.Context, args []string) error {
	if len(args) != 1 {
		return usageError{"delete <name>"}
	}

	return a.authorized(ctx, func() error {
		ctx, cancel := withTimeout(ctx, a.requestTimeout())
		defer cancel()

		if err := a.fileService.Delete(ctx, args[0]); err != nil {
			return err
		}
		fmt.Fprintf(a.out, "Deleted %s\n", args[0])
		return nil
	})
}

// Share prints a public link. The optional second argument is the link
// lifetime in seconds.
func (a *App) Share(ctx context.Context, args []string) error {
	if len(args) < 1 || len(args) > 2 {
		return usageError{"share <name> [ttl_seconds]"}
	}

	var ttl time.Duration
	if len(args) == 2 {
		secs, err := strconv.ParseInt(args[1], 10, 64)
		if err != nil || secs <= 0 || secs > int64(math.MaxInt64/time.Second) {
			return usageError{"share <name> [ttl_seconds], ttl_seconds must be a positive integer"}
		}
		ttl = time.Duration(secs) * time.Second
	}

	return a.authorized(ctx, func() error {
		ctx, cancel := withTimeout(ctx, a.requestTimeout())
		defer cancel()

		link, err := a.fileService.Share(ctx, args[0], ttl)
		if err != nil {
			return err
		}
		fmt.Fprintln(a.out, link.URL)
		fmt.Fprintf(a.out, "Expires %s\n", link.ExpiresAt.Local().Format(time.DateTime))
		return nil
	})
}
