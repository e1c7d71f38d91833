package cli

import (
	"bufio"
	"context"
	"errors"
	"fmt"
)

// printlnFn is a test seam for user-facing output. In tests, replace it with a stub.
var printlnFn = fmt.Println

var (
	errQuit           = errors.New("quit")
	errUnknownCommand = errors.New("unknown command")
)

// usageError reports wrong arguments for a command.
type usageError struct {
	usage string
}

func (e usageError) Error() string { return "Usage: " + e.usage }

const (
	helpGuest    = "Available commands: signup, login, ping, exit"
	helpLoggedIn = "Available commands: upload, (l)ist, download, delete, share, whoami, logout, ping, exit"
)

// execIface defines the command surface dispatch needs.
// The real App type satisfies this interface; tests can provide a lightweight stub.
type execIface interface {
	isLoggedIn() bool
	Register(ctx context.Context) error
	Login(ctx context.Context) error
	Logout(ctx context.Context) error
	WhoAmI(ctx context.Context) error
	Upload(ctx context.Context, args []string) error
	List(ctx context.Context) error
	Download(ctx context.Context, args []string) error
	Delete(ctx context.Context, args []string) error
	Share(ctx context.Context, args []string) error
	Ping(ctx context.Context) error
}

// dispatch runs a single command. "exit" and "quit" return errQuit.
func dispatch(ctx context.Context, a execIface, cmd string, args []string) error {
	switch cmd {
	case "help":
		if a.isLoggedIn() {
			printlnFn(helpLoggedIn)
		} else {
			printlnFn(helpGuest)
		}
		return nil

	case "signup", "register":
		return a.Register(ctx)

	case "login":
		return a.Login(ctx)

	case "logout":
		return a.Logout(ctx)

	case "whoami":
		return a.WhoAmI(ctx)

	case "upload":
		return a.Upload(ctx, args)

	case "l", "ls", "list":
		return a.List(ctx)

	case "download", "get":
		return a.Download(ctx, args)

	case "delete", "rm":
		return a.Delete(ctx, args)

	case "share":
		return a.Share(ctx, args)

	case "ping":
		return a.Ping(ctx)

	case "exit", "quit":
		return errQuit

	default:
		return fmt.Errorf("%w: %s", errUnknownCommand, cmd)
	}
}

// runREPL reads commands from scanner until EOF, "exit" or "quit".
// Command errors are reported and the loop continues.
func runREPL(ctx context.Context, a execIface, statusFn func() string, scanner *bufio.Scanner) {
	for {
		printlnFn(fmt.Sprintf("minidrive %s > ", statusFn()))
		if !scanner.Scan() {
			return
		}

		parts, err := splitArgs(scanner.Text())
		if err != nil {
			printlnFn(err.Error())
			continue
		}
		if len(parts) == 0 {
			continue
		}

		err = dispatch(ctx, a, parts[0], parts[1:])
		if errors.Is(err, errQuit) {
			printlnFn("Bye!")
			return
		}
		if err != nil {
			printlnFn(describeError(err))
		}
		if ctx.Err() != nil {
			return
		}
	}
}
