package cli

import (
	"context"
	"errors"

	"github.com/dmitrijs2005/minidrive/internal/client/client"
	"github.com/dmitrijs2005/minidrive/internal/common"
)

// describeError turns an error into a line for the user.
func describeError(err error) string {
	var usage usageError
	var apiErr *client.APIError

	switch {
	case errors.As(err, &usage):
		return usage.Error()
	case errors.Is(err, errUnknownCommand):
		return err.Error() + " (type 'help' for commands)"
	case errors.Is(err, client.ErrNotLoggedIn), errors.Is(err, client.ErrUnauthorized):
		return "Not logged in or session expired. Run 'login' first."
	case errors.Is(err, common.ErrInvalidCredentials):
		return "Invalid username or password."
	case errors.Is(err, client.ErrRateLimited):
		return "Too many attempts, wait a moment and try again."
	case errors.Is(err, context.DeadlineExceeded):
		return "Request timed out."
	case errors.Is(err, context.Canceled):
		return "Cancelled."
	case errors.As(err, &apiErr):
		return apiErr.Error()
	case errors.Is(err, client.ErrUnavailable):
		return "Server unavailable, try again later."
	}
	return "Error: " + err.Error()
}
