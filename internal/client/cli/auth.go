package cli

import (
	"context"
	"fmt"

	"github.com/dmitrijs2005/minidrive/internal/common"
)

// getSimpleText and getPassword are indirections used to facilitate testing.
// They point to interactive input helpers and can be swapped in tests.
var getSimpleText = GetSimpleText
var getPassword = GetPassword

func (a *App) readCredentials() (string, []byte, error) {
	userName, err := getSimpleText(a.reader, "Enter username", a.out)
	if err != nil {
		return "", nil, err
	}

	password, err := getPassword(a.out)
	if err != nil {
		return "", nil, err
	}
	return userName, password, nil
}

// Register prompts for a username and password and creates the account.
// The password byte slice is wiped before returning.
func (a *App) Register(ctx context.Context) error {
	userName, password, err := a.readCredentials()
	if err != nil {
		return err
	}
	defer common.WipeByteArray(password)

	ctx, cancel := withTimeout(ctx, a.requestTimeout())
	defer cancel()

	if _, err := a.authService.Register(ctx, userName, password); err != nil {
		return err
	}

	fmt.Fprintln(a.out, "Account created. Run 'login' to sign in.")
	return nil
}

// Login prompts for credentials and saves the session on success.
func (a *App) Login(ctx context.Context) error {
	userName, password, err := a.readCredentials()
	if err != nil {
		return err
	}
	defer common.WipeByteArray(password)

	ctx, cancel := withTimeout(ctx, a.requestTimeout())
	defer cancel()

	if err := a.authService.Login(ctx, userName, password); err != nil {
		return err
	}

	a.userName = userName
	fmt.Fprintln(a.out, "Logged in as", userName)
	return nil
}

// Logout removes the saved session.
func (a *App) Logout(ctx context.Context) error {
	if err := a.authService.Logout(ctx); err != nil {
		return err
	}
	a.userName = ""
	fmt.Fprintln(a.out, "Logged out.")
	return nil
}

func (a *App) WhoAmI(ctx context.Context) error {
	if !a.isLoggedIn() {
		fmt.Fprintln(a.out, "Not logged in.")
		return nil
	}
	fmt.Fprintln(a.out, a.userName)
	return nil
}

func (a *App) Ping(ctx context.Context) error {
	ctx, cancel := withTimeout(ctx, a.requestTimeout())
	defer cancel()

	if err := a.authService.Ping(ctx); err != nil {
		return err
	}
	fmt.Fprintln(a.out, "Server is up.")
	return nil
}
