// Package services contains application services for the MiniDrive CLI.
// This file defines the authentication service: signup, login, logout and
// restoring the saved session from the local database.
package services

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/dmitrijs2005/minidrive/internal/client/client"
	"github.com/dmitrijs2005/minidrive/internal/client/repositories/metadata"
	"github.com/dmitrijs2005/minidrive/internal/dbx"
)

// AuthService defines authentication operations for the CLI.
//
// Contract:
//   - Register: create a new account on the server; returns the user id.
//   - Login: obtain a session token and persist it locally.
//   - Restore: reload a saved session for the configured server.
//   - Logout: forget the local session.
//   - Ping: check server liveness.
type AuthService interface {
	Register(ctx context.Context, username string, password []byte) (string, error)
	Login(ctx context.Context, username string, password []byte) error
	Restore(ctx context.Context) (string, bool, error)
	Logout(ctx context.Context) error
	Ping(ctx context.Context) error
}

// authService is the concrete AuthService backed by a remote Client and the
// local metadata store.
type authService struct {
	client    client.Client
	db        *sql.DB
	serverURL string
}

// NewAuthService constructs an AuthService. serverURL binds saved sessions
// to the server that issued them.
func NewAuthService(c client.Client, db *sql.DB, serverURL string) AuthService {
	return &authService{client: c, db: db, serverURL: serverURL}
}

func (a *authService) getMetadataRepo(db dbx.DBTX) metadata.Repository {
	return metadata.NewSQLiteRepository(db)
}

func (a *authService) Register(ctx context.Context, username string, password []byte) (string, error) {
	return a.client.Signup(ctx, username, string(password))
}

// Login authenticates against the server and saves the session token,
// username and server URL in a single transaction.
func (a *authService) Login(ctx context.Context, username string, password []byte) error {
	token, err := a.client.Login(ctx, username, string(password))
	if err != nil {
		return fmt.Errorf("login error: %w", err)
	}

	err = dbx.WithTx(ctx, a.db, nil, func(ctx context.Context, tx dbx.DBTX) error {
		repo := a.getMetadataRepo(tx)
		if err := repo.Set(ctx, metadata.KeyToken, []byte(token)); err != nil {
			return err
		}
		if err := repo.Set(ctx, metadata.KeyUsername, []byte(username)); err != nil {
			return err
		}
		return repo.Set(ctx, metadata.KeyServerURL, []byte(a.serverURL))
	})
	if err != nil {
		return fmt.Errorf("session saving error: %w", err)
	}

	a.client.SetToken(token)
	return nil
}

// Restore loads a saved session. A session saved for a different server is
// ignored. The token is not checked here; an expired one surfaces as
// client.ErrUnauthorized on the next call.
func (a *authService) Restore(ctx context.Context) (string, bool, error) {
	repo := a.getMetadataRepo(a.db)

	server, err := repo.Get(ctx, metadata.KeyServerURL)
	if err != nil {
		return "", false, err
	}
	if string(server) != a.serverURL {
		return "", false, nil
	}

	token, err := repo.Get(ctx, metadata.KeyToken)
	if err != nil {
		return "", false, err
	}
	if len(token) == 0 {
		return "", false, nil
	}

	username, err := repo.Get(ctx, metadata.KeyUsername)
	if err != nil {
		return "", false, err
	}

	a.client.SetToken(string(token))
	return string(username), true, nil
}

// Logout wipes the saved session.
func (a *authService) Logout(ctx context.Context) error {
	a.client.SetToken("")
	return a.getMetadataRepo(a.db).Clear(ctx)
}

func (a *authService) Ping(ctx context.Context) error {
	return a.client.Ping(ctx)
}
