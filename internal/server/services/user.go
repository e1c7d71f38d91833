// Package services contains server-side business logic. This file implements
// UserService, which handles registration, credential checks and issuing
// session tokens.
package services

import (
	"context"
	"database/sql"
	"errors"
	"strings"
	"time"

	"github.com/dmitrijs2005/minidrive/internal/common"
	"github.com/dmitrijs2005/minidrive/internal/dbx"
	"github.com/dmitrijs2005/minidrive/internal/server/auth"
	"github.com/dmitrijs2005/minidrive/internal/server/config"
	"github.com/dmitrijs2005/minidrive/internal/server/models"
	"github.com/dmitrijs2005/minidrive/internal/server/repositories/repomanager"
	"golang.org/x/crypto/bcrypt"
)

const maxUsernameLen = 128

// dummyHash is compared against when the user does not exist so that a
// failed login costs the same whether or not the username is known.
var dummyHash, _ = bcrypt.GenerateFromPassword([]byte("minidrive-dummy-password"), bcrypt.DefaultCost)

// UserService provides authentication-related operations:
// - Register: create users
// - Authenticate: check a username/password pair
// - Login: Authenticate and mint a session token
type UserService struct {
	db          *sql.DB
	repomanager repomanager.RepositoryManager
	tokens      *auth.TokenManager
	timeout     time.Duration
	cost        int
}

// NewUserService constructs a UserService using repositories and server config.
func NewUserService(db *sql.DB, m repomanager.RepositoryManager, tokens *auth.TokenManager, cfg *config.Config) *UserService {
	return &UserService{
		db:          db,
		repomanager: m,
		tokens:      tokens,
		timeout:     cfg.OperationTimeout,
		cost:        bcrypt.DefaultCost,
	}
}

// Register creates a user with a bcrypt hash of password. Both inputs are
// trimmed and must be non-empty.
func (s *UserService) Register(ctx context.Context, username, password string) (*models.User, error) {
	username, password, err := normalizeCredentials(username, password)
	if err != nil {
		return nil, err
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(password), s.cost)
	if err != nil {
		if errors.Is(err, bcrypt.ErrPasswordTooLong) {
			return nil, common.ErrValidation
		}
		return nil, common.ErrorInternal
	}

	ctx, cancel := withTimeout(ctx, s.timeout)
	defer cancel()

	var user *models.User
	err = dbx.WithTx(ctx, s.db, nil, func(ctx context.Context, tx dbx.DBTX) error {
		repo := s.repomanager.Users(tx)

		exists, err := repo.Exists(ctx, username)
		if err != nil {
			return err
		}
		if exists {
			return common.ErrUsernameTaken
		}

		user, err = repo.Create(ctx, &models.User{UserName: username, PasswordHash: hash})
		return err
	})
	if err != nil {
		if errors.Is(err, common.ErrUsernameTaken) {
			return nil, common.ErrUsernameTaken
		}
		return nil, persistenceErr("register user", err)
	}

	return user, nil
}

// Authenticate returns the identity behind a valid username/password pair.
// Unknown users and wrong passwords are indistinguishable to the caller.
func (s *UserService) Authenticate(ctx context.Context, username, password string) (auth.Identity, error) {
	username, password, err := normalizeCredentials(username, password)
	if err != nil {
		return auth.Identity{}, err
	}

	ctx, cancel := withTimeout(ctx, s.timeout)
	defer cancel()

	user, err := s.repomanager.Users(s.db).GetUserByLogin(ctx, username)
	if err != nil {
		if errors.Is(err, common.ErrorNotFound) {
			_ = bcrypt.CompareHashAndPassword(dummyHash, []byte(password))
			return auth.Identity{}, common.ErrInvalidCredentials
		}
		return auth.Identity{}, persistenceErr("get user", err)
	}

	if err := bcrypt.CompareHashAndPassword(user.PasswordHash, []byte(password)); err != nil {
		return auth.Identity{}, common.ErrInvalidCredentials
	}

	return auth.Identity{UserID: user.ID, Username: user.UserName}, nil
}

// Login authenticates and returns a fresh session token.
func (s *UserService) Login(ctx context.Context, username, password string) (string, error) {
	id, err := s.Authenticate(ctx, username, password)
	if err != nil {
		return "", err
	}

	token, err := s.tokens.Issue(id.UserID, id.Username)
	if err != nil {
		return "", common.ErrorInternal
	}
	return token, nil
}

// --- helpers below ---

func normalizeCredentials(username, password string) (string, string, error) {
	username = strings.TrimSpace(username)
	password = strings.TrimSpace(password)
	if username == "" || password == "" || len(username) > maxUsernameLen {
		return "", "", common.ErrValidation
	}
	return username, password, nil
}

// withTimeout bounds a single backend call. A non-positive d leaves ctx as is.
func withTimeout(ctx context.Context, d time.Duration) (context.Context, context.CancelFunc) {
	if d <= 0 {
		return context.WithCancel(ctx)
	}
	return context.WithTimeout(ctx, d)
}
