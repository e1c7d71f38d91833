package services

import (
	"context"
	"database/sql"
	"errors"
	"strings"
	"time"

	"github.com/dmitrijs2005/minidrive/internal/common"
	"github.com/dmitrijs2005/minidrive/internal/logging"
	"github.com/dmitrijs2005/minidrive/internal/server/config"
	"github.com/dmitrijs2005/minidrive/internal/server/models"
	"github.com/dmitrijs2005/minidrive/internal/server/repositories/repomanager"
	"github.com/dmitrijs2005/minidrive/internal/server/storage"
)

// shareTokenBytes is the entropy of a share token: 192 bits.
const shareTokenBytes = 24

// newShareToken is a seam for tests.
var newShareToken = func() (string, error) {
	return common.MakeRandURLToken(shareTokenBytes)
}

// ShareLink is what the owner receives after creating a share.
type ShareLink struct {
	Token     string
	URL       string
	ExpiresAt time.Time
}

// ShareService mints and redeems public share capabilities. A share captures
// the storage key at creation and does not depend on the file row afterwards.
type ShareService struct {
	db          *sql.DB
	repomanager repomanager.RepositoryManager
	files       *FileService
	gateway     storage.Gateway
	log         logging.Logger
	baseURL     string
	defaultTTL  time.Duration
	maxTTL      time.Duration
	ceiling     time.Duration
	timeout     time.Duration
	now         func() time.Time
}

func NewShareService(db *sql.DB, m repomanager.RepositoryManager, files *FileService, gw storage.Gateway, cfg *config.Config, log logging.Logger) *ShareService {
	return &ShareService{
		db:          db,
		repomanager: m,
		files:       files,
		gateway:     gw,
		log:         log.With("module", "shares"),
		baseURL:     strings.TrimRight(cfg.BaseURL, "/"),
		defaultTTL:  cfg.ShareLinkTTL,
		maxTTL:      cfg.ShareLinkMaxTTL,
		ceiling:     cfg.PublicURLCeiling,
		timeout:     cfg.OperationTimeout,
		now:         time.Now,
	}
}

// Create issues a share for the owner's file. A zero ttl selects the default
// lifetime; negative values or values above the configured maximum are
// rejected with common.ErrValidation.
func (s *ShareService) Create(ctx context.Context, ownerID, filename string, ttl time.Duration) (*ShareLink, error) {
	if ttl == 0 {
		ttl = s.defaultTTL
	}
	if ttl < 0 || (s.maxTTL > 0 && ttl > s.maxTTL) {
		return nil, common.ErrValidation
	}

	f, err := s.files.Resolve(ctx, ownerID, filename)
	if err != nil {
		return nil, err
	}

	token, err := newShareToken()
	if err != nil {
		return nil, common.ErrorInternal
	}

	share := &models.Share{
		Token:      token,
		OwnerID:    ownerID,
		Filename:   f.Filename,
		StorageKey: f.StorageKey,
		ExpiresAt:  s.now().Add(ttl).UTC(),
	}

	ctx, cancel := withTimeout(ctx, s.timeout)
	defer cancel()

	if err := s.repomanager.Shares(s.db).Create(ctx, share); err != nil {
		return nil, persistenceErr("create share", err)
	}

	s.log.Info(ctx, "share created", "owner_id", ownerID, "filename", f.Filename, "expires_at", share.ExpiresAt)
	return &ShareLink{
		Token:     token,
		URL:       s.baseURL + "/public/" + token,
		ExpiresAt: share.ExpiresAt,
	}, nil
}

// ResolveAndIssueAccess redeems a token for a signed URL. Unknown tokens give
// common.ErrorNotFound and expired ones common.ErrExpired. The signed URL
// never outlives the share and is capped at the configured ceiling.
func (s *ShareService) ResolveAndIssueAccess(ctx context.Context, token string) (string, error) {
	if token == "" {
		return "", common.ErrorNotFound
	}

	ctx, cancel := withTimeout(ctx, s.timeout)
	defer cancel()

	share, err := s.repomanager.Shares(s.db).FindByToken(ctx, token)
	if err != nil {
		if errors.Is(err, common.ErrorNotFound) {
			return "", common.ErrorNotFound
		}
		return "", persistenceErr("find share", err)
	}

	now := s.now()
	if !now.Before(share.ExpiresAt) {
		return "", common.ErrExpired
	}

	lifetime := share.ExpiresAt.Sub(now)
	if s.ceiling > 0 && lifetime > s.ceiling {
		lifetime = s.ceiling
	}
	if lifetime < time.Second {
		lifetime = time.Second
	}

	url, err := s.gateway.SignedReadURL(ctx, share.StorageKey, lifetime, share.Filename)
	if err != nil {
		return "", storageErr("sign share", err)
	}
	return url, nil
}
