package services

import (
	"context"
	"database/sql"
	"fmt"
	"io"
	"sort"
	"sync"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/dmitrijs2005/minidrive/internal/common"
	"github.com/dmitrijs2005/minidrive/internal/dbx"
	"github.com/dmitrijs2005/minidrive/internal/server/models"
	"github.com/dmitrijs2005/minidrive/internal/server/repositories/files"
	"github.com/dmitrijs2005/minidrive/internal/server/repositories/shares"
	"github.com/dmitrijs2005/minidrive/internal/server/repositories/users"
)

// -------- test fakes --------

type fakeUsersRepo struct {
	users.Repository
	mu     sync.Mutex
	byName map[string]*models.User
	seq    int

	existsErr error
	createErr error
	getErr    error
}

func newFakeUsersRepo() *fakeUsersRepo {
	return &fakeUsersRepo{byName: map[string]*models.User{}}
}

func (f *fakeUsersRepo) Exists(ctx context.Context, login string) (bool, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.existsErr != nil {
		return false, f.existsErr
	}
	_, ok := f.byName[login]
	return ok, nil
}

func (f *fakeUsersRepo) Create(ctx context.Context, u *models.User) (*models.User, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.createErr != nil {
		return nil, f.createErr
	}
	if _, ok := f.byName[u.UserName]; ok {
		return nil, common.ErrUsernameTaken
	}
	f.seq++
	u.ID = fmt.Sprintf("user-%d", f.seq)
	f.byName[u.UserName] = u
	return u, nil
}

func (f *fakeUsersRepo) GetUserByLogin(ctx context.Context, login string) (*models.User, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.getErr != nil {
		return nil, f.getErr
	}
	u, ok := f.byName[login]
	if !ok {
		return nil, common.ErrorNotFound
	}
	return u, nil
}

type fakeFilesRepo struct {
	files.Repository
	mu   sync.Mutex
	rows []*models.File
	tick time.Time

	createErr error
	existsErr error
	listErr   error
	getErr    error
	deleteErr error
}

func (f *fakeFilesRepo) find(ownerID, filename string) int {
	for i, r := range f.rows {
		if r.OwnerID == ownerID && r.Filename == filename {
			return i
		}
	}
	return -1
}

func (f *fakeFilesRepo) Create(ctx context.Context, file *models.File) (*models.File, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.createErr != nil {
		return nil, f.createErr
	}
	if f.find(file.OwnerID, file.Filename) >= 0 {
		return nil, common.ErrFileExists
	}
	f.tick = f.tick.Add(time.Second)
	file.ID = fmt.Sprintf("file-%d", len(f.rows)+1)
	file.UploadedAt = f.tick
	f.rows = append(f.rows, file)
	return file, nil
}

func (f *fakeFilesRepo) Exists(ctx context.Context, ownerID, filename string) (bool, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.existsErr != nil {
		return false, f.existsErr
	}
	return f.find(ownerID, filename) >= 0, nil
}

func (f *fakeFilesRepo) List(ctx context.Context, ownerID string) ([]*models.File, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.listErr != nil {
		return nil, f.listErr
	}
	out := make([]*models.File, 0)
	for _, r := range f.rows {
		if r.OwnerID == ownerID {
			out = append(out, r)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].UploadedAt.After(out[j].UploadedAt) })
	return out, nil
}

func (f *fakeFilesRepo) GetByOwnerAndName(ctx context.Context, ownerID, filename string) (*models.File, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.getErr != nil {
		return nil, f.getErr
	}
	i := f.find(ownerID, filename)
	if i < 0 {
		return nil, common.ErrorNotFound
	}
	return f.rows[i], nil
}

func (f *fakeFilesRepo) DeleteByOwnerAndName(ctx context.Context, ownerID, filename string) (string, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.deleteErr != nil {
		return "", f.deleteErr
	}
	i := f.find(ownerID, filename)
	if i < 0 {
		return "", common.ErrorNotFound
	}
	key := f.rows[i].StorageKey
	f.rows = append(f.rows[:i], f.rows[i+1:]...)
	return key, nil
}

type fakeSharesRepo struct {
	shares.Repository
	mu   sync.Mutex
	rows map[string]*models.Share

	createErr error
	findErr   error
}

func newFakeSharesRepo() *fakeSharesRepo {
	return &fakeSharesRepo{rows: map[string]*models.Share{}}
}

func (f *fakeSharesRepo) Create(ctx context.Context, s *models.Share) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.createErr != nil {
		return f.createErr
	}
	f.rows[s.Token] = s
	return nil
}

func (f *fakeSharesRepo) FindByToken(ctx context.Context, token string) (*models.Share, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.findErr != nil {
		return nil, f.findErr
	}
	s, ok := f.rows[token]
	if !ok {
		return nil, common.ErrorNotFound
	}
	return s, nil
}

type fakeRepoManager struct {
	u *fakeUsersRepo
	f *fakeFilesRepo
	s *fakeSharesRepo
}

func newFakeRepoManager() *fakeRepoManager {
	return &fakeRepoManager{u: newFakeUsersRepo(), f: &fakeFilesRepo{}, s: newFakeSharesRepo()}
}

func (m *fakeRepoManager) RunMigrations(context.Context, *sql.DB) error { return nil }
func (m *fakeRepoManager) Users(db dbx.DBTX) users.Repository           { return m.u }
func (m *fakeRepoManager) Files(db dbx.DBTX) files.Repository           { return m.f }
func (m *fakeRepoManager) Shares(db dbx.DBTX) shares.Repository         { return m.s }

type signCall struct {
	key  string
	ttl  time.Duration
	name string
}

type fakeGateway struct {
	mu      sync.Mutex
	objects map[string][]byte
	deletes []string
	signs   []signCall

	putErr    error
	putDelay  time.Duration
	deleteErr error
	signErr   error
}

func newFakeGateway() *fakeGateway {
	return &fakeGateway{objects: map[string][]byte{}}
}

func (g *fakeGateway) Put(ctx context.Context, key string, body io.Reader, size int64, contentType string) error {
	if g.putErr != nil {
		return g.putErr
	}
	if g.putDelay > 0 {
		select {
		case <-time.After(g.putDelay):
		case <-ctx.Done():
			return ctx.Err()
		}
	}
	b, err := io.ReadAll(body)
	if err != nil {
		return err
	}
	g.mu.Lock()
	defer g.mu.Unlock()
	g.objects[key] = b
	return nil
}

func (g *fakeGateway) Delete(ctx context.Context, key string) error {
	g.mu.Lock()
	defer g.mu.Unlock()
	g.deletes = append(g.deletes, key)
	if g.deleteErr != nil {
		return g.deleteErr
	}
	delete(g.objects, key)
	return nil
}

func (g *fakeGateway) SignedReadURL(ctx context.Context, key string, ttl time.Duration, name string) (string, error) {
	g.mu.Lock()
	defer g.mu.Unlock()
	if g.signErr != nil {
		return "", g.signErr
	}
	g.signs = append(g.signs, signCall{key: key, ttl: ttl, name: name})
	return "https://s3.test/" + key + "?X-Amz-Expires=" + fmt.Sprint(int(ttl.Seconds())), nil
}

func (g *fakeGateway) has(key string) bool {
	g.mu.Lock()
	defer g.mu.Unlock()
	_, ok := g.objects[key]
	return ok
}

// -------- helpers --------

func newSQLMockDB(t *testing.T) (*sql.DB, sqlmock.Sqlmock) {
	t.Helper()
	db, mock, err := sqlmock.New()
	if err != nil {
		t.Fatalf("sqlmock.New error: %v", err)
	}
	t.Cleanup(func() { db.Close() })
	return db, mock
}

// expectTx registers n transactions that all commit.
func expectTx(mock sqlmock.Sqlmock, n int) {
	for i := 0; i < n; i++ {
		mock.ExpectBegin()
		mock.ExpectCommit()
	}
}

type clock struct {
	mu sync.Mutex
	t  time.Time
}

func newClock(t time.Time) *clock { return &clock{t: t} }

func (c *clock) Now() time.Time {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.t
}

func (c *clock) Advance(d time.Duration) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.t = c.t.Add(d)
}
