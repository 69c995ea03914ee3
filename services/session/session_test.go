// File: services/session/session_test.go
package session

import (
	"context"
	"fmt"
	"sort"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	sessionRepo "barberbook/database/repository/session"
	"barberbook/models"
	"barberbook/utils"
)

// fakeSessionRepo is an in-memory SessionRepository keyed by hashed token.
type fakeSessionRepo struct {
	mu       sync.Mutex
	sessions map[string]models.Session // by ID
	seq      int
}

func newFakeSessionRepo() *fakeSessionRepo {
	return &fakeSessionRepo{sessions: make(map[string]models.Session)}
}

func (f *fakeSessionRepo) Insert(_ context.Context, s *models.Session) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if s.ID == "" {
		f.seq++
		s.ID = fmt.Sprintf("sess-%d", f.seq)
	}
	f.sessions[s.ID] = *s
	return nil
}

func (f *fakeSessionRepo) GetActiveByToken(_ context.Context, hashedToken string) (*models.Session, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	for _, s := range f.sessions {
		if s.Token == hashedToken && s.IsActive {
			return &s, nil
		}
	}
	return nil, sessionRepo.ErrNotFound
}

func (f *fakeSessionRepo) Touch(_ context.Context, hashedToken string, at time.Time) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	for id, s := range f.sessions {
		if s.Token == hashedToken && s.IsActive {
			s.LastAccessed = at
			f.sessions[id] = s
			return nil
		}
	}
	return sessionRepo.ErrNotFound
}

func (f *fakeSessionRepo) Deactivate(_ context.Context, hashedToken string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	for id, s := range f.sessions {
		if s.Token == hashedToken && s.IsActive {
			s.IsActive = false
			f.sessions[id] = s
			return nil
		}
	}
	return sessionRepo.ErrNotFound
}

func (f *fakeSessionRepo) DeactivateAllForUser(_ context.Context, userID, exceptToken string) (int64, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	var n int64
	for id, s := range f.sessions {
		if s.UserID == userID && s.IsActive && s.Token != exceptToken {
			s.IsActive = false
			f.sessions[id] = s
			n++
		}
	}
	return n, nil
}

func (f *fakeSessionRepo) ListActiveByUser(_ context.Context, userID string) ([]models.Session, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	var out []models.Session
	for _, s := range f.sessions {
		if s.UserID == userID && s.IsActive {
			out = append(out, s)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].LastAccessed.After(out[j].LastAccessed) })
	return out, nil
}

func (f *fakeSessionRepo) DeactivateIDs(_ context.Context, ids []string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	for _, id := range ids {
		if s, ok := f.sessions[id]; ok {
			s.IsActive = false
			f.sessions[id] = s
		}
	}
	return nil
}

func (f *fakeSessionRepo) DeleteInactiveBefore(_ context.Context, cutoff time.Time) (int64, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	var n int64
	for id, s := range f.sessions {
		if !s.IsActive && s.LastAccessed.Before(cutoff) {
			delete(f.sessions, id)
			n++
		}
	}
	return n, nil
}

func TestCreateAndValidate(t *testing.T) {
	repo := newFakeSessionRepo()
	svc := NewSessionService(repo, nil)
	ctx := context.Background()

	cred, err := svc.Create(ctx, "user-1", "iPhone 15", "203.0.113.7")
	require.NoError(t, err)
	require.NotEmpty(t, cred)

	sess, err := svc.Validate(ctx, cred)
	require.NoError(t, err)
	assert.Equal(t, "user-1", sess.UserID)
	assert.True(t, sess.IsActive)

	// The stored token is hashed; the credential never appears verbatim.
	stored, err := repo.ListActiveByUser(ctx, "user-1")
	require.NoError(t, err)
	require.Len(t, stored, 1)
	assert.NotEqual(t, cred, stored[0].Token)
	assert.Equal(t, "iPhone 15", stored[0].DeviceInfo)
}

func TestValidateGarbageCredential(t *testing.T) {
	svc := NewSessionService(newFakeSessionRepo(), nil)

	_, err := svc.Validate(context.Background(), "not-a-credential")
	require.Error(t, err)
	assert.Equal(t, utils.CodeUnauthorized, utils.CodeOf(err))
}

func TestInvalidate(t *testing.T) {
	repo := newFakeSessionRepo()
	svc := NewSessionService(repo, nil)
	ctx := context.Background()

	cred, err := svc.Create(ctx, "user-1", "", "")
	require.NoError(t, err)

	require.NoError(t, svc.Invalidate(ctx, cred))

	_, err = svc.Validate(ctx, cred)
	require.Error(t, err)
	assert.Equal(t, utils.CodeUnauthorized, utils.CodeOf(err))

	// Revoking twice reports unauthorized, not success.
	err = svc.Invalidate(ctx, cred)
	require.Error(t, err)
	assert.Equal(t, utils.CodeUnauthorized, utils.CodeOf(err))
}

func TestCreateEvictsLeastRecentlyUsed(t *testing.T) {
	repo := newFakeSessionRepo()
	svc := NewSessionService(repo, nil)
	ctx := context.Background()

	var creds []string
	for i := 0; i < 5; i++ {
		cred, err := svc.Create(ctx, "user-1", fmt.Sprintf("device-%d", i), "")
		require.NoError(t, err)
		creds = append(creds, cred)
		time.Sleep(time.Millisecond)
	}

	active, err := repo.ListActiveByUser(ctx, "user-1")
	require.NoError(t, err)
	require.Len(t, active, 5)

	// A sixth session pushes out the least recently used one.
	sixth, err := svc.Create(ctx, "user-1", "device-5", "")
	require.NoError(t, err)

	active, err = repo.ListActiveByUser(ctx, "user-1")
	require.NoError(t, err)
	assert.Len(t, active, 5)

	_, err = svc.Validate(ctx, creds[0])
	require.Error(t, err)
	assert.Equal(t, utils.CodeUnauthorized, utils.CodeOf(err))

	for _, cred := range append(creds[1:], sixth) {
		_, err := svc.Validate(ctx, cred)
		assert.NoError(t, err)
	}
}

func TestInvalidateOthersKeepsCurrent(t *testing.T) {
	repo := newFakeSessionRepo()
	svc := NewSessionService(repo, nil)
	ctx := context.Background()

	keep, err := svc.Create(ctx, "user-1", "laptop", "")
	require.NoError(t, err)
	other1, err := svc.Create(ctx, "user-1", "phone", "")
	require.NoError(t, err)
	other2, err := svc.Create(ctx, "user-1", "tablet", "")
	require.NoError(t, err)
	foreign, err := svc.Create(ctx, "user-2", "phone", "")
	require.NoError(t, err)

	revoked, err := svc.InvalidateOthers(ctx, "user-1", keep)
	require.NoError(t, err)
	assert.Equal(t, int64(2), revoked)

	_, err = svc.Validate(ctx, keep)
	assert.NoError(t, err)
	for _, cred := range []string{other1, other2} {
		_, err := svc.Validate(ctx, cred)
		require.Error(t, err)
		assert.Equal(t, utils.CodeUnauthorized, utils.CodeOf(err))
	}

	// Other users are untouched.
	_, err = svc.Validate(ctx, foreign)
	assert.NoError(t, err)
}

func TestRevokeSessionByID(t *testing.T) {
	repo := newFakeSessionRepo()
	svc := NewSessionService(repo, nil)
	ctx := context.Background()

	cred, err := svc.Create(ctx, "user-1", "phone", "")
	require.NoError(t, err)

	sessions, err := svc.ListSessions(ctx, "user-1")
	require.NoError(t, err)
	require.Len(t, sessions, 1)

	// A user cannot revoke someone else's session by ID.
	err = svc.RevokeSession(ctx, "user-2", sessions[0].ID)
	require.Error(t, err)
	assert.Equal(t, utils.CodeNotFound, utils.CodeOf(err))

	require.NoError(t, svc.RevokeSession(ctx, "user-1", sessions[0].ID))

	_, err = svc.Validate(ctx, cred)
	require.Error(t, err)
	assert.Equal(t, utils.CodeUnauthorized, utils.CodeOf(err))
}

func TestSweep(t *testing.T) {
	repo := newFakeSessionRepo()
	svc := NewSessionService(repo, nil)
	ctx := context.Background()

	now := time.Now().UTC()
	// Revoked recently: kept until it ages out.
	require.NoError(t, repo.Insert(ctx, &models.Session{
		UserID: "user-1", Token: "a", IsActive: false, LastAccessed: now,
	}))
	// Active but idle past the horizon: still a live credential, kept.
	require.NoError(t, repo.Insert(ctx, &models.Session{
		UserID: "user-1", Token: "b", IsActive: true, LastAccessed: now.AddDate(0, 0, -45),
	}))
	require.NoError(t, repo.Insert(ctx, &models.Session{
		UserID: "user-1", Token: "c", IsActive: true, LastAccessed: now,
	}))
	// Revoked and aged out: purged.
	require.NoError(t, repo.Insert(ctx, &models.Session{
		UserID: "user-1", Token: "d", IsActive: false, LastAccessed: now.AddDate(0, 0, -45),
	}))

	deleted, err := svc.Sweep(ctx)
	require.NoError(t, err)
	assert.Equal(t, int64(1), deleted)

	active, err := repo.ListActiveByUser(ctx, "user-1")
	require.NoError(t, err)
	require.Len(t, active, 2)

	// The idle-but-active session still validates server-side.
	_, err = repo.GetActiveByToken(ctx, "b")
	assert.NoError(t, err)
}
