// File: services/session/session.go
package session

import (
	"context"
	"errors"
	"time"

	"github.com/go-redis/redis/v8"
	"go.uber.org/zap"

	"barberbook/config"
	sessionRepo "barberbook/database/repository/session"
	"barberbook/models"
	"barberbook/utils"
)

const cacheKeyPrefix = "session:"
const cacheTTL = 15 * time.Minute

// SessionService issues, validates, and revokes opaque-token sessions. The
// credential handed to clients is a JWT wrapping the opaque token, so
// revocation is always effective server-side.
type SessionService interface {
	Create(ctx context.Context, userID, deviceInfo, ipAddress string) (string, error)
	Validate(ctx context.Context, credential string) (*models.Session, error)
	Invalidate(ctx context.Context, credential string) error
	InvalidateOthers(ctx context.Context, userID, exceptCredential string) (int64, error)
	ListSessions(ctx context.Context, userID string) ([]models.Session, error)
	RevokeSession(ctx context.Context, userID, sessionID string) error
	Sweep(ctx context.Context) (int64, error)
}

// DefaultSessionService is the production SessionService. Cache may be nil;
// validation then always goes to the database.
type DefaultSessionService struct {
	Repo  sessionRepo.SessionRepository
	Cache *redis.Client
}

// NewSessionService wires a SessionService over the given repository and the
// optional redis validation cache.
func NewSessionService(repo sessionRepo.SessionRepository, cache *redis.Client) *DefaultSessionService {
	return &DefaultSessionService{Repo: repo, Cache: cache}
}

func maxSessionsPerUser() int {
	if config.AppConfig.MaxSessionsPerUser > 0 {
		return config.AppConfig.MaxSessionsPerUser
	}
	return 5
}

func retentionDays() int {
	if config.AppConfig.SessionRetentionDays > 0 {
		return config.AppConfig.SessionRetentionDays
	}
	return 30
}

// Create opens a session for the user and returns the wrapped credential.
// When the user already holds the maximum number of active sessions, the
// least recently used ones are evicted to make room.
func (s *DefaultSessionService) Create(ctx context.Context, userID, deviceInfo, ipAddress string) (string, error) {
	token, err := utils.GenerateSessionToken()
	if err != nil {
		return "", utils.WrapErr(utils.CodeInternal, err, "could not generate session token")
	}

	active, err := s.Repo.ListActiveByUser(ctx, userID)
	if err != nil {
		return "", utils.WrapErr(utils.CodeInternal, err, "could not list sessions")
	}
	if limit := maxSessionsPerUser(); len(active) >= limit {
		// active is sorted most-recent-first; everything past limit-1 goes.
		var evict []string
		for _, old := range active[limit-1:] {
			evict = append(evict, old.ID)
			s.dropCache(ctx, old.Token)
		}
		if err := s.Repo.DeactivateIDs(ctx, evict); err != nil {
			return "", utils.WrapErr(utils.CodeInternal, err, "could not evict old sessions")
		}
		utils.GetLogger().Info("Evicted least recently used sessions",
			zap.String("userId", userID),
			zap.Int("evicted", len(evict)))
	}

	now := time.Now().UTC()
	session := &models.Session{
		UserID:       userID,
		Token:        utils.HashToken(token),
		DeviceInfo:   deviceInfo,
		IPAddress:    ipAddress,
		CreatedAt:    now,
		LastAccessed: now,
		IsActive:     true,
	}
	if err := s.Repo.Insert(ctx, session); err != nil {
		return "", utils.WrapErr(utils.CodeInternal, err, "could not store session")
	}

	credential, err := utils.WrapSessionToken(token)
	if err != nil {
		return "", utils.WrapErr(utils.CodeInternal, err, "could not sign credential")
	}
	return credential, nil
}

// Validate checks the credential against the session store and refreshes the
// session's last-accessed time.
func (s *DefaultSessionService) Validate(ctx context.Context, credential string) (*models.Session, error) {
	token, err := utils.UnwrapCredential(credential)
	if err != nil {
		return nil, utils.Errf(utils.CodeUnauthorized, "invalid credential")
	}
	hashed := utils.HashToken(token)
	now := time.Now().UTC()

	if userID := s.cachedUserID(ctx, hashed); userID != "" {
		if err := s.Repo.Touch(ctx, hashed, now); err != nil {
			s.dropCache(ctx, hashed)
			if errors.Is(err, sessionRepo.ErrNotFound) {
				return nil, utils.Errf(utils.CodeUnauthorized, "session revoked or expired")
			}
			return nil, utils.WrapErr(utils.CodeInternal, err, "could not refresh session")
		}
		return &models.Session{UserID: userID, Token: hashed, LastAccessed: now, IsActive: true}, nil
	}

	session, err := s.Repo.GetActiveByToken(ctx, hashed)
	if err != nil {
		if errors.Is(err, sessionRepo.ErrNotFound) {
			return nil, utils.Errf(utils.CodeUnauthorized, "session revoked or expired")
		}
		return nil, utils.WrapErr(utils.CodeInternal, err, "could not validate session")
	}
	if err := s.Repo.Touch(ctx, hashed, now); err != nil && !errors.Is(err, sessionRepo.ErrNotFound) {
		utils.GetLogger().Warn("Failed to touch session", zap.Error(err))
	}
	s.setCache(ctx, hashed, session.UserID)
	session.LastAccessed = now
	return session, nil
}

// Invalidate revokes the session behind the credential.
func (s *DefaultSessionService) Invalidate(ctx context.Context, credential string) error {
	token, err := utils.UnwrapCredential(credential)
	if err != nil {
		return utils.Errf(utils.CodeUnauthorized, "invalid credential")
	}
	hashed := utils.HashToken(token)
	s.dropCache(ctx, hashed)
	if err := s.Repo.Deactivate(ctx, hashed); err != nil {
		if errors.Is(err, sessionRepo.ErrNotFound) {
			return utils.Errf(utils.CodeUnauthorized, "session revoked or expired")
		}
		return utils.WrapErr(utils.CodeInternal, err, "could not revoke session")
	}
	return nil
}

// InvalidateOthers revokes every active session of the user except the one
// behind exceptCredential. An empty exceptCredential revokes all of them.
func (s *DefaultSessionService) InvalidateOthers(ctx context.Context, userID, exceptCredential string) (int64, error) {
	exceptHashed := ""
	if exceptCredential != "" {
		token, err := utils.UnwrapCredential(exceptCredential)
		if err != nil {
			return 0, utils.Errf(utils.CodeUnauthorized, "invalid credential")
		}
		exceptHashed = utils.HashToken(token)
	}

	active, err := s.Repo.ListActiveByUser(ctx, userID)
	if err == nil {
		for _, sess := range active {
			if sess.Token != exceptHashed {
				s.dropCache(ctx, sess.Token)
			}
		}
	}

	revoked, err := s.Repo.DeactivateAllForUser(ctx, userID, exceptHashed)
	if err != nil {
		return 0, utils.WrapErr(utils.CodeInternal, err, "could not revoke sessions")
	}
	utils.GetLogger().Info("Revoked user sessions",
		zap.String("userId", userID),
		zap.Int64("revoked", revoked))
	return revoked, nil
}

func (s *DefaultSessionService) ListSessions(ctx context.Context, userID string) ([]models.Session, error) {
	sessions, err := s.Repo.ListActiveByUser(ctx, userID)
	if err != nil {
		return nil, utils.WrapErr(utils.CodeInternal, err, "could not list sessions")
	}
	return sessions, nil
}

// RevokeSession revokes one of the user's sessions by its ID.
func (s *DefaultSessionService) RevokeSession(ctx context.Context, userID, sessionID string) error {
	active, err := s.Repo.ListActiveByUser(ctx, userID)
	if err != nil {
		return utils.WrapErr(utils.CodeInternal, err, "could not list sessions")
	}
	for _, sess := range active {
		if sess.ID == sessionID {
			s.dropCache(ctx, sess.Token)
			if err := s.Repo.DeactivateIDs(ctx, []string{sessionID}); err != nil {
				return utils.WrapErr(utils.CodeInternal, err, "could not revoke session")
			}
			return nil
		}
	}
	return utils.Errf(utils.CodeNotFound, "session not found")
}

// Sweep hard-deletes revoked sessions once they age past the retention
// window. Active sessions are never swept; revocation is always an explicit
// deactivation first.
func (s *DefaultSessionService) Sweep(ctx context.Context) (int64, error) {
	cutoff := time.Now().UTC().AddDate(0, 0, -retentionDays())
	deleted, err := s.Repo.DeleteInactiveBefore(ctx, cutoff)
	if err != nil {
		return 0, utils.WrapErr(utils.CodeInternal, err, "session sweep failed")
	}
	if deleted > 0 {
		utils.GetLogger().Info("Swept stale sessions", zap.Int64("deleted", deleted))
	}
	return deleted, nil
}

func (s *DefaultSessionService) cachedUserID(ctx context.Context, hashedToken string) string {
	if s.Cache == nil {
		return ""
	}
	val, err := s.Cache.Get(ctx, cacheKeyPrefix+hashedToken).Result()
	if err != nil {
		return ""
	}
	return val
}

func (s *DefaultSessionService) setCache(ctx context.Context, hashedToken, userID string) {
	if s.Cache == nil {
		return
	}
	if err := s.Cache.Set(ctx, cacheKeyPrefix+hashedToken, userID, cacheTTL).Err(); err != nil {
		utils.GetLogger().Warn("Failed to cache session", zap.Error(err))
	}
}

func (s *DefaultSessionService) dropCache(ctx context.Context, hashedToken string) {
	if s.Cache == nil {
		return
	}
	if err := s.Cache.Del(ctx, cacheKeyPrefix+hashedToken).Err(); err != nil {
		utils.GetLogger().Warn("Failed to drop cached session", zap.Error(err))
	}
}
