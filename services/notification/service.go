// File: services/notification/service.go
package notification

import (
	"context"
	"errors"
	"time"

	"go.uber.org/zap"

	deviceRepo "barberbook/database/repository/device"
	notificationRepo "barberbook/database/repository/notification"
	userRepo "barberbook/database/repository/user"
	"barberbook/models"
	"barberbook/utils"
)

// recentWindow bounds the "recent" bucket in notification stats.
const recentWindow = 7 * 24 * time.Hour

// NotificationService stores notifications and fans them out to the owner's
// registered devices.
type NotificationService interface {
	Notify(ctx context.Context, userID, title, message, ntype, relatedBookingID string, data map[string]string) (*models.Notification, error)
	SendTest(ctx context.Context, user models.Identity, req models.TestNotificationRequest) (*models.Notification, error)
	List(ctx context.Context, userID string, unreadOnly bool, limit, offset int64) ([]models.Notification, error)
	MarkRead(ctx context.Context, userID, notificationID string) error
	MarkAllRead(ctx context.Context, userID string) (int64, error)
	UnreadCount(ctx context.Context, userID string) (int64, error)
	Stats(ctx context.Context, userID string) (*models.NotificationStats, error)
	SetEnabled(ctx context.Context, userID string, enabled bool) error
}

// DefaultNotificationService is the production NotificationService.
// Transport may be nil (no push provider configured); notifications are then
// stored without any delivery attempt.
type DefaultNotificationService struct {
	Repo      notificationRepo.NotificationRepository
	Devices   deviceRepo.DeviceRepository
	Users     userRepo.UserRepository
	Transport PushTransport

	PushWorkers int
	PushTimeout time.Duration
}

// NewNotificationService wires a NotificationService.
func NewNotificationService(
	repo notificationRepo.NotificationRepository,
	devices deviceRepo.DeviceRepository,
	users userRepo.UserRepository,
	transport PushTransport,
	pushWorkers int,
	pushTimeout time.Duration,
) *DefaultNotificationService {
	return &DefaultNotificationService{
		Repo:        repo,
		Devices:     devices,
		Users:       users,
		Transport:   transport,
		PushWorkers: pushWorkers,
		PushTimeout: pushTimeout,
	}
}

// Notify stores the notification, then pushes it to the user's active
// devices. The stored record survives any delivery failure; push counts are
// written back once the fan-out settles.
func (s *DefaultNotificationService) Notify(ctx context.Context, userID, title, message, ntype, relatedBookingID string, data map[string]string) (*models.Notification, error) {
	n := &models.Notification{
		UserID:           userID,
		Title:            title,
		Message:          message,
		Type:             ntype,
		RelatedBookingID: relatedBookingID,
		Data:             data,
	}
	if err := s.Repo.Create(ctx, n); err != nil {
		return nil, utils.WrapErr(utils.CodeInternal, err, "could not store notification")
	}

	s.push(ctx, n, "")
	return n, nil
}

// SendTest pushes a throwaway notification to the caller's devices,
// optionally restricted to one platform.
func (s *DefaultNotificationService) SendTest(ctx context.Context, user models.Identity, req models.TestNotificationRequest) (*models.Notification, error) {
	platform := req.Platform
	if platform != "" && !platform.Valid() {
		return nil, utils.Errf(utils.CodeValidation, "unknown platform %q", string(req.Platform))
	}
	title := req.Title
	if title == "" {
		title = "Test notification"
	}
	message := req.Message
	if message == "" {
		message = "If you can read this, push delivery works."
	}

	n := &models.Notification{
		UserID:  user.ID,
		Title:   title,
		Message: message,
		Type:    models.NotificationTest,
		Data:    map[string]string{"type": models.NotificationTest},
	}
	if err := s.Repo.Create(ctx, n); err != nil {
		return nil, utils.WrapErr(utils.CodeInternal, err, "could not store notification")
	}

	s.push(ctx, n, platform)
	return n, nil
}

// push fans the stored notification out and records the outcome. Push is
// skipped entirely when the user disabled notifications; the in-app record
// stays either way.
func (s *DefaultNotificationService) push(ctx context.Context, n *models.Notification, platform models.Platform) {
	logger := utils.GetLogger()

	owner, err := s.Users.GetByID(ctx, n.UserID)
	if err == nil && !owner.NotificationsEnabled {
		logger.Debug("Push suppressed, notifications disabled", zap.String("userId", n.UserID))
		return
	}

	devices, err := s.Devices.ListActiveByUser(ctx, n.UserID, platform)
	if err != nil {
		logger.Warn("Could not list devices for push", zap.String("userId", n.UserID), zap.Error(err))
		return
	}
	if len(devices) == 0 {
		return
	}

	d := &dispatcher{transport: s.Transport, workers: s.PushWorkers, timeout: s.PushTimeout}
	result := d.FanOut(ctx, devices, n.Title, n.Message, n.Data)

	failures := result.TransientFailures + result.PermanentFailures
	if err := s.Repo.SetPushCounts(ctx, n.ID, result.Delivered, failures); err != nil {
		logger.Warn("Could not record push counts", zap.String("notificationId", n.ID), zap.Error(err))
	} else {
		n.PushSuccessCount = result.Delivered
		n.PushFailureCount = failures
	}

	if len(result.DeactivatedDeviceIDs) > 0 {
		deactivated, err := s.Devices.DeactivateByIDs(ctx, result.DeactivatedDeviceIDs)
		if err != nil {
			logger.Warn("Could not deactivate rejected devices", zap.Error(err))
		} else {
			logger.Info("Deactivated devices with rejected tokens",
				zap.String("userId", n.UserID),
				zap.Int64("deactivated", deactivated))
		}
	}
}

func (s *DefaultNotificationService) List(ctx context.Context, userID string, unreadOnly bool, limit, offset int64) ([]models.Notification, error) {
	notifications, err := s.Repo.ListByUser(ctx, userID, unreadOnly, limit, offset)
	if err != nil {
		return nil, utils.WrapErr(utils.CodeInternal, err, "could not list notifications")
	}
	return notifications, nil
}

func (s *DefaultNotificationService) MarkRead(ctx context.Context, userID, notificationID string) error {
	err := s.Repo.MarkRead(ctx, notificationID, userID)
	if err != nil {
		if errors.Is(err, notificationRepo.ErrNotFound) {
			return utils.Errf(utils.CodeNotFound, "notification not found")
		}
		return utils.WrapErr(utils.CodeInternal, err, "could not mark notification read")
	}
	return nil
}

func (s *DefaultNotificationService) MarkAllRead(ctx context.Context, userID string) (int64, error) {
	marked, err := s.Repo.MarkAllRead(ctx, userID)
	if err != nil {
		return 0, utils.WrapErr(utils.CodeInternal, err, "could not mark notifications read")
	}
	return marked, nil
}

func (s *DefaultNotificationService) UnreadCount(ctx context.Context, userID string) (int64, error) {
	count, err := s.Repo.CountUnread(ctx, userID)
	if err != nil {
		return 0, utils.WrapErr(utils.CodeInternal, err, "could not count notifications")
	}
	return count, nil
}

func (s *DefaultNotificationService) Stats(ctx context.Context, userID string) (*models.NotificationStats, error) {
	total, err := s.Repo.Count(ctx, userID)
	if err != nil {
		return nil, utils.WrapErr(utils.CodeInternal, err, "could not count notifications")
	}
	unread, err := s.Repo.CountUnread(ctx, userID)
	if err != nil {
		return nil, utils.WrapErr(utils.CodeInternal, err, "could not count notifications")
	}
	recent, err := s.Repo.CountSince(ctx, userID, time.Now().UTC().Add(-recentWindow))
	if err != nil {
		return nil, utils.WrapErr(utils.CodeInternal, err, "could not count notifications")
	}
	activeDevices, err := s.Devices.CountActiveByUser(ctx, userID)
	if err != nil {
		return nil, utils.WrapErr(utils.CodeInternal, err, "could not count devices")
	}
	return &models.NotificationStats{
		Total:         total,
		Unread:        unread,
		Recent:        recent,
		ActiveDevices: activeDevices,
	}, nil
}

func (s *DefaultNotificationService) SetEnabled(ctx context.Context, userID string, enabled bool) error {
	if err := s.Users.SetNotificationsEnabled(ctx, userID, enabled); err != nil {
		if errors.Is(err, userRepo.ErrNotFound) {
			return utils.Errf(utils.CodeNotFound, "user not found")
		}
		return utils.WrapErr(utils.CodeInternal, err, "could not update notification preference")
	}
	return nil
}
