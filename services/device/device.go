// File: services/device/device.go
package device

import (
	"context"
	"errors"
	"strings"

	"go.uber.org/zap"

	deviceRepo "barberbook/database/repository/device"
	"barberbook/models"
	"barberbook/utils"
)

// DeviceService manages a user's push-notification device registrations.
type DeviceService interface {
	Register(ctx context.Context, user models.Identity, req models.RegisterDeviceRequest) (*models.Device, bool, error)
	List(ctx context.Context, user models.Identity) ([]models.Device, error)
	SetActive(ctx context.Context, user models.Identity, deviceID string, active bool) error
	Remove(ctx context.Context, user models.Identity, deviceID string) error
	UpdateToken(ctx context.Context, user models.Identity, deviceID string, req models.UpdateDeviceTokenRequest) error
}

// DefaultDeviceService is the production DeviceService.
type DefaultDeviceService struct {
	Repo deviceRepo.DeviceRepository
}

// NewDeviceService wires a DeviceService over the given repository.
func NewDeviceService(repo deviceRepo.DeviceRepository) *DefaultDeviceService {
	return &DefaultDeviceService{Repo: repo}
}

// Register records a device for push delivery. Registration is idempotent on
// (user, push token): re-registering refreshes the existing record. The bool
// result reports whether a new record was created.
func (s *DefaultDeviceService) Register(ctx context.Context, user models.Identity, req models.RegisterDeviceRequest) (*models.Device, bool, error) {
	if !req.Platform.Valid() {
		return nil, false, utils.Errf(utils.CodeValidation, "unknown platform %q", string(req.Platform))
	}
	if req.PushToken == "" {
		return nil, false, utils.Errf(utils.CodeValidation, "push token is required")
	}

	device := &models.Device{
		UserID:      user.ID,
		Platform:    req.Platform,
		PushToken:   req.PushToken,
		DeviceID:    req.DeviceID,
		DeviceName:  deviceName(req),
		BrowserInfo: req.BrowserInfo,
	}
	registered, created, err := s.Repo.UpsertByToken(ctx, device)
	if err != nil {
		return nil, false, utils.WrapErr(utils.CodeInternal, err, "could not register device")
	}
	utils.GetLogger().Info("Device registered",
		zap.String("userId", user.ID),
		zap.String("platform", string(req.Platform)),
		zap.Bool("created", created))
	return registered, created, nil
}

func (s *DefaultDeviceService) List(ctx context.Context, user models.Identity) ([]models.Device, error) {
	devices, err := s.Repo.ListByUser(ctx, user.ID)
	if err != nil {
		return nil, utils.WrapErr(utils.CodeInternal, err, "could not list devices")
	}
	return devices, nil
}

// deviceName fills in a name when the client sent none: browser sniffing for
// web devices, "<Platform> Device" otherwise.
func deviceName(req models.RegisterDeviceRequest) string {
	if req.DeviceName != "" {
		return req.DeviceName
	}
	if req.Platform == models.PlatformWeb {
		switch {
		case strings.Contains(req.BrowserInfo, "Chrome"):
			return "Chrome Browser"
		case strings.Contains(req.BrowserInfo, "Firefox"):
			return "Firefox Browser"
		case strings.Contains(req.BrowserInfo, "Safari"):
			return "Safari Browser"
		default:
			return "Web Browser"
		}
	}
	if req.Platform == models.PlatformIOS {
		return "iOS Device"
	}
	return "Android Device"
}

// SetActive toggles push delivery for one device in either direction, so a
// disabled device can come back without re-registering.
func (s *DefaultDeviceService) SetActive(ctx context.Context, user models.Identity, deviceID string, active bool) error {
	err := s.Repo.SetActive(ctx, deviceID, user.ID, active)
	if err != nil {
		if errors.Is(err, deviceRepo.ErrNotFound) {
			return utils.Errf(utils.CodeNotFound, "device not found")
		}
		return utils.WrapErr(utils.CodeInternal, err, "could not update device state")
	}
	return nil
}

func (s *DefaultDeviceService) Remove(ctx context.Context, user models.Identity, deviceID string) error {
	err := s.Repo.Delete(ctx, deviceID, user.ID)
	if err != nil {
		if errors.Is(err, deviceRepo.ErrNotFound) {
			return utils.Errf(utils.CodeNotFound, "device not found")
		}
		return utils.WrapErr(utils.CodeInternal, err, "could not remove device")
	}
	return nil
}

// UpdateToken swaps the provider token after the push provider rotates it,
// reactivating the device.
func (s *DefaultDeviceService) UpdateToken(ctx context.Context, user models.Identity, deviceID string, req models.UpdateDeviceTokenRequest) error {
	if req.PushToken == "" {
		return utils.Errf(utils.CodeValidation, "push token is required")
	}
	err := s.Repo.UpdateToken(ctx, deviceID, user.ID, req.PushToken)
	if err != nil {
		if errors.Is(err, deviceRepo.ErrNotFound) {
			return utils.Errf(utils.CodeNotFound, "device not found")
		}
		return utils.WrapErr(utils.CodeInternal, err, "could not update device token")
	}
	return nil
}
