// File: services/account/account.go
package account

import (
	"context"
	"errors"

	"go.uber.org/zap"
	"golang.org/x/crypto/bcrypt"

	userRepo "barberbook/database/repository/user"
	"barberbook/models"
	"barberbook/services/session"
	"barberbook/utils"
)

// AccountService handles registration, login, and credential rotation.
type AccountService interface {
	Register(ctx context.Context, req models.RegisterRequest, deviceInfo, ipAddress string) (*models.AuthResponse, error)
	Login(ctx context.Context, req models.LoginRequest, deviceInfo, ipAddress string) (*models.AuthResponse, error)
	ChangePassword(ctx context.Context, userID, credential string, req models.ChangePasswordRequest) error
	Profile(ctx context.Context, userID string) (*models.User, error)
}

// DefaultAccountService is the production AccountService.
type DefaultAccountService struct {
	Users    userRepo.UserRepository
	Sessions session.SessionService
}

// NewAccountService wires an AccountService.
func NewAccountService(users userRepo.UserRepository, sessions session.SessionService) *DefaultAccountService {
	return &DefaultAccountService{Users: users, Sessions: sessions}
}

func validRole(role string) bool {
	return role == models.RoleCustomer || role == models.RoleBarber
}

// Register creates the account and opens its first session.
func (s *DefaultAccountService) Register(ctx context.Context, req models.RegisterRequest, deviceInfo, ipAddress string) (*models.AuthResponse, error) {
	if !validRole(req.Role) {
		return nil, utils.Errf(utils.CodeValidation, "unknown role %q", req.Role)
	}
	if len(req.Password) < 8 {
		return nil, utils.Errf(utils.CodeValidation, "password must be at least 8 characters")
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(req.Password), bcrypt.DefaultCost)
	if err != nil {
		return nil, utils.WrapErr(utils.CodeInternal, err, "could not hash password")
	}
	user := &models.User{
		Username:             req.Username,
		PhoneNumber:          req.PhoneNumber,
		Email:                req.Email,
		FirstName:            req.FirstName,
		LastName:             req.LastName,
		PasswordHash:         string(hash),
		Role:                 req.Role,
		ShopName:             req.ShopName,
		ShopAddress:          req.ShopAddress,
		NotificationsEnabled: true,
	}
	if err := s.Users.Insert(ctx, user); err != nil {
		if errors.Is(err, userRepo.ErrDuplicatePhone) {
			return nil, utils.Errf(utils.CodeConflict, "phone number already registered")
		}
		return nil, utils.WrapErr(utils.CodeInternal, err, "could not create account")
	}

	credential, err := s.Sessions.Create(ctx, user.ID, deviceInfo, ipAddress)
	if err != nil {
		return nil, err
	}
	utils.GetLogger().Info("Account registered",
		zap.String("userId", user.ID),
		zap.String("role", user.Role))
	return &models.AuthResponse{Token: credential, UserID: user.ID, Role: user.Role}, nil
}

// Login verifies the password and opens a session. The same unauthorized
// error covers unknown phone and wrong password.
func (s *DefaultAccountService) Login(ctx context.Context, req models.LoginRequest, deviceInfo, ipAddress string) (*models.AuthResponse, error) {
	user, err := s.Users.GetByPhone(ctx, req.PhoneNumber)
	if err != nil {
		if errors.Is(err, userRepo.ErrNotFound) {
			return nil, utils.Errf(utils.CodeUnauthorized, "invalid phone number or password")
		}
		return nil, utils.WrapErr(utils.CodeInternal, err, "could not look up account")
	}
	if err := bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(req.Password)); err != nil {
		return nil, utils.Errf(utils.CodeUnauthorized, "invalid phone number or password")
	}

	credential, err := s.Sessions.Create(ctx, user.ID, deviceInfo, ipAddress)
	if err != nil {
		return nil, err
	}
	return &models.AuthResponse{Token: credential, UserID: user.ID, Role: user.Role}, nil
}

// ChangePassword rotates the password and revokes every other session, so a
// stolen credential dies with the old password. The caller's own session
// survives.
func (s *DefaultAccountService) ChangePassword(ctx context.Context, userID, credential string, req models.ChangePasswordRequest) error {
	user, err := s.Users.GetByID(ctx, userID)
	if err != nil {
		if errors.Is(err, userRepo.ErrNotFound) {
			return utils.Errf(utils.CodeNotFound, "user not found")
		}
		return utils.WrapErr(utils.CodeInternal, err, "could not look up account")
	}
	if err := bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(req.CurrentPassword)); err != nil {
		return utils.Errf(utils.CodeUnauthorized, "current password is incorrect")
	}
	if len(req.NewPassword) < 8 {
		return utils.Errf(utils.CodeValidation, "password must be at least 8 characters")
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(req.NewPassword), bcrypt.DefaultCost)
	if err != nil {
		return utils.WrapErr(utils.CodeInternal, err, "could not hash password")
	}
	if err := s.Users.UpdatePassword(ctx, userID, string(hash)); err != nil {
		return utils.WrapErr(utils.CodeInternal, err, "could not update password")
	}

	revoked, err := s.Sessions.InvalidateOthers(ctx, userID, credential)
	if err != nil {
		utils.GetLogger().Error("Failed to revoke sessions after password change",
			zap.String("userId", userID), zap.Error(err))
	} else {
		utils.GetLogger().Info("Password changed",
			zap.String("userId", userID),
			zap.Int64("revokedSessions", revoked))
	}
	return nil
}

func (s *DefaultAccountService) Profile(ctx context.Context, userID string) (*models.User, error) {
	user, err := s.Users.GetByID(ctx, userID)
	if err != nil {
		if errors.Is(err, userRepo.ErrNotFound) {
			return nil, utils.Errf(utils.CodeNotFound, "user not found")
		}
		return nil, utils.WrapErr(utils.CodeInternal, err, "could not fetch profile")
	}
	return user, nil
}
