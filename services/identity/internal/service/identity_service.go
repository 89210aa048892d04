package service

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/voyago/travelbook/pkg/events"
	"github.com/voyago/travelbook/pkg/hash"
	"github.com/voyago/travelbook/pkg/logger"
	"github.com/voyago/travelbook/pkg/revoke"
	"github.com/voyago/travelbook/pkg/token"
	"github.com/voyago/travelbook/services/identity/internal/domain"
	"github.com/voyago/travelbook/services/identity/internal/mailer"
	"github.com/voyago/travelbook/services/identity/internal/repository"
)

// ErrValidation marks malformed input; handlers map it to 400.
var ErrValidation = errors.New("validation failed")

// IdentityService orchestrates every credential flow. It is the sole
// issuer of tokens and, through its repository, the sole writer of the
// users table.
type IdentityService interface {
	Register(ctx context.Context, req *domain.RegisterRequest) (*domain.User, error)
	Login(ctx context.Context, req *domain.LoginRequest) (*domain.LoginResponse, error)
	ForgotPassword(ctx context.Context, email string) (string, error)
	ResetPassword(ctx context.Context, req *domain.ResetPasswordRequest) (string, error)
	ChangePassword(ctx context.Context, req *domain.ChangePasswordRequest) error
	Logout(ctx context.Context, tokenString string) error
}

type identityService struct {
	users       repository.UserRepository
	codec       *token.Codec
	revocations revoke.Store
	mailer      mailer.Service
	bus         events.Publisher
}

func NewIdentityService(
	users repository.UserRepository,
	codec *token.Codec,
	revocations revoke.Store,
	mail mailer.Service,
	bus events.Publisher,
) IdentityService {
	return &identityService{
		users:       users,
		codec:       codec,
		revocations: revocations,
		mailer:      mail,
		bus:         bus,
	}
}

func (s *identityService) Register(ctx context.Context, req *domain.RegisterRequest) (*domain.User, error) {
	req.Normalize()
	if err := req.Validate(); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrValidation, err)
	}

	existing, err := s.users.FindByEmail(ctx, req.Email)
	if err != nil {
		return nil, fmt.Errorf("check existing user: %w", err)
	}
	if existing != nil {
		return nil, domain.ErrDuplicateUser
	}

	digest, err := hash.Hash(req.Password)
	if err != nil {
		return nil, fmt.Errorf("hash password: %w", err)
	}

	user, err := s.users.Create(ctx, req, digest)
	if err != nil {
		return nil, fmt.Errorf("create user: %w", err)
	}

	s.publish(ctx, events.SubjectUserRegistered, events.UserRegisteredEvent{
		UserID:       user.ID,
		Email:        user.Email,
		Role:         string(user.Role),
		RegisteredAt: user.CreatedAt,
	})

	logger.InfoContext(ctx, "User registered", "email", user.Email, "role", user.Role)
	return user, nil
}

func (s *identityService) Login(ctx context.Context, req *domain.LoginRequest) (*domain.LoginResponse, error) {
	req.Normalize()
	if err := req.Validate(); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrValidation, err)
	}

	user, err := s.users.FindByEmail(ctx, req.Email)
	if err != nil {
		return nil, fmt.Errorf("find user: %w", err)
	}
	if user == nil {
		return nil, domain.ErrUserNotFound
	}

	if !hash.Verify(req.Password, user.PasswordHash) {
		logger.WarnContext(ctx, "Login failed: invalid credentials", "email", req.Email)
		return nil, domain.ErrInvalidCredentials
	}

	signed, err := s.codec.Issue(user.Email, []token.Role{user.Role}, user.ID, user.Name, user.ContactNumber)
	if err != nil {
		return nil, fmt.Errorf("issue token: %w", err)
	}

	s.publish(ctx, events.SubjectUserLoggedIn, events.UserLoggedInEvent{
		UserID:     user.ID,
		Email:      user.Email,
		Role:       string(user.Role),
		LoggedInAt: time.Now(),
	})

	logger.InfoContext(ctx, "Login successful", "email", user.Email)
	return &domain.LoginResponse{
		Message: "Login successful",
		Email:   user.Email,
		Role:    string(user.Role),
		Token:   signed,
	}, nil
}

func (s *identityService) ForgotPassword(ctx context.Context, email string) (string, error) {
	req := domain.ForgotPasswordRequest{Email: email}
	req.Normalize()
	if err := req.Validate(); err != nil {
		return "", fmt.Errorf("%w: %v", ErrValidation, err)
	}

	user, err := s.users.FindByEmail(ctx, req.Email)
	if err != nil {
		return "", fmt.Errorf("find user: %w", err)
	}
	if user == nil {
		return "", domain.ErrUserNotFound
	}

	// A fresh token every call; any previous one is overwritten and dead.
	resetToken := uuid.NewString()
	if err := s.users.SetResetToken(ctx, user.ID, resetToken, user.Email); err != nil {
		return "", fmt.Errorf("persist reset token: %w", err)
	}

	if err := s.mailer.SendPasswordResetEmail(user.Email, user.Name, resetToken); err != nil {
		logger.ErrorContext(ctx, "Failed to send password reset email", "error", err, "email", user.Email)
	}

	logger.InfoContext(ctx, "Password reset token generated", "email", user.Email)
	return resetToken, nil
}

func (s *identityService) ResetPassword(ctx context.Context, req *domain.ResetPasswordRequest) (string, error) {
	if err := req.Validate(); err != nil {
		return "", fmt.Errorf("%w: %v", ErrValidation, err)
	}
	if req.NewPassword != req.ConfirmPassword {
		return "", domain.ErrPasswordMismatch
	}

	user, err := s.users.FindByResetToken(ctx, req.ResetToken)
	if err != nil {
		return "", fmt.Errorf("find user by reset token: %w", err)
	}
	if user == nil {
		return "", domain.ErrInvalidResetToken
	}

	digest, err := hash.Hash(req.NewPassword)
	if err != nil {
		return "", fmt.Errorf("hash password: %w", err)
	}

	// One statement writes the hash and clears the token: single-use.
	if err := s.users.ResetPassword(ctx, user.ID, digest, user.Email); err != nil {
		return "", fmt.Errorf("persist new password: %w", err)
	}

	s.publish(ctx, events.SubjectPasswordChanged, events.PasswordChangedEvent{
		UserID:    user.ID,
		Email:     user.Email,
		ChangedAt: time.Now(),
		Flow:      "reset",
	})

	logger.InfoContext(ctx, "Password reset", "email", user.Email)
	return user.Email, nil
}

func (s *identityService) ChangePassword(ctx context.Context, req *domain.ChangePasswordRequest) error {
	req.Normalize()
	if err := req.Validate(); err != nil {
		return fmt.Errorf("%w: %v", ErrValidation, err)
	}

	user, err := s.users.FindByEmail(ctx, req.Email)
	if err != nil {
		return fmt.Errorf("find user: %w", err)
	}
	if user == nil {
		return domain.ErrUserNotFound
	}

	// The current password gates everything else: a wrong one fails even
	// when the new/confirm pair would also have failed.
	if !hash.Verify(req.CurrentPassword, user.PasswordHash) {
		logger.WarnContext(ctx, "Change password failed: current password incorrect", "email", req.Email)
		return domain.ErrInvalidCredentials
	}

	if req.NewPassword != req.ConfirmPassword {
		return domain.ErrPasswordMismatch
	}

	digest, err := hash.Hash(req.NewPassword)
	if err != nil {
		return fmt.Errorf("hash password: %w", err)
	}

	if err := s.users.UpdatePassword(ctx, user.ID, digest, user.Email); err != nil {
		return fmt.Errorf("persist new password: %w", err)
	}

	s.publish(ctx, events.SubjectPasswordChanged, events.PasswordChangedEvent{
		UserID:    user.ID,
		Email:     user.Email,
		ChangedAt: time.Now(),
		Flow:      "change",
	})

	logger.InfoContext(ctx, "Password changed", "email", user.Email)
	return nil
}

func (s *identityService) Logout(ctx context.Context, tokenString string) error {
	// Claim extraction is best-effort, for logging and the revocation TTL
	// only. A token too mangled to verify still gets blacklisted.
	var expiresAt time.Time
	var email string
	if claims, err := s.codec.Verify(tokenString); err == nil {
		email = claims.Subject
		if claims.ExpiresAt != nil {
			expiresAt = claims.ExpiresAt.Time
		}
	} else {
		logger.WarnContext(ctx, "Logout: could not extract claims from token", "error", err)
	}

	if err := s.revocations.Invalidate(ctx, tokenString, expiresAt); err != nil {
		return fmt.Errorf("invalidate token: %w", err)
	}

	s.publish(ctx, events.SubjectTokenRevoked, events.TokenRevokedEvent{
		Email:     email,
		RevokedAt: time.Now(),
	})

	logger.InfoContext(ctx, "Token revoked", "email", email)
	return nil
}

func (s *identityService) publish(ctx context.Context, subject string, event any) {
	if s.bus == nil {
		return
	}
	if err := s.bus.Publish(ctx, subject, event); err != nil {
		logger.WarnContext(ctx, "Failed to publish event", "subject", subject, "error", err)
	}
}
