package service

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/luminahealth/medlock/internal/auth/domain"
	"github.com/luminahealth/medlock/internal/auth/store"
	"github.com/luminahealth/medlock/internal/metrics"
	"github.com/luminahealth/medlock/pkg/cryptox"
	"github.com/luminahealth/medlock/pkg/idx"
	"github.com/luminahealth/medlock/pkg/slogx"
)

var ErrUnknownRole = errors.New("unknown_role")

// UserService manages account records. Login, lockout, and MFA state live on
// the same rows but are driven by their own services.
type UserService struct {
	Store store.Store
	Audit *AuditService

	// Now supplies the current time. Nil means time.Now; tests inject it.
	Now func() time.Time
}

// CreateUserInput carries everything needed to provision an account.
type CreateUserInput struct {
	Username string
	Email    string
	Password string
	Role     string // defaults to employee
	// RequirePasswordChange forces a rotation on first login, for accounts
	// provisioned with an initial password the user did not pick.
	RequirePasswordChange bool
}

// Create provisions a new account. The initial password must pass policy.
// actorID names who provisioned it; empty means the system itself (bootstrap).
func (s *UserService) Create(ctx context.Context, actorID string, in CreateUserInput) (domain.User, error) {
	l := slogx.FromContext(ctx)
	now := s.now()

	// 1. Resolve and check the role.
	role := in.Role
	if role == "" {
		role = domain.RoleEmployee
	}
	switch role {
	case domain.RoleAdmin, domain.RoleComplianceOfficer, domain.RoleEmployee:
	default:
		return domain.User{}, ErrUnknownRole
	}

	// 2. The initial password obeys the same policy as rotations.
	if violations := ValidatePassword(in.Password); len(violations) > 0 {
		return domain.User{}, &PolicyViolationError{Violations: violations}
	}

	hash, err := cryptox.HashPassword(in.Password)
	if err != nil {
		return domain.User{}, fmt.Errorf("failed to hash password: %w", err)
	}

	// 3. Insert.
	u := domain.User{
		ID:                    idx.New().String(),
		Username:              in.Username,
		Email:                 in.Email,
		PasswordHash:          hash,
		Role:                  role,
		Status:                domain.AccountActive,
		RequirePasswordChange: in.RequirePasswordChange,
		CreatedAt:             now,
		UpdatedAt:             now,
	}
	if err := s.Store.Users().CreateUser(ctx, u); err != nil {
		if errors.Is(err, store.ErrAlreadyExists) {
			return domain.User{}, ErrUserExists
		}
		return domain.User{}, fmt.Errorf("failed to create user: %w", err)
	}

	// 4. Audit the provisioning.
	if err := s.Audit.Record(ctx, actorID, domain.AuditUserCreated, domain.EntityUser, u.ID, "", map[string]any{
		"username": u.Username,
		"role":     u.Role,
	}); err != nil {
		return domain.User{}, err
	}

	l.Info("user created", "user_id", u.ID, "username", u.Username, "role", u.Role)
	return u, nil
}

// GetUserByID fetches one account.
func (s *UserService) GetUserByID(ctx context.Context, userID string) (domain.User, error) {
	u, err := s.Store.Users().GetUserByID(ctx, userID)
	if errors.Is(err, store.ErrNotFound) {
		return domain.User{}, ErrUserNotFound
	}
	if err != nil {
		return domain.User{}, fmt.Errorf("failed to get user: %w", err)
	}
	return u, nil
}

// Deactivate disables an account and cuts off its live sessions. The record
// and its audit trail stay on file.
func (s *UserService) Deactivate(ctx context.Context, actorID, userID string) error {
	now := s.now()

	u, err := s.GetUserByID(ctx, userID)
	if err != nil {
		return err
	}
	if u.Status == domain.AccountInactive {
		return nil
	}

	var revoked int64
	err = s.Store.WithTx(ctx, func(tx store.Tx) error {
		if err := tx.Users().SetStatus(ctx, u.ID, domain.AccountInactive); err != nil {
			return fmt.Errorf("failed to set status: %w", err)
		}
		revoked, err = tx.Sessions().RevokeUserSessions(ctx, u.ID, "", now)
		if err != nil {
			return fmt.Errorf("failed to revoke sessions: %w", err)
		}
		return nil
	})
	if err != nil {
		return err
	}

	if revoked > 0 {
		metrics.SessionsRevoked.WithLabelValues("deactivated").Add(float64(revoked))
	}

	return s.Audit.Record(ctx, actorID, domain.AuditUserDeactivated, domain.EntityUser, u.ID, "", map[string]any{
		"revoked_sessions": revoked,
	})
}

// Reactivate re-enables a deactivated account. Lockouts are not cleared this
// way; they expire on their own.
func (s *UserService) Reactivate(ctx context.Context, actorID, userID string) error {
	u, err := s.GetUserByID(ctx, userID)
	if err != nil {
		return err
	}
	if u.Status != domain.AccountInactive {
		return nil
	}

	if err := s.Store.Users().SetStatus(ctx, u.ID, domain.AccountActive); err != nil {
		return fmt.Errorf("failed to set status: %w", err)
	}

	return s.Audit.Record(ctx, actorID, domain.AuditUserReactivated, domain.EntityUser, u.ID, "", nil)
}

func (s *UserService) now() time.Time {
	if s.Now != nil {
		return s.Now().UTC()
	}
	return time.Now().UTC()
}
