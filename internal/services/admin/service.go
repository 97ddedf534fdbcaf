package admin

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/IAM-Nitesh/Shaadi-Mantrana-sub002/internal/domain/enums"
	pgrepo "github.com/IAM-Nitesh/Shaadi-Mantrana-sub002/internal/repo/postgres"
	"github.com/IAM-Nitesh/Shaadi-Mantrana-sub002/internal/services/auth"
)

var (
	ErrValidation      = errors.New("validation error")
	ErrProfileNotFound = errors.New("profile not found")
)

const (
	defaultQueueLimit    = 50
	defaultInvitationTTL = 14 * 24 * time.Hour
)

type ProfileStore interface {
	ListPending(ctx context.Context, limit int) ([]pgrepo.ProfileRecord, error)
	SetApproval(ctx context.Context, userID int64, status, rejectReason string) (bool, error)
}

type InviteStore interface {
	Create(ctx context.Context, email, token string, invitedBy int64, expiresAt time.Time) (pgrepo.InvitationRecord, error)
	List(ctx context.Context, limit int) ([]pgrepo.InvitationRecord, error)
	AddPreapprovedEmail(ctx context.Context, email string, addedBy int64) error
	RemovePreapprovedEmail(ctx context.Context, email string) (bool, error)
}

type Config struct {
	InvitationTTL time.Duration
}

// Service covers the admin surface: the profile moderation queue and
// controlled onboarding via invitations and preapproved emails.
type Service struct {
	profiles ProfileStore
	invites  InviteStore
	cfg      Config
	now      func() time.Time
}

func NewService(profiles ProfileStore, invites InviteStore, cfg Config) *Service {
	if cfg.InvitationTTL <= 0 {
		cfg.InvitationTTL = defaultInvitationTTL
	}
	return &Service{
		profiles: profiles,
		invites:  invites,
		cfg:      cfg,
		now:      time.Now,
	}
}

func (s *Service) PendingProfiles(ctx context.Context, limit int) ([]pgrepo.ProfileRecord, error) {
	if limit <= 0 || limit > defaultQueueLimit {
		limit = defaultQueueLimit
	}

	records, err := s.profiles.ListPending(ctx, limit)
	if err != nil {
		return nil, fmt.Errorf("list pending profiles: %w", err)
	}
	return records, nil
}

func (s *Service) ApproveProfile(ctx context.Context, userID int64) error {
	return s.setApproval(ctx, userID, enums.ApprovalApproved, "")
}

func (s *Service) RejectProfile(ctx context.Context, userID int64, reason string) error {
	reason = strings.TrimSpace(reason)
	if reason == "" {
		return ErrValidation
	}
	return s.setApproval(ctx, userID, enums.ApprovalRejected, reason)
}

func (s *Service) setApproval(ctx context.Context, userID int64, status enums.ApprovalStatus, reason string) error {
	if userID <= 0 {
		return ErrValidation
	}

	updated, err := s.profiles.SetApproval(ctx, userID, string(status), reason)
	if err != nil {
		return fmt.Errorf("set approval status: %w", err)
	}
	if !updated {
		return ErrProfileNotFound
	}
	return nil
}

func (s *Service) Invite(ctx context.Context, email string, invitedBy int64) (pgrepo.InvitationRecord, error) {
	email = normalizeEmail(email)
	if email == "" || invitedBy <= 0 {
		return pgrepo.InvitationRecord{}, ErrValidation
	}

	token, err := auth.NewOpaqueToken(24)
	if err != nil {
		return pgrepo.InvitationRecord{}, fmt.Errorf("generate invitation token: %w", err)
	}
	expiresAt := s.now().UTC().Add(s.cfg.InvitationTTL)

	rec, err := s.invites.Create(ctx, email, token, invitedBy, expiresAt)
	if err != nil {
		return pgrepo.InvitationRecord{}, fmt.Errorf("create invitation: %w", err)
	}
	return rec, nil
}

func (s *Service) Invitations(ctx context.Context, limit int) ([]pgrepo.InvitationRecord, error) {
	if limit <= 0 || limit > defaultQueueLimit {
		limit = defaultQueueLimit
	}

	records, err := s.invites.List(ctx, limit)
	if err != nil {
		return nil, fmt.Errorf("list invitations: %w", err)
	}
	return records, nil
}

func (s *Service) PreapproveEmail(ctx context.Context, email string, addedBy int64) error {
	email = normalizeEmail(email)
	if email == "" || addedBy <= 0 {
		return ErrValidation
	}

	if err := s.invites.AddPreapprovedEmail(ctx, email, addedBy); err != nil {
		return fmt.Errorf("preapprove email: %w", err)
	}
	return nil
}

func (s *Service) RevokePreapproval(ctx context.Context, email string) (bool, error) {
	email = normalizeEmail(email)
	if email == "" {
		return false, ErrValidation
	}

	removed, err := s.invites.RemovePreapprovedEmail(ctx, email)
	if err != nil {
		return false, fmt.Errorf("revoke preapproval: %w", err)
	}
	return removed, nil
}

func normalizeEmail(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}
