package auth

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/IAM-Nitesh/Shaadi-Mantrana-sub002/internal/domain/enums"
	pgrepo "github.com/IAM-Nitesh/Shaadi-Mantrana-sub002/internal/repo/postgres"
)

const (
	MinRefreshTTL = 30 * 24 * time.Hour
	MaxRefreshTTL = 90 * 24 * time.Hour
)

type SessionStore interface {
	Create(ctx context.Context, session SessionRecord, refreshToken string) error
	GetSession(ctx context.Context, sid string) (SessionRecord, error)
	GetByRefreshToken(ctx context.Context, refreshToken string) (SessionRecord, error)
	RotateRefresh(ctx context.Context, sid, oldRefreshToken, newRefreshToken string, expiresAt time.Time) error
	DeleteSession(ctx context.Context, sid string) error
	DeleteAllForUser(ctx context.Context, userID int64) error
}

type UserStore interface {
	GetByEmail(ctx context.Context, email string) (pgrepo.UserRecord, error)
	CreateIfAbsent(ctx context.Context, email, role string) (pgrepo.UserRecord, error)
}

type InviteStore interface {
	IsEmailPreapproved(ctx context.Context, email string) (bool, error)
	GetByToken(ctx context.Context, token string) (pgrepo.InvitationRecord, error)
	MarkUsed(ctx context.Context, token string, usedAt time.Time) error
}

type Service struct {
	jwt        *JWTManager
	sessions   SessionStore
	users      UserStore
	invites    InviteStore
	refreshTTL time.Duration
	now        func() time.Time
}

func NewService(jwtManager *JWTManager, sessions SessionStore, users UserStore, invites InviteStore, refreshTTL time.Duration) *Service {
	if refreshTTL < MinRefreshTTL {
		refreshTTL = MinRefreshTTL
	}
	if refreshTTL > MaxRefreshTTL {
		refreshTTL = MaxRefreshTTL
	}

	return &Service{
		jwt:        jwtManager,
		sessions:   sessions,
		users:      users,
		invites:    invites,
		refreshTTL: refreshTTL,
		now:        time.Now,
	}
}

// Login admits an email that is either preapproved by an admin or carries an
// unused invitation token. First login creates the user row.
func (s *Service) Login(ctx context.Context, email, invitationToken string) (AuthResult, error) {
	email = strings.ToLower(strings.TrimSpace(email))
	if email == "" || !strings.Contains(email, "@") {
		return AuthResult{}, ErrInvalidInput
	}
	if s.users == nil || s.invites == nil {
		return AuthResult{}, fmt.Errorf("auth dependencies are not configured")
	}

	admitted, err := s.invites.IsEmailPreapproved(ctx, email)
	if err != nil {
		return AuthResult{}, fmt.Errorf("check preapproved email: %w", err)
	}

	if !admitted && strings.TrimSpace(invitationToken) != "" {
		invitation, err := s.invites.GetByToken(ctx, strings.TrimSpace(invitationToken))
		if err != nil {
			if errors.Is(err, pgrepo.ErrInvitationNotFound) {
				return AuthResult{}, ErrNotInvited
			}
			return AuthResult{}, fmt.Errorf("get invitation: %w", err)
		}
		if invitation.Email != email || invitation.UsedAt != nil || s.now().After(invitation.ExpiresAt) {
			return AuthResult{}, ErrNotInvited
		}
		if err := s.invites.MarkUsed(ctx, invitation.Token, s.now().UTC()); err != nil {
			if errors.Is(err, pgrepo.ErrInvitationUsed) {
				return AuthResult{}, ErrNotInvited
			}
			return AuthResult{}, fmt.Errorf("consume invitation: %w", err)
		}
		admitted = true
	}

	if !admitted {
		return AuthResult{}, ErrNotInvited
	}

	user, err := s.users.CreateIfAbsent(ctx, email, string(enums.RoleUser))
	if err != nil {
		return AuthResult{}, fmt.Errorf("create user on login: %w", err)
	}

	return s.issueForUser(ctx, user.ID, user.Email, user.Role)
}

func (s *Service) issueForUser(ctx context.Context, userID int64, email, role string) (AuthResult, error) {
	sid, err := NewSessionID()
	if err != nil {
		return AuthResult{}, fmt.Errorf("generate session id: %w", err)
	}

	refreshToken, err := NewRefreshToken()
	if err != nil {
		return AuthResult{}, fmt.Errorf("generate refresh token: %w", err)
	}

	expiresAt := s.now().Add(s.refreshTTL)
	if err := s.sessions.Create(ctx, SessionRecord{
		SID:       sid,
		UserID:    userID,
		Email:     email,
		Role:      role,
		ExpiresAt: expiresAt,
	}, refreshToken); err != nil {
		return AuthResult{}, fmt.Errorf("create session: %w", err)
	}

	accessToken, accessExpires, err := s.jwt.GenerateAccessToken(userID, sid, role)
	if err != nil {
		return AuthResult{}, fmt.Errorf("generate access token: %w", err)
	}

	return AuthResult{
		AccessToken:   accessToken,
		RefreshToken:  refreshToken,
		AccessExpires: accessExpires,
		Me: Me{
			ID:    userID,
			Email: email,
			Role:  role,
		},
	}, nil
}

func (s *Service) Refresh(ctx context.Context, refreshToken string) (AuthResult, error) {
	if strings.TrimSpace(refreshToken) == "" {
		return AuthResult{}, ErrInvalidInput
	}

	session, err := s.sessions.GetByRefreshToken(ctx, refreshToken)
	if err != nil {
		if errors.Is(err, ErrRefreshNotFound) {
			return AuthResult{}, ErrUnauthorized
		}
		return AuthResult{}, fmt.Errorf("get refresh token session: %w", err)
	}
	if s.now().After(session.ExpiresAt) {
		return AuthResult{}, ErrUnauthorized
	}

	newRefreshToken, err := NewRefreshToken()
	if err != nil {
		return AuthResult{}, fmt.Errorf("generate refresh token: %w", err)
	}

	newExpiresAt := s.now().Add(s.refreshTTL)
	if err := s.sessions.RotateRefresh(ctx, session.SID, refreshToken, newRefreshToken, newExpiresAt); err != nil {
		if errors.Is(err, ErrRefreshNotFound) {
			return AuthResult{}, ErrUnauthorized
		}
		return AuthResult{}, fmt.Errorf("rotate refresh token: %w", err)
	}

	accessToken, accessExpires, err := s.jwt.GenerateAccessToken(session.UserID, session.SID, session.Role)
	if err != nil {
		return AuthResult{}, fmt.Errorf("generate access token: %w", err)
	}

	return AuthResult{
		AccessToken:   accessToken,
		RefreshToken:  newRefreshToken,
		AccessExpires: accessExpires,
		Me: Me{
			ID:    session.UserID,
			Email: session.Email,
			Role:  session.Role,
		},
	}, nil
}

func (s *Service) Logout(ctx context.Context, sid string) error {
	if strings.TrimSpace(sid) == "" {
		return ErrInvalidInput
	}
	if err := s.sessions.DeleteSession(ctx, sid); err != nil {
		return fmt.Errorf("delete session: %w", err)
	}
	return nil
}

func (s *Service) LogoutAll(ctx context.Context, userID int64) error {
	if userID <= 0 {
		return ErrInvalidInput
	}
	if err := s.sessions.DeleteAllForUser(ctx, userID); err != nil {
		return fmt.Errorf("delete all sessions: %w", err)
	}
	return nil
}

func (s *Service) ValidateAccessToken(ctx context.Context, accessToken string) (AccessClaims, error) {
	claims, err := s.jwt.ParseAccessToken(accessToken)
	if err != nil {
		return AccessClaims{}, ErrUnauthorized
	}

	session, err := s.sessions.GetSession(ctx, claims.SID)
	if err != nil {
		if errors.Is(err, ErrSessionNotFound) {
			return AccessClaims{}, ErrUnauthorized
		}
		return AccessClaims{}, fmt.Errorf("get session: %w", err)
	}

	if session.UserID != claims.UserID || session.Role != claims.Role {
		return AccessClaims{}, ErrUnauthorized
	}
	if s.now().After(session.ExpiresAt) {
		return AccessClaims{}, ErrUnauthorized
	}

	return claims, nil
}
