package auth_test

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	goredis "github.com/redis/go-redis/v9"

	pgrepo "github.com/IAM-Nitesh/Shaadi-Mantrana-sub002/internal/repo/postgres"
	redrepo "github.com/IAM-Nitesh/Shaadi-Mantrana-sub002/internal/repo/redis"
	auth "github.com/IAM-Nitesh/Shaadi-Mantrana-sub002/internal/services/auth"
)

type userStoreStub struct {
	nextID int64
	users  map[string]pgrepo.UserRecord
}

func newUserStoreStub() *userStoreStub {
	return &userStoreStub{nextID: 100, users: map[string]pgrepo.UserRecord{}}
}

func (s *userStoreStub) GetByEmail(_ context.Context, email string) (pgrepo.UserRecord, error) {
	if u, ok := s.users[email]; ok {
		return u, nil
	}
	return pgrepo.UserRecord{}, pgrepo.ErrUserNotFound
}

func (s *userStoreStub) CreateIfAbsent(_ context.Context, email, role string) (pgrepo.UserRecord, error) {
	if u, ok := s.users[email]; ok {
		return u, nil
	}
	s.nextID++
	u := pgrepo.UserRecord{ID: s.nextID, Email: email, Role: role}
	s.users[email] = u
	return u, nil
}

type inviteStoreStub struct {
	preapproved map[string]bool
	invitations map[string]pgrepo.InvitationRecord
	usedTokens  map[string]bool
}

func newInviteStoreStub() *inviteStoreStub {
	return &inviteStoreStub{
		preapproved: map[string]bool{},
		invitations: map[string]pgrepo.InvitationRecord{},
		usedTokens:  map[string]bool{},
	}
}

func (s *inviteStoreStub) IsEmailPreapproved(_ context.Context, email string) (bool, error) {
	return s.preapproved[email], nil
}

func (s *inviteStoreStub) GetByToken(_ context.Context, token string) (pgrepo.InvitationRecord, error) {
	if inv, ok := s.invitations[token]; ok {
		return inv, nil
	}
	return pgrepo.InvitationRecord{}, pgrepo.ErrInvitationNotFound
}

func (s *inviteStoreStub) MarkUsed(_ context.Context, token string, _ time.Time) error {
	if s.usedTokens[token] {
		return pgrepo.ErrInvitationUsed
	}
	s.usedTokens[token] = true
	return nil
}

type authFixture struct {
	svc     *auth.Service
	users   *userStoreStub
	invites *inviteStoreStub
}

func newAuthFixture(t *testing.T) *authFixture {
	t.Helper()

	mr, err := miniredis.Run()
	if err != nil {
		t.Fatalf("start miniredis: %v", err)
	}
	t.Cleanup(mr.Close)

	client := goredis.NewClient(&goredis.Options{Addr: mr.Addr()})
	t.Cleanup(func() { _ = client.Close() })

	users := newUserStoreStub()
	invites := newInviteStoreStub()
	jwtManager := auth.NewJWTManager("test-secret", 15*time.Minute)
	svc := auth.NewService(jwtManager, redrepo.NewSessionRepo(client), users, invites, 30*24*time.Hour)

	return &authFixture{svc: svc, users: users, invites: invites}
}

func TestLoginPreapprovedEmailCreatesUserAndSession(t *testing.T) {
	f := newAuthFixture(t)
	f.invites.preapproved["ananya@example.com"] = true

	res, err := f.svc.Login(context.Background(), "  Ananya@Example.com ", "")
	if err != nil {
		t.Fatalf("login: %v", err)
	}

	if res.AccessToken == "" || res.RefreshToken == "" {
		t.Fatal("expected both tokens to be issued")
	}
	if res.Me.Email != "ananya@example.com" {
		t.Fatalf("me email: got %q", res.Me.Email)
	}
	if res.Me.Role != "USER" {
		t.Fatalf("me role: got %q want USER", res.Me.Role)
	}

	claims, err := f.svc.ValidateAccessToken(context.Background(), res.AccessToken)
	if err != nil {
		t.Fatalf("validate access token: %v", err)
	}
	if claims.UserID != res.Me.ID {
		t.Fatalf("claims user id: got %d want %d", claims.UserID, res.Me.ID)
	}
}

func TestLoginUninvitedEmailRejected(t *testing.T) {
	f := newAuthFixture(t)

	if _, err := f.svc.Login(context.Background(), "stranger@example.com", ""); !errors.Is(err, auth.ErrNotInvited) {
		t.Fatalf("expected auth.ErrNotInvited, got %v", err)
	}
}

func TestLoginWithInvitationConsumesToken(t *testing.T) {
	f := newAuthFixture(t)
	f.invites.invitations["tok-1"] = pgrepo.InvitationRecord{
		Email:     "rohan@example.com",
		Token:     "tok-1",
		ExpiresAt: time.Now().Add(24 * time.Hour),
	}

	if _, err := f.svc.Login(context.Background(), "rohan@example.com", "tok-1"); err != nil {
		t.Fatalf("login with invitation: %v", err)
	}
	if !f.invites.usedTokens["tok-1"] {
		t.Fatal("invitation must be consumed on login")
	}

	// Mark the shared record used so a replay is rejected.
	inv := f.invites.invitations["tok-1"]
	used := time.Now()
	inv.UsedAt = &used
	f.invites.invitations["tok-1"] = inv

	if _, err := f.svc.Login(context.Background(), "rohan@example.com", "tok-1"); !errors.Is(err, auth.ErrNotInvited) {
		t.Fatalf("expected auth.ErrNotInvited on replayed token, got %v", err)
	}
}

func TestLoginInvitationEmailMismatchRejected(t *testing.T) {
	f := newAuthFixture(t)
	f.invites.invitations["tok-2"] = pgrepo.InvitationRecord{
		Email:     "meera@example.com",
		Token:     "tok-2",
		ExpiresAt: time.Now().Add(24 * time.Hour),
	}

	if _, err := f.svc.Login(context.Background(), "other@example.com", "tok-2"); !errors.Is(err, auth.ErrNotInvited) {
		t.Fatalf("expected auth.ErrNotInvited, got %v", err)
	}
}

func TestRefreshRotatesToken(t *testing.T) {
	f := newAuthFixture(t)
	f.invites.preapproved["ananya@example.com"] = true

	res, err := f.svc.Login(context.Background(), "ananya@example.com", "")
	if err != nil {
		t.Fatalf("login: %v", err)
	}

	refreshed, err := f.svc.Refresh(context.Background(), res.RefreshToken)
	if err != nil {
		t.Fatalf("refresh: %v", err)
	}
	if refreshed.RefreshToken == res.RefreshToken {
		t.Fatal("refresh must rotate the token")
	}
	// The rotated session still knows who the user is.
	if refreshed.Me.Email != "ananya@example.com" {
		t.Fatalf("me email after refresh: got %q", refreshed.Me.Email)
	}
	if refreshed.Me.ID != res.Me.ID || refreshed.Me.Role != res.Me.Role {
		t.Fatalf("me identity changed across refresh: %+v vs %+v", refreshed.Me, res.Me)
	}

	// The old token is dead after rotation.
	if _, err := f.svc.Refresh(context.Background(), res.RefreshToken); !errors.Is(err, auth.ErrUnauthorized) {
		t.Fatalf("expected auth.ErrUnauthorized for rotated-out token, got %v", err)
	}
	// The new one still works.
	if _, err := f.svc.Refresh(context.Background(), refreshed.RefreshToken); err != nil {
		t.Fatalf("refresh with rotated token: %v", err)
	}
}

func TestLogoutInvalidatesAccessToken(t *testing.T) {
	f := newAuthFixture(t)
	f.invites.preapproved["ananya@example.com"] = true

	res, err := f.svc.Login(context.Background(), "ananya@example.com", "")
	if err != nil {
		t.Fatalf("login: %v", err)
	}

	claims, err := f.svc.ValidateAccessToken(context.Background(), res.AccessToken)
	if err != nil {
		t.Fatalf("validate before logout: %v", err)
	}

	if err := f.svc.Logout(context.Background(), claims.SID); err != nil {
		t.Fatalf("logout: %v", err)
	}

	if _, err := f.svc.ValidateAccessToken(context.Background(), res.AccessToken); !errors.Is(err, auth.ErrUnauthorized) {
		t.Fatalf("expected auth.ErrUnauthorized after logout, got %v", err)
	}
}

func TestLogoutAllKillsEverySession(t *testing.T) {
	f := newAuthFixture(t)
	f.invites.preapproved["ananya@example.com"] = true

	first, err := f.svc.Login(context.Background(), "ananya@example.com", "")
	if err != nil {
		t.Fatalf("first login: %v", err)
	}
	second, err := f.svc.Login(context.Background(), "ananya@example.com", "")
	if err != nil {
		t.Fatalf("second login: %v", err)
	}

	if err := f.svc.LogoutAll(context.Background(), first.Me.ID); err != nil {
		t.Fatalf("logout all: %v", err)
	}

	for i, token := range []string{first.AccessToken, second.AccessToken} {
		if _, err := f.svc.ValidateAccessToken(context.Background(), token); !errors.Is(err, auth.ErrUnauthorized) {
			t.Fatalf("session %d survived logout all: %v", i+1, err)
		}
	}
}

func TestValidateAccessTokenRejectsGarbage(t *testing.T) {
	f := newAuthFixture(t)

	if _, err := f.svc.ValidateAccessToken(context.Background(), "not-a-jwt"); !errors.Is(err, auth.ErrUnauthorized) {
		t.Fatalf("expected auth.ErrUnauthorized, got %v", err)
	}
}
