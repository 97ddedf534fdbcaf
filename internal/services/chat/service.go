package chat

import (
	"context"
	"errors"
	"fmt"
	"strings"

	pgrepo "github.com/IAM-Nitesh/Shaadi-Mantrana-sub002/internal/repo/postgres"
)

var (
	ErrValidation = errors.New("validation error")
	ErrForbidden  = errors.New("not a conversation member")
	ErrNotFound   = errors.New("conversation not found")
)

const (
	maxMessageLength = 2000
	defaultPageSize  = 30
	maxPageSize      = 100
)

type ConversationStore interface {
	GetByID(ctx context.Context, conversationID int64) (pgrepo.ConversationRecord, error)
	GetByConnection(ctx context.Context, connectionID int64) (pgrepo.ConversationRecord, error)
}

type MessageStore interface {
	Append(ctx context.Context, conversationID, senderUserID int64, body string) (pgrepo.MessageRecord, error)
	ListBefore(ctx context.Context, conversationID, beforeID int64, limit int) ([]pgrepo.MessageRecord, error)
}

type MembershipChecker interface {
	IsMember(ctx context.Context, connectionID, userID int64) (bool, int64, error)
}

// Service guards conversation access behind connection membership and
// relays messages between matched users.
type Service struct {
	conversations ConversationStore
	messages      MessageStore
	members       MembershipChecker
}

type Dependencies struct {
	Conversations ConversationStore
	Messages      MessageStore
	Members       MembershipChecker
}

func NewService(deps Dependencies) *Service {
	return &Service{
		conversations: deps.Conversations,
		messages:      deps.Messages,
		members:       deps.Members,
	}
}

func (s *Service) Send(ctx context.Context, conversationID, senderID int64, body string) (pgrepo.MessageRecord, error) {
	body = strings.TrimSpace(body)
	if conversationID <= 0 || senderID <= 0 || body == "" {
		return pgrepo.MessageRecord{}, ErrValidation
	}
	if len(body) > maxMessageLength {
		return pgrepo.MessageRecord{}, ErrValidation
	}

	if err := s.authorize(ctx, conversationID, senderID); err != nil {
		return pgrepo.MessageRecord{}, err
	}

	msg, err := s.messages.Append(ctx, conversationID, senderID, body)
	if err != nil {
		return pgrepo.MessageRecord{}, fmt.Errorf("append message: %w", err)
	}
	return msg, nil
}

func (s *Service) History(ctx context.Context, conversationID, userID, beforeID int64, limit int) ([]pgrepo.MessageRecord, error) {
	if conversationID <= 0 || userID <= 0 {
		return nil, ErrValidation
	}
	if limit <= 0 {
		limit = defaultPageSize
	}
	if limit > maxPageSize {
		limit = maxPageSize
	}

	if err := s.authorize(ctx, conversationID, userID); err != nil {
		return nil, err
	}

	messages, err := s.messages.ListBefore(ctx, conversationID, beforeID, limit)
	if err != nil {
		return nil, fmt.Errorf("list messages: %w", err)
	}
	return messages, nil
}

// ForConnection resolves the conversation a connection owns, checking the
// caller is one of its two members.
func (s *Service) ForConnection(ctx context.Context, connectionID, userID int64) (pgrepo.ConversationRecord, error) {
	if connectionID <= 0 || userID <= 0 {
		return pgrepo.ConversationRecord{}, ErrValidation
	}

	ok, _, err := s.members.IsMember(ctx, connectionID, userID)
	if err != nil {
		return pgrepo.ConversationRecord{}, fmt.Errorf("check connection membership: %w", err)
	}
	if !ok {
		return pgrepo.ConversationRecord{}, ErrForbidden
	}

	conv, err := s.conversations.GetByConnection(ctx, connectionID)
	if err != nil {
		if errors.Is(err, pgrepo.ErrConversationNotFound) {
			return pgrepo.ConversationRecord{}, ErrNotFound
		}
		return pgrepo.ConversationRecord{}, fmt.Errorf("get conversation: %w", err)
	}
	return conv, nil
}

func (s *Service) authorize(ctx context.Context, conversationID, userID int64) error {
	conv, err := s.conversations.GetByID(ctx, conversationID)
	if err != nil {
		if errors.Is(err, pgrepo.ErrConversationNotFound) {
			return ErrNotFound
		}
		return fmt.Errorf("get conversation: %w", err)
	}

	ok, _, err := s.members.IsMember(ctx, conv.ConnectionID, userID)
	if err != nil {
		return fmt.Errorf("check connection membership: %w", err)
	}
	if !ok {
		return ErrForbidden
	}
	return nil
}
