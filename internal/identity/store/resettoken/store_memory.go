package resettoken

import (
	"context"
	"fmt"
	"sync"
	"time"

	"bloomit/internal/identity/models"
	"bloomit/pkg/platform/sentinel"
)

// InMemoryResetTokenStore keeps reset codes in process memory. Consume
// removes the code so each one can be redeemed once.
type InMemoryResetTokenStore struct {
	mu     sync.Mutex
	tokens map[string]models.ResetToken
	clock  func() time.Time
}

type Option func(*InMemoryResetTokenStore)

func WithClock(clock func() time.Time) Option {
	return func(s *InMemoryResetTokenStore) {
		if clock != nil {
			s.clock = clock
		}
	}
}

func New(opts ...Option) *InMemoryResetTokenStore {
	s := &InMemoryResetTokenStore{tokens: make(map[string]models.ResetToken), clock: time.Now}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

func (s *InMemoryResetTokenStore) Save(_ context.Context, token *models.ResetToken) error {
	if token == nil || token.Token == "" {
		return fmt.Errorf("reset token is empty: %w", sentinel.ErrInvalidState)
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	s.tokens[token.Token] = *token
	return nil
}

// Consume returns ErrNotFound for unknown or already redeemed codes and
// ErrExpired for codes past their expiry. Both outcomes remove the code.
func (s *InMemoryResetTokenStore) Consume(_ context.Context, code string) (*models.ResetToken, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	token, ok := s.tokens[code]
	if !ok {
		return nil, sentinel.ErrNotFound
	}
	delete(s.tokens, code)
	if token.Expired(s.clock()) {
		return nil, sentinel.ErrExpired
	}
	return &token, nil
}
