package resettoken

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"

	"bloomit/internal/identity/models"
	id "bloomit/pkg/domain"
	"bloomit/pkg/platform/sentinel"
)

const resetTokenKeyPrefix = "bloomit:reset:"

// RedisResetTokenStore relies on key TTL for expiry and GETDEL for single use.
type RedisResetTokenStore struct {
	client *redis.Client
	clock  func() time.Time
}

func NewRedis(client *redis.Client) *RedisResetTokenStore {
	return &RedisResetTokenStore{client: client, clock: time.Now}
}

type redisResetToken struct {
	UserID    string    `json:"user_id"`
	Email     string    `json:"email"`
	ExpiresAt time.Time `json:"expires_at"`
}

func (s *RedisResetTokenStore) Save(ctx context.Context, token *models.ResetToken) error {
	if token == nil || token.Token == "" {
		return fmt.Errorf("reset token is empty: %w", sentinel.ErrInvalidState)
	}
	ttl := token.ExpiresAt.Sub(s.clock())
	if ttl <= 0 {
		return fmt.Errorf("reset token already expired: %w", sentinel.ErrInvalidState)
	}
	payload, err := json.Marshal(redisResetToken{
		UserID:    token.UserID.String(),
		Email:     token.Email,
		ExpiresAt: token.ExpiresAt,
	})
	if err != nil {
		return fmt.Errorf("encode reset token: %w", err)
	}
	return s.client.Set(ctx, resetTokenKeyPrefix+token.Token, payload, ttl).Err()
}

func (s *RedisResetTokenStore) Consume(ctx context.Context, code string) (*models.ResetToken, error) {
	raw, err := s.client.GetDel(ctx, resetTokenKeyPrefix+code).Bytes()
	if errors.Is(err, redis.Nil) {
		return nil, sentinel.ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("consume reset token: %w", err)
	}
	var stored redisResetToken
	if err := json.Unmarshal(raw, &stored); err != nil {
		return nil, fmt.Errorf("decode reset token: %w", err)
	}
	userID, err := id.ParseUserID(stored.UserID)
	if err != nil {
		return nil, fmt.Errorf("decode reset token user: %w", err)
	}
	token := &models.ResetToken{Token: code, UserID: userID, Email: stored.Email, ExpiresAt: stored.ExpiresAt}
	if token.Expired(s.clock()) {
		return nil, sentinel.ErrExpired
	}
	return token, nil
}
