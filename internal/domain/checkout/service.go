// internal/domain/checkout/service.go
package checkout

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"
	"github.com/sirupsen/logrus"
	"github.com/your-org/storefront-backend/internal/config"
	"github.com/your-org/storefront-backend/internal/domain/ledger"
)

var (
	ErrHandoffNotFound = errors.New("order handoff not found or expired")
	ErrEmptyHandoff    = errors.New("nothing selected for order")
	ErrNotOwner        = errors.New("handoff belongs to another user")
)

// Handoff sources
const (
	SourceCart = "cart"
	SourceItem = "item"
)

const handoffKeyPrefix = "order:handoff:"

// Handoff is the snapshot passed from the cart or item page to order creation
type Handoff struct {
	Token      string             `json:"token"`
	Email      string             `json:"email"`
	Source     string             `json:"source"`
	Lines      []ledger.OrderLine `json:"lines"`
	TotalPrice int64              `json:"totalPrice"`
	CreatedAt  time.Time          `json:"createdAt"`
	ExpiresAt  time.Time          `json:"expiresAt"`
}

// CartIDs lists the cart rows the handoff came from, if any
func (h *Handoff) CartIDs() []uint {
	ids := make([]uint, 0, len(h.Lines))
	for _, line := range h.Lines {
		if line.CartID != 0 {
			ids = append(ids, line.CartID)
		}
	}
	return ids
}

// Service stores handoffs in Redis under a one-time token
type Service struct {
	redisClient *redis.Client
	ttl         time.Duration
	logger      *logrus.Logger
}

// NewService creates a new checkout service
func NewService(redisClient *redis.Client, cfg *config.Config, logger *logrus.Logger) *Service {
	return &Service{
		redisClient: redisClient,
		ttl:         cfg.Session.OrderHandoffTTL,
		logger:      logger,
	}
}

// Save stores lines for email and returns the handoff with its token
func (s *Service) Save(ctx context.Context, email, source string, lines []ledger.OrderLine) (*Handoff, error) {
	if len(lines) == 0 {
		return nil, ErrEmptyHandoff
	}

	now := time.Now().UTC()
	h := &Handoff{
		Token:      uuid.NewString(),
		Email:      email,
		Source:     source,
		Lines:      lines,
		TotalPrice: ledger.HandoffTotal(lines),
		CreatedAt:  now,
		ExpiresAt:  now.Add(s.ttl),
	}

	data, err := json.Marshal(h)
	if err != nil {
		return nil, fmt.Errorf("failed to marshal handoff: %w", err)
	}
	if err := s.redisClient.Set(ctx, handoffKeyPrefix+h.Token, data, s.ttl).Err(); err != nil {
		return nil, fmt.Errorf("failed to store handoff: %w", err)
	}

	s.logger.WithFields(logrus.Fields{
		"email":  email,
		"source": source,
		"lines":  len(lines),
		"total":  h.TotalPrice,
	}).Info("Order handoff created")

	return h, nil
}

// Get returns the handoff for token if it belongs to email
func (s *Service) Get(ctx context.Context, token, email string) (*Handoff, error) {
	data, err := s.redisClient.Get(ctx, handoffKeyPrefix+token).Bytes()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return nil, ErrHandoffNotFound
		}
		return nil, fmt.Errorf("failed to load handoff: %w", err)
	}
	return decode(data, email)
}

// Consume returns the handoff for token and deletes it atomically
func (s *Service) Consume(ctx context.Context, token, email string) (*Handoff, error) {
	h, err := s.Get(ctx, token, email)
	if err != nil {
		return nil, err
	}

	n, err := s.redisClient.Del(ctx, handoffKeyPrefix+token).Result()
	if err != nil {
		return nil, fmt.Errorf("failed to consume handoff: %w", err)
	}
	// lost a race with another request using the same token
	if n == 0 {
		return nil, ErrHandoffNotFound
	}

	return h, nil
}

// Restore puts a consumed handoff back, used when order creation fails
func (s *Service) Restore(ctx context.Context, h *Handoff) error {
	ttl := time.Until(h.ExpiresAt)
	if ttl <= 0 {
		return nil
	}

	data, err := json.Marshal(h)
	if err != nil {
		return fmt.Errorf("failed to marshal handoff: %w", err)
	}
	return s.redisClient.Set(ctx, handoffKeyPrefix+h.Token, data, ttl).Err()
}

func decode(data []byte, email string) (*Handoff, error) {
	var h Handoff
	if err := json.Unmarshal(data, &h); err != nil {
		return nil, fmt.Errorf("failed to unmarshal handoff: %w", err)
	}
	if h.Email != email {
		return nil, ErrNotOwner
	}
	return &h, nil
}
