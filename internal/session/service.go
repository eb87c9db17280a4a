// README: OTP login flow and session persistence.
package session

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"sync"
	"time"

	"github.com/google/uuid"

	"courierd/internal/backend"
	"courierd/internal/kv"
)

var ErrUnauthorized = errors.New("not signed in")

const sessionKeyPrefix = "courier:session:"

// OTPClient is the slice of the backend used for the toy credential
// exchange.
type OTPClient interface {
	RequestOTP(ctx context.Context, phone string) error
	VerifyOTP(ctx context.Context, phone, otp string) (backend.StaffProfile, error)
}

// Service owns the courier's sign-in state. The verified profile is
// persisted in the KV store keyed by session id and cached in memory so
// the background refresher can read it without I/O.
type Service struct {
	backend OTPClient
	store   kv.KV
	secret  string
	ttl     time.Duration
	log     *slog.Logger

	mu      sync.RWMutex
	current *backend.StaffProfile
}

func NewService(client OTPClient, store kv.KV, secret string, ttl time.Duration, log *slog.Logger) *Service {
	if ttl <= 0 {
		ttl = 30 * 24 * time.Hour
	}
	if log == nil {
		log = slog.Default()
	}
	return &Service{backend: client, store: store, secret: secret, ttl: ttl, log: log}
}

// RequestOTP asks the backend to text a code to the phone.
func (s *Service) RequestOTP(ctx context.Context, phone string) error {
	return s.backend.RequestOTP(ctx, phone)
}

// Login verifies the code with the backend, persists the profile, and
// issues a local token for subsequent view requests.
func (s *Service) Login(ctx context.Context, phone, otp string) (string, backend.StaffProfile, error) {
	profile, err := s.backend.VerifyOTP(ctx, phone, otp)
	if err != nil {
		return "", backend.StaffProfile{}, err
	}

	sessionID := uuid.NewString()
	buf, err := json.Marshal(profile)
	if err != nil {
		return "", backend.StaffProfile{}, fmt.Errorf("encode profile: %w", err)
	}
	if err := s.store.Set(ctx, sessionKeyPrefix+sessionID, buf); err != nil {
		return "", backend.StaffProfile{}, fmt.Errorf("persist session: %w", err)
	}

	token, err := generateToken(profile.ID, sessionID, s.secret, s.ttl)
	if err != nil {
		return "", backend.StaffProfile{}, fmt.Errorf("issue token: %w", err)
	}

	s.mu.Lock()
	s.current = &profile
	s.mu.Unlock()
	return token, profile, nil
}

// Resolve authenticates a bearer token and returns the staff profile.
func (s *Service) Resolve(ctx context.Context, token string) (backend.StaffProfile, error) {
	claims, err := validateToken(token, s.secret)
	if err != nil {
		return backend.StaffProfile{}, ErrUnauthorized
	}
	buf, err := s.store.Get(ctx, sessionKeyPrefix+claims.SessionID)
	if err != nil {
		return backend.StaffProfile{}, fmt.Errorf("read session: %w", err)
	}
	if buf == nil {
		return backend.StaffProfile{}, ErrUnauthorized
	}
	var profile backend.StaffProfile
	if err := json.Unmarshal(buf, &profile); err != nil {
		return backend.StaffProfile{}, fmt.Errorf("decode session: %w", err)
	}

	s.mu.Lock()
	s.current = &profile
	s.mu.Unlock()
	return profile, nil
}

// Logout discards the persisted session.
func (s *Service) Logout(ctx context.Context, token string) error {
	claims, err := validateToken(token, s.secret)
	if err != nil {
		return ErrUnauthorized
	}
	if err := s.store.Del(ctx, sessionKeyPrefix+claims.SessionID); err != nil {
		s.log.Error("deleting session failed", "error", err)
	}
	s.mu.Lock()
	s.current = nil
	s.mu.Unlock()
	return nil
}

// Current returns the most recently seen profile, for components that
// need the staff identity outside a request (background refresh).
func (s *Service) Current() (backend.StaffProfile, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if s.current == nil {
		return backend.StaffProfile{}, false
	}
	return *s.current, true
}
