package auth

import (
	"crypto/subtle"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"go.uber.org/zap"

	"github.com/mamadbah2/outletdesk/internal/config"
	"github.com/mamadbah2/outletdesk/internal/domain/models"
	"github.com/mamadbah2/outletdesk/internal/session"
)

// ErrInvalidCredentials indicates a wrong username or password.
var ErrInvalidCredentials = errors.New("invalid username or password")

// ErrUnknownOutlet indicates the selected outlet is not in the outlet list.
var ErrUnknownOutlet = errors.New("unknown outlet")

// ErrInvalidToken indicates a session cookie that fails verification.
var ErrInvalidToken = errors.New("invalid session token")

// Claims is the payload of the session cookie.
type Claims struct {
	SessionID string `json:"sid"`
	Outlet    string `json:"outlet"`
	jwt.RegisteredClaims
}

// Service signs staff in against the shared credentials.
type Service struct {
	cfg      config.AuthConfig
	registry *session.Registry
	logger   *zap.Logger
	now      func() time.Time
}

// NewService wires the login service to the session registry.
func NewService(cfg config.AuthConfig, registry *session.Registry, logger *zap.Logger) *Service {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Service{cfg: cfg, registry: registry, logger: logger, now: time.Now}
}

// Login checks the credentials and outlet, registers a session and returns its signed token.
// Nothing is registered on failure.
func (s *Service) Login(username, password, outlet string) (string, error) {
	userOK := subtle.ConstantTimeCompare([]byte(strings.TrimSpace(username)), []byte(s.cfg.Username)) == 1
	passOK := subtle.ConstantTimeCompare([]byte(password), []byte(s.cfg.Password)) == 1
	if !userOK || !passOK {
		s.logger.Warn("login rejected", zap.String("outlet", outlet))
		return "", ErrInvalidCredentials
	}

	if !models.IsOutlet(outlet) {
		return "", fmt.Errorf("%w: %q", ErrUnknownOutlet, outlet)
	}

	id := s.registry.Create(func(st *session.State) {
		st.LoggedIn = true
		st.Outlet = outlet
	})

	token, err := s.sign(id, outlet)
	if err != nil {
		s.registry.Delete(id)
		return "", err
	}

	s.logger.Info("staff signed in", zap.String("outlet", outlet))
	return token, nil
}

// Resolve verifies a token and returns the live session ID it names.
func (s *Service) Resolve(token string) (string, error) {
	claims := &Claims{}
	parsed, err := jwt.ParseWithClaims(token, claims, func(t *jwt.Token) (interface{}, error) {
		if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("unexpected signing method %v", t.Header["alg"])
		}
		return []byte(s.cfg.SessionSecret), nil
	})
	if err != nil || !parsed.Valid {
		return "", ErrInvalidToken
	}

	if !s.registry.Exists(claims.SessionID) {
		return "", session.ErrUnknownSession
	}
	return claims.SessionID, nil
}

// Logout fully resets the session and forgets it.
func (s *Service) Logout(sessionID string) {
	_ = s.registry.With(sessionID, func(st *session.State) error {
		return st.Reset()
	})
	s.registry.Delete(sessionID)
}

func (s *Service) sign(sessionID, outlet string) (string, error) {
	claims := &Claims{
		SessionID: sessionID,
		Outlet:    outlet,
		RegisteredClaims: jwt.RegisteredClaims{
			IssuedAt: jwt.NewNumericDate(s.now()),
		},
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	signed, err := token.SignedString([]byte(s.cfg.SessionSecret))
	if err != nil {
		return "", fmt.Errorf("sign session token: %w", err)
	}
	return signed, nil
}
