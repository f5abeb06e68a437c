package auth

import (
	"context"
	"crypto/rand"
	"encoding/hex"
	"errors"
	"fmt"
	"log/slog"
	"net/mail"
	"strconv"
	"strings"
	"time"
	"unicode/utf8"

	"github.com/golang-jwt/jwt/v5"
	"golang.org/x/crypto/bcrypt"

	apperrors "github.com/yanqian/slidegen/pkg/errors"
)

// Service exposes authentication workflows.
type Service interface {
	Enabled() bool
	Register(ctx context.Context, req RegisterRequest) (Session, error)
	Login(ctx context.Context, req LoginRequest) (Session, error)
	ValidateToken(ctx context.Context, token string) (Claims, error)
	Refresh(ctx context.Context, refreshToken string) (Session, error)
	Profile(ctx context.Context, userID int64) (UserView, error)
}

type service struct {
	cfg    Config
	repo   Repository
	logger *slog.Logger
}

const (
	tokenTypeAccess  = "access"
	tokenTypeRefresh = "refresh"

	minPasswordLength = 8
	maxNameLength     = 100
)

// NewService constructs a Service instance.
func NewService(cfg Config, repo Repository, logger *slog.Logger) Service {
	s := &service{
		cfg:    cfg,
		repo:   repo,
		logger: logger.With("component", "auth.service"),
	}
	if !cfg.Enabled() {
		s.logger.Warn("auth secret not configured; tokens are disabled")
	}
	return s
}

func (s *service) Enabled() bool {
	return s.cfg.Enabled()
}

func (s *service) Register(ctx context.Context, req RegisterRequest) (Session, error) {
	email, err := normalizeEmail(req.Email)
	if err != nil {
		return Session{}, apperrors.Wrap(CodeInvalidInput, "invalid email address", err)
	}
	name, err := normalizeName(req.Name)
	if err != nil {
		return Session{}, apperrors.Wrap(CodeInvalidInput, err.Error(), nil)
	}
	if err := validatePassword(req.Password); err != nil {
		return Session{}, apperrors.Wrap(CodeInvalidInput, err.Error(), nil)
	}
	if _, err := s.repo.FindByEmail(ctx, email); err == nil {
		return Session{}, apperrors.Wrap(CodeEmailExists, "email already registered", nil)
	} else if !errors.Is(err, ErrUserNotFound) {
		return Session{}, apperrors.Wrap(CodeAuthError, "failed to check user", err)
	}
	hashed, err := bcrypt.GenerateFromPassword([]byte(req.Password), bcrypt.DefaultCost)
	if err != nil {
		return Session{}, apperrors.Wrap(CodeAuthError, "failed to hash password", err)
	}
	user, err := s.repo.Insert(ctx, NewUser{Email: email, Name: name, PasswordHash: string(hashed)})
	if err != nil {
		if errors.Is(err, ErrEmailExists) {
			return Session{}, apperrors.Wrap(CodeEmailExists, "email already registered", err)
		}
		return Session{}, apperrors.Wrap(CodeAuthError, "failed to create user", err)
	}
	s.logger.Info("user registered", "user_id", user.ID)
	return s.buildSession(user)
}

func (s *service) Login(ctx context.Context, req LoginRequest) (Session, error) {
	email, err := normalizeEmail(req.Email)
	if err != nil {
		return Session{}, apperrors.Wrap(CodeInvalidInput, "invalid email address", err)
	}
	if req.Password == "" {
		return Session{}, apperrors.Wrap(CodeInvalidInput, "password cannot be empty", nil)
	}
	user, err := s.repo.FindByEmail(ctx, email)
	if errors.Is(err, ErrUserNotFound) {
		return Session{}, apperrors.Wrap(CodeInvalidCredentials, "invalid email or password", nil)
	}
	if err != nil {
		return Session{}, apperrors.Wrap(CodeAuthError, "failed to fetch user", err)
	}
	if err := bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(req.Password)); err != nil {
		return Session{}, apperrors.Wrap(CodeInvalidCredentials, "invalid email or password", nil)
	}
	return s.buildSession(user)
}

func (s *service) ValidateToken(_ context.Context, token string) (Claims, error) {
	if !s.cfg.Enabled() {
		return Claims{}, apperrors.Wrap(CodeAuthDisabled, "authentication is disabled", nil)
	}
	if strings.TrimSpace(token) == "" {
		return Claims{}, apperrors.Wrap(CodeInvalidToken, "token missing", nil)
	}
	claims, err := s.parseToken(token)
	if err != nil {
		return Claims{}, err
	}
	if claims.TokenType != tokenTypeAccess {
		return Claims{}, apperrors.Wrap(CodeInvalidToken, "token type mismatch", nil)
	}
	return claims, nil
}

func (s *service) Profile(ctx context.Context, userID int64) (UserView, error) {
	user, err := s.lookup(ctx, userID)
	if err != nil {
		return UserView{}, err
	}
	return toView(user), nil
}

func (s *service) Refresh(ctx context.Context, refreshToken string) (Session, error) {
	if !s.cfg.Enabled() {
		return Session{}, apperrors.Wrap(CodeAuthDisabled, "authentication is disabled", nil)
	}
	claims, err := s.parseToken(refreshToken)
	if err != nil {
		return Session{}, err
	}
	if claims.TokenType != tokenTypeRefresh {
		return Session{}, apperrors.Wrap(CodeInvalidToken, "token type mismatch", nil)
	}
	user, err := s.lookup(ctx, claims.UserID)
	if err != nil {
		return Session{}, err
	}
	return s.buildSession(user)
}

// lookup resolves a token subject; accounts removed after issuance surface as CodeUserNotFound.
func (s *service) lookup(ctx context.Context, id int64) (User, error) {
	user, err := s.repo.FindByID(ctx, id)
	if errors.Is(err, ErrUserNotFound) {
		return User{}, apperrors.Wrap(CodeUserNotFound, "user not found", err)
	}
	if err != nil {
		return User{}, apperrors.Wrap(CodeAuthError, "failed to load user", err)
	}
	return user, nil
}

func (s *service) buildSession(user User) (Session, error) {
	session := Session{Success: true, User: toView(user)}
	if !s.cfg.Enabled() {
		return session, nil
	}
	access, err := s.generateToken(user, tokenTypeAccess, s.cfg.TokenTTL)
	if err != nil {
		return Session{}, err
	}
	refresh, err := s.generateToken(user, tokenTypeRefresh, s.cfg.RefreshTokenTTL)
	if err != nil {
		return Session{}, err
	}
	session.AccessToken = access
	session.RefreshToken = refresh
	return session, nil
}

func (s *service) generateToken(user User, tokenType string, ttl time.Duration) (string, error) {
	now := time.Now()
	claims := tokenClaims{
		Email:     user.Email,
		TokenType: tokenType,
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   strconv.FormatInt(user.ID, 10),
			ID:        newTokenID(),
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(ttl)),
		},
	}
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	signed, err := token.SignedString([]byte(s.cfg.Secret))
	if err != nil {
		return "", apperrors.Wrap(CodeAuthError, "failed to sign token", err)
	}
	return signed, nil
}

func (s *service) parseToken(token string) (Claims, error) {
	parsed, err := jwt.ParseWithClaims(token, &tokenClaims{}, func(t *jwt.Token) (any, error) {
		if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("unexpected signing method: %s", t.Method.Alg())
		}
		return []byte(s.cfg.Secret), nil
	}, jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}), jwt.WithExpirationRequired())
	if err != nil {
		return Claims{}, apperrors.Wrap(CodeInvalidToken, "token validation failed", err)
	}
	claims, ok := parsed.Claims.(*tokenClaims)
	if !ok || !parsed.Valid {
		return Claims{}, apperrors.Wrap(CodeInvalidToken, "token invalid", nil)
	}
	userID, err := strconv.ParseInt(claims.Subject, 10, 64)
	if err != nil || userID <= 0 {
		return Claims{}, apperrors.Wrap(CodeInvalidToken, "token subject invalid", err)
	}
	return Claims{
		UserID:    userID,
		Email:     claims.Email,
		TokenType: claims.TokenType,
		ExpiresAt: claims.ExpiresAt.Time,
	}, nil
}

func toView(user User) UserView {
	return UserView{
		ID:        user.ID,
		Email:     user.Email,
		Name:      user.Name,
		CreatedAt: user.CreatedAt,
	}
}

func normalizeEmail(raw string) (string, error) {
	email := strings.TrimSpace(strings.ToLower(raw))
	if email == "" {
		return "", errors.New("email cannot be empty")
	}
	if _, err := mail.ParseAddress(email); err != nil {
		return "", err
	}
	return email, nil
}

func normalizeName(raw string) (string, error) {
	name := strings.TrimSpace(raw)
	if utf8.RuneCountInString(name) > maxNameLength {
		return "", fmt.Errorf("name cannot exceed %d characters", maxNameLength)
	}
	return name, nil
}

func validatePassword(password string) error {
	if len(password) < minPasswordLength {
		return fmt.Errorf("password must be at least %d characters", minPasswordLength)
	}
	return nil
}

type tokenClaims struct {
	jwt.RegisteredClaims
	Email     string `json:"email"`
	TokenType string `json:"type"`
}

func newTokenID() string {
	buf := make([]byte, 16)
	if _, err := rand.Read(buf); err != nil {
		return strconv.FormatInt(time.Now().UnixNano(), 10)
	}
	return hex.EncodeToString(buf)
}
