package service

import (
	"context"
	"errors"
	"log/slog"
	"strings"
	"time"

	"golang.org/x/crypto/bcrypt"

	"go-blog-platform/internal/model"
	"go-blog-platform/internal/token"
	"go-blog-platform/pkg/apierror"
)

type UserStore interface {
	Create(ctx context.Context, email string, passwordHash string) (model.User, error)
	FindByEmail(ctx context.Context, email string) (model.User, error)
	FindByID(ctx context.Context, id int64) (model.User, error)
}

type RefreshTokenStore interface {
	Store(ctx context.Context, token string, userID int64, expiresAt time.Time) error
	Find(ctx context.Context, token string, userID int64) (model.RefreshToken, error)
	Delete(ctx context.Context, token string) error
}

type AuthService struct {
	issuer     *token.Issuer
	users      UserStore
	tokens     RefreshTokenStore
	accessTTL  time.Duration
	refreshTTL time.Duration
	bcryptCost int
}

func NewAuthService(
	issuer *token.Issuer,
	users UserStore,
	tokens RefreshTokenStore,
	accessTTL time.Duration,
	refreshTTL time.Duration,
	bcryptCost int,
) *AuthService {
	if bcryptCost <= 0 {
		bcryptCost = 10
	}

	return &AuthService{
		issuer:     issuer,
		users:      users,
		tokens:     tokens,
		accessTTL:  accessTTL,
		refreshTTL: refreshTTL,
		bcryptCost: bcryptCost,
	}
}

func (s *AuthService) Register(ctx context.Context, email string, password string) (model.TokenPair, error) {
	email = strings.TrimSpace(email)

	if err := validateCredentials(email, password); err != nil {
		return model.TokenPair{}, err
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(password), s.bcryptCost)
	if err != nil {
		return model.TokenPair{}, err
	}

	user, err := s.users.Create(ctx, email, string(hash))
	if errors.Is(err, model.ErrEmailTaken) {
		return model.TokenPair{}, apierror.Conflict("email is already registered")
	}
	if err != nil {
		return model.TokenPair{}, err
	}

	slog.Info("user registered", "user_id", user.ID)
	return s.issueTokenPair(ctx, user)
}

func (s *AuthService) Login(ctx context.Context, email string, password string) (model.TokenPair, error) {
	user, err := s.users.FindByEmail(ctx, strings.TrimSpace(email))
	if err != nil {
		// Same classification as a wrong password so callers cannot probe
		// which emails are registered.
		return model.TokenPair{}, apierror.Unauthorized("wrong email or password")
	}

	if err := bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(password)); err != nil {
		return model.TokenPair{}, apierror.Unauthorized("wrong email or password")
	}

	slog.Info("user logged in", "user_id", user.ID)
	return s.issueTokenPair(ctx, user)
}

// RefreshTokens rotates a refresh token: the consumed row is deleted before
// the new pair is issued, so resubmitting the same token always fails.
func (s *AuthService) RefreshTokens(ctx context.Context, refreshToken string) (model.TokenPair, error) {
	claims, err := s.issuer.Verify(refreshToken)
	if err != nil {
		return model.TokenPair{}, apierror.Unauthorized("invalid token")
	}

	userID, err := claims.UserID()
	if err != nil {
		return model.TokenPair{}, apierror.Unauthorized("invalid token")
	}

	stored, err := s.tokens.Find(ctx, refreshToken, userID)
	if err != nil {
		return model.TokenPair{}, apierror.Unauthorized("invalid token")
	}

	if time.Now().After(stored.ExpiresAt) {
		_ = s.tokens.Delete(ctx, refreshToken)
		return model.TokenPair{}, apierror.Unauthorized("refresh token expired")
	}

	if err := s.tokens.Delete(ctx, refreshToken); err != nil {
		return model.TokenPair{}, apierror.Unauthorized("invalid token")
	}

	user, err := s.users.FindByID(ctx, userID)
	if err != nil {
		return model.TokenPair{}, apierror.Unauthorized("invalid token")
	}

	pair, err := s.issueTokenPair(ctx, user)
	if err != nil {
		return model.TokenPair{}, apierror.Unauthorized("invalid token")
	}

	slog.Info("tokens refreshed", "user_id", user.ID)
	return pair, nil
}

// ValidateToken answers with the current user record, not just the claims, so
// a user deleted after issuance is rejected.
func (s *AuthService) ValidateToken(ctx context.Context, tokenString string) (model.ValidateResponse, error) {
	claims, err := s.issuer.Verify(tokenString)
	if err != nil {
		return model.ValidateResponse{}, apierror.Unauthorized("invalid token")
	}

	userID, err := claims.UserID()
	if err != nil {
		return model.ValidateResponse{}, apierror.Unauthorized("invalid token")
	}

	user, err := s.users.FindByID(ctx, userID)
	if err != nil {
		return model.ValidateResponse{}, apierror.Unauthorized("invalid token")
	}

	return model.ValidateResponse{Valid: true, UserID: user.ID, Email: user.Email}, nil
}

func (s *AuthService) issueTokenPair(ctx context.Context, user model.User) (model.TokenPair, error) {
	accessToken, err := s.issuer.Issue(user.ID, user.Email, s.accessTTL)
	if err != nil {
		return model.TokenPair{}, err
	}

	refreshToken, err := s.issuer.Issue(user.ID, user.Email, s.refreshTTL)
	if err != nil {
		return model.TokenPair{}, err
	}

	expiresAt := time.Now().UTC().Add(s.refreshTTL)
	if err := s.tokens.Store(ctx, refreshToken, user.ID, expiresAt); err != nil {
		return model.TokenPair{}, err
	}

	return model.TokenPair{AccessToken: accessToken, RefreshToken: refreshToken}, nil
}

func validateCredentials(email string, password string) error {
	if email == "" || !strings.Contains(email, "@") {
		return apierror.BadRequest("a valid email is required")
	}

	if len(password) < 6 {
		return apierror.BadRequest("password must be at least 6 characters")
	}

	return nil
}
