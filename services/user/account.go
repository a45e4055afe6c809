// File: services/user/account.go
package user

import (
	"context"
	"errors"
	"strings"
	"time"

	"github.com/google/uuid"
	"go.mongodb.org/mongo-driver/mongo"
	"go.uber.org/zap"
	"golang.org/x/crypto/bcrypt"

	userRepo "eisenflow/database/repository/user"
	"eisenflow/models"
	"eisenflow/utils"
)

// Session lifetime. One active token per user; a new login revokes the old
// session because only the latest token hash is kept.
const tokenDuration = 30 * 24 * time.Hour

var (
	ErrEmailTaken         = errors.New("an account with this email already exists")
	ErrInvalidCredentials = errors.New("invalid email or password")
)

// AccountService manages registration and token-based sessions.
type AccountService interface {
	Register(ctx context.Context, email, name, password string) (*models.User, string, error)
	Authenticate(ctx context.Context, email, password string) (*models.User, string, error)
	Revoke(ctx context.Context, userID string) error
}

// DefaultAccountService implements AccountService.
type DefaultAccountService struct {
	Users  userRepo.UserRepository
	Logger *zap.Logger
}

// Register creates the account and signs the user in. Returns the new user
// and a fresh session token.
func (s *DefaultAccountService) Register(ctx context.Context, email, name, password string) (*models.User, string, error) {
	email = strings.ToLower(strings.TrimSpace(email))
	if email == "" || password == "" {
		return nil, "", ErrInvalidCredentials
	}
	if _, err := s.Users.GetByEmail(ctx, email); err == nil {
		return nil, "", ErrEmailTaken
	} else if !errors.Is(err, mongo.ErrNoDocuments) {
		return nil, "", err
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return nil, "", err
	}

	now := time.Now()
	account := &models.User{
		ID:           uuid.NewString(),
		Email:        email,
		Name:         name,
		PasswordHash: string(hash),
		CreatedAt:    now,
		UpdatedAt:    now,
	}
	if err := s.Users.Create(ctx, account); err != nil {
		return nil, "", err
	}

	token, err := s.issueToken(ctx, account)
	if err != nil {
		return nil, "", err
	}
	s.Logger.Info("user registered", zap.String("userId", account.ID))
	return account, token, nil
}

// Authenticate verifies the password and issues a fresh session token.
func (s *DefaultAccountService) Authenticate(ctx context.Context, email, password string) (*models.User, string, error) {
	email = strings.ToLower(strings.TrimSpace(email))
	account, err := s.Users.GetByEmail(ctx, email)
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, "", ErrInvalidCredentials
		}
		return nil, "", err
	}
	if bcrypt.CompareHashAndPassword([]byte(account.PasswordHash), []byte(password)) != nil {
		return nil, "", ErrInvalidCredentials
	}

	token, err := s.issueToken(ctx, account)
	if err != nil {
		return nil, "", err
	}
	return account, token, nil
}

// Revoke invalidates the current session token.
func (s *DefaultAccountService) Revoke(ctx context.Context, userID string) error {
	return s.Users.UpdateTokenHash(ctx, userID, "")
}

func (s *DefaultAccountService) issueToken(ctx context.Context, account *models.User) (string, error) {
	token, err := utils.GenerateToken(account.ID, account.Email, tokenDuration)
	if err != nil {
		return "", err
	}
	if err := s.Users.UpdateTokenHash(ctx, account.ID, utils.HashToken(token)); err != nil {
		return "", err
	}
	account.TokenHash = utils.HashToken(token)
	return token, nil
}
