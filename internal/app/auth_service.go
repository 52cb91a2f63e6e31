package app

import (
	"context"
	"errors"
	"fmt"
	"log"
	"strings"
	"time"

	"gopherblog/internal/model"
	"gopherblog/internal/pkg/jwtutil"
	"gopherblog/internal/pkg/password"
	"gopherblog/internal/repository"
)

var (
	ErrInvalidInput      = errors.New("invalid input")
	ErrEmailExists       = errors.New("email address already exists")
	ErrInvalidCredential = errors.New("invalid credentials")
)

// EventPublisher receives authentication events. Delivery is best-effort.
type EventPublisher interface {
	Publish(ctx context.Context, event model.AuthEvent) error
}

type AuthService struct {
	userRepo *repository.UserRepository
	tokens   *jwtutil.Manager
	events   EventPublisher
}

type SignupInput struct {
	Name     string
	Email    string
	Password string
}

type LoginInput struct {
	Email    string
	Password string
}

type LoginResult struct {
	Token     string
	ExpiresAt time.Time
	Reused    bool
	User      *model.User
}

func NewAuthService(userRepo *repository.UserRepository, tokens *jwtutil.Manager, events EventPublisher) *AuthService {
	return &AuthService{
		userRepo: userRepo,
		tokens:   tokens,
		events:   events,
	}
}

// Signup stores a new account and returns the stored record, password hash included.
func (s *AuthService) Signup(ctx context.Context, input SignupInput) (*model.User, error) {
	name := strings.TrimSpace(input.Name)
	email := strings.TrimSpace(input.Email)
	if name == "" || email == "" || input.Password == "" {
		return nil, ErrInvalidInput
	}

	existing, err := s.userRepo.GetByEmail(ctx, email)
	if err != nil {
		return nil, err
	}
	if existing != nil {
		return nil, ErrEmailExists
	}

	hash, err := password.Hash(input.Password)
	if err != nil {
		if errors.Is(err, password.ErrInvalidInput) {
			return nil, ErrInvalidInput
		}
		return nil, err
	}

	user := &model.User{
		Name:         name,
		Email:        email,
		PasswordHash: hash,
	}
	if err := s.userRepo.Create(ctx, user); err != nil {
		if errors.Is(err, repository.ErrDuplicateKey) {
			return nil, ErrEmailExists
		}
		return nil, err
	}

	s.publish(ctx, user.ID, model.AuthEventSignup)
	return user, nil
}

func (s *AuthService) Login(ctx context.Context, input LoginInput) (*LoginResult, error) {
	email := strings.TrimSpace(input.Email)
	if email == "" || input.Password == "" {
		return nil, ErrInvalidInput
	}

	user, err := s.userRepo.GetByEmail(ctx, email)
	if err != nil {
		return nil, err
	}
	if user == nil {
		return nil, ErrInvalidCredential
	}
	if !password.Verify(input.Password, user.PasswordHash) {
		return nil, ErrInvalidCredential
	}

	result, err := s.issueOrReuse(ctx, user)
	if err != nil {
		return nil, err
	}

	kind := model.AuthEventTokenIssued
	if result.Reused {
		kind = model.AuthEventTokenReused
	}
	s.publish(ctx, user.ID, kind)
	return result, nil
}

// issueOrReuse hands back the stored token while it is still live and mints a new one otherwise.
// The read and the write are not atomic: two logins racing past expiry both mint, last write wins.
func (s *AuthService) issueOrReuse(ctx context.Context, user *model.User) (*LoginResult, error) {
	now := s.tokens.Now()
	if user.HasLiveToken(now) {
		return &LoginResult{
			Token:     *user.Token,
			ExpiresAt: *user.TokenExpiresAt,
			Reused:    true,
			User:      user,
		}, nil
	}

	token, expiresAt, err := s.tokens.GenerateToken(user.ID, user.Email)
	if err != nil {
		return nil, err
	}
	if err := s.userRepo.UpdateToken(ctx, user.ID, token, expiresAt); err != nil {
		return nil, fmt.Errorf("persist token failed: %w", err)
	}

	user.Token = &token
	user.TokenExpiresAt = &expiresAt
	return &LoginResult{
		Token:     token,
		ExpiresAt: expiresAt,
		User:      user,
	}, nil
}

func (s *AuthService) publish(ctx context.Context, userID uint, kind model.AuthEventKind) {
	if s.events == nil {
		return
	}
	event := model.AuthEvent{
		UserID:     userID,
		Kind:       kind,
		OccurredAt: s.tokens.Now(),
	}
	if err := s.events.Publish(ctx, event); err != nil {
		log.Printf("publish auth event %s for user %d failed: %v", kind, userID, err)
	}
}
