package service

import (
	"context"
	"errors"
	"fmt"

	"gorm.io/gorm"

	"shop-backend/internal/hash"
	"shop-backend/internal/logging"
	"shop-backend/internal/models"
	"shop-backend/internal/mykafka"
	"shop-backend/internal/repo"
	"shop-backend/internal/token"
)

type AuthService struct {
	Repo       *repo.GormRepo
	Tokens     *token.Service
	BcryptCost int
	Producer   *mykafka.Producer
}

func (s *AuthService) Register(ctx context.Context, username, email, password string) (uint, error) {
	l := logging.FromContext(ctx).With("svc", "auth.register")

	if username == "" || email == "" || password == "" {
		return 0, ErrValidation
	}

	taken, err := s.Repo.EmailTaken(ctx, email)
	if err != nil {
		return 0, fmt.Errorf("check email: %w", err)
	}
	if taken {
		return 0, ErrDuplicateEmail
	}

	pwHash, err := hash.HashPassword(password, s.BcryptCost)
	if err != nil {
		l.Error("register_error", "reason", "cannot hash the password", "error", err)
		return 0, err
	}

	user := models.User{
		Username:     username,
		Email:        email,
		PasswordHash: pwHash,
	}
	if err := s.Repo.CreateUser(ctx, &user); err != nil {
		if errors.Is(err, gorm.ErrDuplicatedKey) {
			return 0, ErrDuplicateEmail
		}
		return 0, fmt.Errorf("create user: %w", err)
	}

	event := map[string]interface{}{
		"type":   "user_registered",
		"userID": user.ID,
		"email":  user.Email,
	}
	if err := s.Producer.PublishEvent(ctx, "user_events", fmt.Sprint(user.ID), event); err != nil {
		l.Warn("kafka publish error", "error", err)
	}

	return user.ID, nil
}

// Login checks the credentials and issues a one-hour session token.
// Unknown email and wrong password are distinct failures so the handler
// can map them to different status codes (404 vs 400).
func (s *AuthService) Login(ctx context.Context, email, password string) (string, error) {
	l := logging.FromContext(ctx).With("svc", "auth.login")

	user, err := s.Repo.UserByEmail(ctx, email)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return "", ErrNotFound
		}
		return "", fmt.Errorf("find user: %w", err)
	}

	if !hash.CheckPassword(user.PasswordHash, password) {
		return "", ErrInvalidCredentials
	}

	signed, err := s.Tokens.Issue(user.ID)
	if err != nil {
		l.Error("login_error", "reason", "cannot sign token", "error", err)
		return "", err
	}

	event := map[string]interface{}{
		"type":   "user_logged_in",
		"userID": user.ID,
	}
	if err := s.Producer.PublishEvent(ctx, "user_events", fmt.Sprint(user.ID), event); err != nil {
		l.Warn("kafka publish error", "error", err)
	}

	return signed, nil
}
