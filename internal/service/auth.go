package service

import (
	"context"
	"errors"
	"strings"
	"time"

	"github.com/Skotchmaster/online_store/internal/hash"
	"github.com/Skotchmaster/online_store/internal/logging"
	"github.com/Skotchmaster/online_store/internal/models"
	"github.com/Skotchmaster/online_store/internal/repo"
	"github.com/Skotchmaster/online_store/internal/tokens"
)

type AuthService struct {
	Repo      *repo.GormRepo
	JWTSecret []byte
	TokenTTL  time.Duration
}

type LoginResult struct {
	AccessToken string
	AccessExp   time.Time
	Role        string
}

func validateCredentials(username, password string) error {
	if strings.TrimSpace(username) == "" {
		return validationErr("username is required")
	}
	if password == "" {
		return validationErr("password is required")
	}
	return nil
}

func (s *AuthService) Register(ctx context.Context, username, password string) (*models.User, error) {
	l := logging.FromContext(ctx).With("svc", "auth.register")

	if err := validateCredentials(username, password); err != nil {
		return nil, err
	}

	pwHash, err := hash.HashPassword(password)
	if err != nil {
		l.Error("register_error", "reason", "cannot hash the password", "error", err)
		return nil, err
	}

	user := models.User{
		Username:     strings.TrimSpace(username),
		PasswordHash: pwHash,
		Role:         models.RoleUser,
	}
	if err := s.Repo.CreateUser(ctx, &user); err != nil {
		if errors.Is(err, repo.ErrUserAlreadyExist) {
			return nil, ErrConflict
		}
		l.Error("register_error", logAttrs(err)...)
		return nil, storageErr("create user", err)
	}

	l.Info("register_success", "user", user.Username)
	return &user, nil
}

func (s *AuthService) Login(ctx context.Context, username, password string) (*LoginResult, error) {
	l := logging.FromContext(ctx).With("svc", "auth.login")

	if err := validateCredentials(username, password); err != nil {
		return nil, err
	}

	user, err := s.Repo.UserByUsername(ctx, strings.TrimSpace(username))
	if err != nil {
		if repo.IsNotFound(err) {
			return nil, ErrUnauthorized
		}
		l.Error("login_error", logAttrs(err)...)
		return nil, storageErr("find user", err)
	}
	if !hash.CheckPassword(user.PasswordHash, password) {
		return nil, ErrUnauthorized
	}

	exp := time.Now().Add(s.TokenTTL).UTC()
	token, err := tokens.Issue(user.Username, user.Role, exp, s.JWTSecret)
	if err != nil {
		l.Error("login_error", "reason", "cannot sign token", "error", err)
		return nil, err
	}

	return &LoginResult{AccessToken: token, AccessExp: exp, Role: user.Role}, nil
}

// EnsureAdmin registers username as an admin, or promotes the existing user.
func (s *AuthService) EnsureAdmin(ctx context.Context, username, password string) error {
	_, err := s.Register(ctx, username, password)
	if err != nil && !errors.Is(err, ErrConflict) {
		return err
	}
	if _, err := s.Repo.SetRole(ctx, strings.TrimSpace(username), models.RoleAdmin); err != nil {
		return storageErr("set role", err)
	}
	return nil
}
