package service

import (
	"context"
	"strings"

	"github.com/Skotchmaster/online_store/internal/logging"
	"github.com/Skotchmaster/online_store/internal/repo"
)

// UserService answers whether an authenticated identity still has a user row.
type UserService struct {
	Repo *repo.GormRepo
}

func (s *UserService) Exists(ctx context.Context, userID string) (bool, error) {
	if strings.TrimSpace(userID) == "" {
		return false, nil
	}
	ok, err := s.Repo.UserExists(ctx, userID)
	if err != nil {
		logging.FromContext(ctx).Error("user_exists_failed", logAttrs(err)...)
		return false, storageErr("user exists", err)
	}
	return ok, nil
}
