package services

import (
	"context"
	"errors"
	"time"

	"github.com/yoockh/devconnector/internal/cache"
	"github.com/yoockh/devconnector/internal/models"
	pgrepo "github.com/yoockh/devconnector/internal/repositories/postgres"
	"github.com/yoockh/devconnector/internal/utils"
)

type UserService interface {
	Get(ctx context.Context, userID string) (*models.User, error)
	// Owners resolves name and avatar for each id. Unknown ids are absent from the map.
	Owners(ctx context.Context, userIDs []string) (map[string]*models.Owner, error)
	Delete(ctx context.Context, userID string) error
}

type userService struct {
	users pgrepo.UserRepository
	cache cache.Cache
	ttl   time.Duration
}

func NewUserService(users pgrepo.UserRepository, c cache.Cache, ttl time.Duration) UserService {
	if c == nil {
		c = cache.Nop{}
	}
	if ttl <= 0 {
		ttl = 10 * time.Minute
	}
	return &userService{users: users, cache: c, ttl: ttl}
}

func ownerKey(userID string) string { return "owner:" + userID }

func (s *userService) Get(ctx context.Context, userID string) (*models.User, error) {
	const op = "UserService.Get"

	if userID == "" {
		return nil, utils.E(utils.CodeInvalidArgument, op, "user_id is required", nil)
	}

	u, err := s.users.GetByID(ctx, userID)
	if err != nil {
		if errors.Is(err, utils.ErrNotFound) {
			return nil, utils.E(utils.CodeNotFound, op, "User not found", err)
		}
		return nil, utils.E(utils.CodeInternal, op, "failed to get user", err)
	}
	return u, nil
}

func (s *userService) Owners(ctx context.Context, userIDs []string) (map[string]*models.Owner, error) {
	const op = "UserService.Owners"

	out := make(map[string]*models.Owner, len(userIDs))
	var misses []string
	seen := map[string]struct{}{}
	for _, id := range userIDs {
		if _, dup := seen[id]; dup || id == "" {
			continue
		}
		seen[id] = struct{}{}

		var o models.Owner
		// cache errors degrade to a store read
		if hit, err := s.cache.GetJSON(ctx, ownerKey(id), &o); err == nil && hit {
			out[id] = &o
			continue
		}
		misses = append(misses, id)
	}
	if len(misses) == 0 {
		return out, nil
	}

	users, err := s.users.ListByIDs(ctx, misses)
	if err != nil {
		return nil, utils.E(utils.CodeInternal, op, "failed to load owners", err)
	}
	for i := range users {
		o := users[i].Owner()
		out[o.ID] = o
		_ = s.cache.SetJSON(ctx, ownerKey(o.ID), o, s.ttl)
	}
	return out, nil
}

func (s *userService) Delete(ctx context.Context, userID string) error {
	const op = "UserService.Delete"

	if userID == "" {
		return utils.E(utils.CodeInvalidArgument, op, "user_id is required", nil)
	}
	if err := s.users.Delete(ctx, userID); err != nil {
		return utils.E(utils.CodeInternal, op, "failed to delete user", err)
	}
	_ = s.cache.Del(ctx, ownerKey(userID))
	return nil
}
