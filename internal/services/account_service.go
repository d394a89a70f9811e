package services

import (
	"context"

	mongorepo "github.com/yoockh/devconnector/internal/repositories/mongo"
	"github.com/yoockh/devconnector/internal/utils"
)

// AccountService removes an account together with everything it owns.
type AccountService interface {
	Delete(ctx context.Context, userID string) error
}

type accountService struct {
	posts    mongorepo.PostRepository
	profiles mongorepo.ProfileRepository
	users    UserService
}

func NewAccountService(posts mongorepo.PostRepository, profiles mongorepo.ProfileRepository, users UserService) AccountService {
	return &accountService{posts: posts, profiles: profiles, users: users}
}

// Delete removes posts, then the profile, then the user. It is not transactional:
// a failure leaves the earlier stages applied and is reported with the failing stage.
func (s *accountService) Delete(ctx context.Context, userID string) error {
	const op = "AccountService.Delete"

	if userID == "" {
		return utils.E(utils.CodeInvalidArgument, op, "user_id is required", nil)
	}

	if _, err := s.posts.DeleteByUserID(ctx, userID); err != nil {
		return utils.E(utils.CodeInternal, op, "failed to delete posts", err)
	}
	if err := s.profiles.DeleteByUserID(ctx, userID); err != nil {
		return utils.E(utils.CodeInternal, op, "posts deleted; failed to delete profile", err)
	}
	if err := s.users.Delete(ctx, userID); err != nil {
		return utils.E(utils.CodeInternal, op, "posts and profile deleted; failed to delete user", err)
	}
	return nil
}
