package v1

import (
	"context"
	"errors"
	"fmt"

	"github.com/gin-gonic/gin"

	"github.com/rsconstruction/constructhub-api/internal/api/handler/v1/response"
	"github.com/rsconstruction/constructhub-api/internal/api/middleware"
	"github.com/rsconstruction/constructhub-api/internal/domain"
	"github.com/rsconstruction/constructhub-api/internal/service"
)

type UserService interface {
	GetUser(ctx context.Context, id uint) (domain.User, error)
	UpdateProfile(ctx context.Context, id uint, patch domain.ProfilePatch) (domain.User, error)
}

var errNotAuthenticated = errors.New("user is not authenticated")

// getUserFromContext resolves the user the JWT middleware authenticated.
func getUserFromContext(ctx *gin.Context, uSvc UserService) (domain.User, *response.Err) {
	val, exists := ctx.Get(middleware.ContextKeyUserID)
	if !exists {
		return domain.User{}, response.ErrInvalidToken(errNotAuthenticated)
	}

	userID, ok := val.(uint)
	if !ok {
		return domain.User{}, response.ErrInvalidToken(errNotAuthenticated)
	}

	user, err := uSvc.GetUser(ctx.Request.Context(), userID)
	if err != nil {
		if errors.Is(err, service.ErrUserNotFound) {
			return domain.User{}, response.ErrNotFound("user", "ID", userID)
		}

		return domain.User{}, response.ErrInternalServerError(fmt.Errorf("getUserFromContext -> uSvc.GetUser -> %w", err))
	}

	return user, nil
}

// requireAdmin is the role gate for the /admin route group.
func requireAdmin(ctx *gin.Context, uSvc UserService) (domain.User, *response.Err) {
	user, respErr := getUserFromContext(ctx, uSvc)
	if respErr != nil {
		return domain.User{}, respErr
	}

	if user.Role != domain.RoleAdmin {
		return domain.User{}, response.ErrPermissionDenied(fmt.Errorf("user %v is not an admin", user.ID))
	}

	return user, nil
}
