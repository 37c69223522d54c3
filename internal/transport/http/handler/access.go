package handler

import (
	"context"
	"errors"

	"github.com/go-office-api/internal/domain"
	jwtinfra "github.com/go-office-api/internal/infrastructure/jwt"
)

type userReader interface {
	Get(ctx context.Context, userID string) (*domain.User, error)
}

// canView reports whether the caller may read subjectID's records: the
// subject themselves, an active HR or Admin, or the subject's direct manager.
func canView(ctx context.Context, users userReader, claims *jwtinfra.Claims, subjectID string) (bool, error) {
	if claims.UserID == subjectID {
		return true, nil
	}
	actor, err := users.Get(ctx, claims.UserID)
	if errors.Is(err, domain.ErrNotFound) {
		return false, nil
	}
	if err != nil {
		return false, err
	}
	if !actor.IsActive() {
		return false, nil
	}
	if domain.HasAnyRole(actor, domain.RoleHR, domain.RoleAdmin) {
		return true, nil
	}
	subject, err := users.Get(ctx, subjectID)
	if errors.Is(err, domain.ErrNotFound) {
		return false, nil
	}
	if err != nil {
		return false, err
	}
	return domain.CanManage(actor, subject), nil
}
