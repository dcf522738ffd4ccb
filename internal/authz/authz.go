// Package authz evaluates whether an actor may perform an action on a
// resource. Checks run before handler bodies so a denied action never
// reaches the service layer.
package authz

import (
	"context"

	"chronicle/internal/models"
)

// Actions that can be gated. Each maps to a stored permission codename.
const (
	ActionAddArticle    = models.PermAddArticle
	ActionChangeArticle = models.PermChangeArticle
	ActionDeleteArticle = models.PermDeleteArticle
	ActionAddComment    = models.PermAddComment
)

// PermissionChecker reports whether a user holds a permission codename.
type PermissionChecker interface {
	HasPermission(ctx context.Context, userID uint, codename string) (bool, error)
}

// Guard decides allow/deny for (actor, action, resource) tuples.
type Guard struct {
	perms PermissionChecker
}

// NewGuard returns a Guard backed by the given permission store.
func NewGuard(perms PermissionChecker) *Guard {
	return &Guard{perms: perms}
}

// Can reports whether actorID may perform action. The article argument is
// only consulted for actions on an existing article and may be nil otherwise.
//
// Updating an article carries an ownership override: the author may always
// change their own article regardless of the stored permission.
func (g *Guard) Can(ctx context.Context, actorID uint, action string, article *models.Article) (bool, error) {
	if action == ActionChangeArticle && article != nil &&
		article.AuthorID != nil && *article.AuthorID == actorID {
		return true, nil
	}
	return g.perms.HasPermission(ctx, actorID, action)
}
