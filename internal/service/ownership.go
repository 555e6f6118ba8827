package service

import (
	"strings"

	"bloglist/internal/models"
)

// CanDelete reports whether actor created blog. Ids are compared as trimmed
// strings; a missing blog, owner or actor never matches.
func CanDelete(blog *models.Blog, actor *models.User) bool {
	if blog == nil || blog.User == nil || actor == nil {
		return false
	}
	owner := strings.TrimSpace(blog.User.ID)
	return owner != "" && owner == strings.TrimSpace(actor.ID)
}
