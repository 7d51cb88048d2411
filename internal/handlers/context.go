package handlers

import (
	"github.com/gin-gonic/gin"

	"github.com/gabriel-alecu/nextanime/internal/types"
)

// ContextUserKey is where the auth middleware stores the resolved user.
const ContextUserKey = "current_user"

func currentUser(c *gin.Context) (*types.User, bool) {
	value, exists := c.Get(ContextUserKey)
	if !exists {
		return nil, false
	}
	user, ok := value.(*types.User)
	return user, ok
}
