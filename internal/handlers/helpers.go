package handlers

import "github.com/gin-gonic/gin"

// getUserAndRole reads the identity the auth middleware stored on the
// context. Missing keys come back as zero, which authz treats as "deny".
func getUserAndRole(c *gin.Context) (userID, roleID int) {
	return c.GetInt("user_id"), c.GetInt("role_id")
}
