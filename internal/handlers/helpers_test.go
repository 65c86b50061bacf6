package handlers

import (
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
)

func TestGetUserAndRole(t *testing.T) {
	gin.SetMode(gin.TestMode)

	c, _ := gin.CreateTestContext(httptest.NewRecorder())
	c.Set("user_id", 7)
	c.Set("role_id", 20)

	userID, roleID := getUserAndRole(c)
	assert.Equal(t, 7, userID)
	assert.Equal(t, 20, roleID)
}

func TestGetUserAndRoleMissingKeysAreZero(t *testing.T) {
	gin.SetMode(gin.TestMode)

	c, _ := gin.CreateTestContext(httptest.NewRecorder())
	userID, roleID := getUserAndRole(c)
	assert.Zero(t, userID)
	assert.Zero(t, roleID)
}
