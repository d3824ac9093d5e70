package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"

	"github.com/polikarpova/coursehub/internal/helpers"
	"github.com/polikarpova/coursehub/internal/models"
)

func requestDB(c *gin.Context) (*gorm.DB, bool) {
	db, exists := c.Get("db")
	if !exists {
		helpers.RespondWithError(c, http.StatusInternalServerError, "Database connection not found.")
		return nil, false
	}
	return db.(*gorm.DB), true
}

// requestUser loads the requester with their groups so permission checks can
// see moderator membership.
func requestUser(c *gin.Context, gormDB *gorm.DB) (*models.User, bool) {
	userID, err := helpers.RequestUserID(c)
	if err != nil {
		helpers.RespondWithError(c, http.StatusUnauthorized, "User ID not found in token.")
		return nil, false
	}

	var user models.User
	if err := gormDB.Preload("Groups").First(&user, "id = ?", userID).Error; err != nil {
		helpers.RespondWithError(c, http.StatusUnauthorized, "User not found.")
		return nil, false
	}
	return &user, true
}
