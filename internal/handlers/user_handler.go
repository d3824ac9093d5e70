package handlers

import (
	"fmt"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/polikarpova/coursehub/internal/helpers"
	"github.com/polikarpova/coursehub/internal/models"
	"github.com/polikarpova/coursehub/internal/permissions"
)

type UserUpdateRequest struct {
	PhoneNumber *string `form:"phone_number" json:"phone_number"`
	City        *string `form:"city" json:"city"`
}

// ListUsers is admin-only.
func ListUsers(c *gin.Context) {
	gormDB, ok := requestDB(c)
	if !ok {
		return
	}

	user, ok := requestUser(c, gormDB)
	if !ok {
		return
	}

	if !permissions.IsAdmin(user) {
		helpers.RespondWithError(c, http.StatusForbidden, "Only administrators can list users.")
		return
	}

	var users []models.User
	if err := gormDB.Preload("Groups").Order("created_at").Find(&users).Error; err != nil {
		helpers.RespondWithError(c, http.StatusInternalServerError, "Error retrieving users.")
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"users": users,
		"total": len(users),
	})
}

// GetUser returns the full record for the requester's own id and a reduced
// public projection for anyone else.
func GetUser(c *gin.Context) {
	targetID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		helpers.RespondWithError(c, http.StatusBadRequest, "Invalid user ID.")
		return
	}

	gormDB, ok := requestDB(c)
	if !ok {
		return
	}

	requester, ok := requestUser(c, gormDB)
	if !ok {
		return
	}

	var target models.User
	if err := gormDB.Where("id = ?", targetID).First(&target).Error; err != nil {
		if err == gorm.ErrRecordNotFound {
			helpers.RespondWithError(c, http.StatusNotFound, "User not found.")
			return
		}
		helpers.RespondWithError(c, http.StatusInternalServerError, "Error retrieving user.")
		return
	}

	if requester.ID != target.ID {
		c.JSON(http.StatusOK, gin.H{
			"id":    target.ID,
			"email": target.Email,
			"city":  target.City,
		})
		return
	}

	c.JSON(http.StatusOK, target)
}

// UpdateUser lets users edit their own profile only. Email stays read-only.
func UpdateUser(c *gin.Context) {
	targetID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		helpers.RespondWithError(c, http.StatusBadRequest, "Invalid user ID.")
		return
	}

	var req UserUpdateRequest
	if err := c.ShouldBind(&req); err != nil {
		helpers.RespondWithError(c, http.StatusBadRequest, "Invalid input. Please check your fields.")
		return
	}

	gormDB, ok := requestDB(c)
	if !ok {
		return
	}

	requester, ok := requestUser(c, gormDB)
	if !ok {
		return
	}

	if requester.ID != targetID {
		helpers.RespondWithError(c, http.StatusForbidden, "You can only update your own profile.")
		return
	}

	if req.PhoneNumber != nil {
		requester.PhoneNumber = req.PhoneNumber
	}
	if req.City != nil {
		requester.City = req.City
	}

	avatarFile, err := c.FormFile("avatar")
	if err == nil {
		avatarPath, err := helpers.UploadFile(c, avatarFile, "avatars")
		if err != nil {
			helpers.RespondWithError(c, http.StatusBadRequest, err.Error())
			return
		}
		if requester.AvatarPath != nil {
			if err := helpers.DeleteFile(*requester.AvatarPath); err != nil {
				fmt.Printf("Error deleting old avatar: %v\n", err)
			}
		}
		requester.AvatarPath = &avatarPath
	}

	if err := gormDB.Save(requester).Error; err != nil {
		helpers.RespondWithError(c, http.StatusInternalServerError, "Failed to update user.")
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"message": "Profile updated successfully.",
		"user":    requester,
	})
}

// GetProfile returns the requester's full profile with payment history.
func GetProfile(c *gin.Context) {
	gormDB, ok := requestDB(c)
	if !ok {
		return
	}

	userID, err := helpers.RequestUserID(c)
	if err != nil {
		helpers.RespondWithError(c, http.StatusUnauthorized, "User ID not found in token.")
		return
	}

	var user models.User
	if err := gormDB.Preload("Groups").
		Preload("Payments", func(db *gorm.DB) *gorm.DB {
			return db.Order("payment_date DESC")
		}).
		Where("id = ?", userID).First(&user).Error; err != nil {
		if err == gorm.ErrRecordNotFound {
			helpers.RespondWithError(c, http.StatusNotFound, "User not found.")
			return
		}
		helpers.RespondWithError(c, http.StatusInternalServerError, "Error retrieving user.")
		return
	}

	c.JSON(http.StatusOK, user)
}
