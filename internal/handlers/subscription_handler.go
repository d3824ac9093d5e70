package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"

	"github.com/polikarpova/coursehub/internal/helpers"
	"github.com/polikarpova/coursehub/internal/models"
)

// Subscribe creates a subscription for the requester and rejects duplicates.
func Subscribe(c *gin.Context) {
	courseID := c.Param("id")

	gormDB, ok := requestDB(c)
	if !ok {
		return
	}

	user, ok := requestUser(c, gormDB)
	if !ok {
		return
	}

	var course models.Course
	if err := gormDB.Where("id = ?", courseID).First(&course).Error; err != nil {
		if err == gorm.ErrRecordNotFound {
			helpers.RespondWithError(c, http.StatusNotFound, "Course not found.")
			return
		}
		helpers.RespondWithError(c, http.StatusInternalServerError, "Error finding course.")
		return
	}

	var existing models.Subscription
	if result := gormDB.Where("user_id = ? AND course_id = ?", user.ID, course.ID).First(&existing); result.Error == nil {
		helpers.RespondWithError(c, http.StatusBadRequest, "Already subscribed to this course.")
		return
	}

	subscription := models.Subscription{
		UserID:   user.ID,
		CourseID: course.ID,
	}

	if err := gormDB.Create(&subscription).Error; err != nil {
		helpers.RespondWithError(c, http.StatusBadRequest, "Already subscribed to this course.")
		return
	}

	c.JSON(http.StatusCreated, gin.H{
		"message":         "Subscribed successfully.",
		"subscription_id": subscription.ID,
	})
}

// Unsubscribe removes the requester's subscription if one exists.
func Unsubscribe(c *gin.Context) {
	courseID := c.Param("id")

	gormDB, ok := requestDB(c)
	if !ok {
		return
	}

	user, ok := requestUser(c, gormDB)
	if !ok {
		return
	}

	var course models.Course
	if err := gormDB.Where("id = ?", courseID).First(&course).Error; err != nil {
		if err == gorm.ErrRecordNotFound {
			helpers.RespondWithError(c, http.StatusNotFound, "Course not found.")
			return
		}
		helpers.RespondWithError(c, http.StatusInternalServerError, "Error finding course.")
		return
	}

	result := gormDB.Where("user_id = ? AND course_id = ?", user.ID, course.ID).Delete(&models.Subscription{})
	if result.Error != nil {
		helpers.RespondWithError(c, http.StatusInternalServerError, "Failed to remove subscription.")
		return
	}
	if result.RowsAffected == 0 {
		helpers.RespondWithError(c, http.StatusNotFound, "Subscription not found.")
		return
	}

	c.Status(http.StatusNoContent)
}

// ToggleSubscription flips the subscription state unconditionally: creates it
// when absent, removes it when present. The strict subscribe/unsubscribe
// routes above coexist with this one on purpose.
func ToggleSubscription(c *gin.Context) {
	courseID := c.Param("id")

	gormDB, ok := requestDB(c)
	if !ok {
		return
	}

	user, ok := requestUser(c, gormDB)
	if !ok {
		return
	}

	var course models.Course
	if err := gormDB.Where("id = ?", courseID).First(&course).Error; err != nil {
		if err == gorm.ErrRecordNotFound {
			helpers.RespondWithError(c, http.StatusNotFound, "Course not found.")
			return
		}
		helpers.RespondWithError(c, http.StatusInternalServerError, "Error finding course.")
		return
	}

	var existing models.Subscription
	if result := gormDB.Where("user_id = ? AND course_id = ?", user.ID, course.ID).First(&existing); result.Error == nil {
		if err := gormDB.Delete(&existing).Error; err != nil {
			helpers.RespondWithError(c, http.StatusInternalServerError, "Failed to remove subscription.")
			return
		}
		c.JSON(http.StatusOK, gin.H{"message": "Subscription removed."})
		return
	}

	subscription := models.Subscription{
		UserID:   user.ID,
		CourseID: course.ID,
	}
	if err := gormDB.Create(&subscription).Error; err != nil {
		helpers.RespondWithError(c, http.StatusInternalServerError, "Failed to add subscription.")
		return
	}

	c.JSON(http.StatusOK, gin.H{"message": "Subscription added."})
}
