package handlers

import (
	"fmt"
	"net/http"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"

	"github.com/polikarpova/coursehub/internal/helpers"
	"github.com/polikarpova/coursehub/internal/models"
	"github.com/polikarpova/coursehub/internal/permissions"
)

type CourseRequest struct {
	Name        string `form:"name" json:"name" binding:"required"`
	Description string `form:"description" json:"description" binding:"required"`
}

func CreateCourse(c *gin.Context) {
	var req CourseRequest
	if err := c.ShouldBind(&req); err != nil {
		helpers.RespondWithError(c, http.StatusBadRequest, "Invalid input. Please check your fields.")
		return
	}

	gormDB, ok := requestDB(c)
	if !ok {
		return
	}

	user, ok := requestUser(c, gormDB)
	if !ok {
		return
	}

	course := models.Course{
		Name:        req.Name,
		Description: req.Description,
		OwnerID:     &user.ID,
	}

	previewFile, err := c.FormFile("preview")
	if err == nil {
		previewPath, err := helpers.UploadFile(c, previewFile, "course_previews")
		if err != nil {
			helpers.RespondWithError(c, http.StatusBadRequest, err.Error())
			return
		}
		course.PreviewPath = &previewPath
	}

	if err := gormDB.Create(&course).Error; err != nil {
		helpers.RespondWithError(c, http.StatusInternalServerError, "Failed to create course.")
		return
	}

	c.JSON(http.StatusCreated, gin.H{
		"message":   "Course created successfully.",
		"course_id": course.ID,
	})
}

func ListCourses(c *gin.Context) {
	gormDB, ok := requestDB(c)
	if !ok {
		return
	}

	user, ok := requestUser(c, gormDB)
	if !ok {
		return
	}

	page := c.DefaultQuery("page", "1")
	limit := c.DefaultQuery("limit", "10")

	pageNum, err := helpers.StringToInt(page)
	if err != nil {
		helpers.RespondWithError(c, http.StatusBadRequest, "Invalid page number.")
		return
	}

	limitNum, err := helpers.StringToInt(limit)
	if err != nil {
		helpers.RespondWithError(c, http.StatusBadRequest, "Invalid limit.")
		return
	}

	query := gormDB.Model(&models.Course{})
	if !permissions.SeesAllRecords(user) {
		query = query.Where("owner_id = ?", user.ID)
	}

	var totalCount int64
	query.Count(&totalCount)

	var courses []models.Course
	offset := (pageNum - 1) * limitNum
	err = query.Preload("Lessons").Offset(offset).Limit(limitNum).Order("created_at DESC").Find(&courses).Error
	if err != nil {
		helpers.RespondWithError(c, http.StatusInternalServerError, "Error retrieving courses.")
		return
	}

	courseList := make([]gin.H, 0, len(courses))
	for _, course := range courses {
		courseList = append(courseList, gin.H{
			"id":            course.ID,
			"name":          course.Name,
			"description":   course.Description,
			"preview":       course.PreviewPath,
			"owner":         course.OwnerID,
			"lessons_count": len(course.Lessons),
		})
	}

	c.JSON(http.StatusOK, gin.H{
		"courses":     courseList,
		"total":       totalCount,
		"page":        pageNum,
		"limit":       limitNum,
		"total_pages": (totalCount + int64(limitNum) - 1) / int64(limitNum),
	})
}

func GetCourse(c *gin.Context) {
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
	if err := gormDB.Preload("Lessons").Where("id = ?", courseID).First(&course).Error; err != nil {
		if err == gorm.ErrRecordNotFound {
			helpers.RespondWithError(c, http.StatusNotFound, "Course not found.")
			return
		}
		helpers.RespondWithError(c, http.StatusInternalServerError, "Error retrieving course.")
		return
	}

	if !permissions.CanRetrieve(user, course.OwnerID) {
		helpers.RespondWithError(c, http.StatusForbidden, "You don't have permission to view this course.")
		return
	}

	var subscriptionCount int64
	gormDB.Model(&models.Subscription{}).
		Where("user_id = ? AND course_id = ?", user.ID, course.ID).
		Count(&subscriptionCount)

	c.JSON(http.StatusOK, gin.H{
		"id":            course.ID,
		"name":          course.Name,
		"description":   course.Description,
		"preview":       course.PreviewPath,
		"owner":         course.OwnerID,
		"lessons":       course.Lessons,
		"is_subscribed": subscriptionCount > 0,
	})
}

func UpdateCourse(c *gin.Context) {
	courseID := c.Param("id")

	var req CourseRequest
	if err := c.ShouldBind(&req); err != nil {
		helpers.RespondWithError(c, http.StatusBadRequest, "Invalid input. Please check your fields.")
		return
	}

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

	if !permissions.CanUpdate(user, course.OwnerID) {
		helpers.RespondWithError(c, http.StatusForbidden, "You don't have permission to update this course.")
		return
	}

	course.Name = req.Name
	course.Description = req.Description

	previewFile, err := c.FormFile("preview")
	if err == nil {
		previewPath, err := helpers.UploadFile(c, previewFile, "course_previews")
		if err != nil {
			helpers.RespondWithError(c, http.StatusBadRequest, err.Error())
			return
		}
		if course.PreviewPath != nil {
			if err := helpers.DeleteFile(*course.PreviewPath); err != nil {
				fmt.Printf("Error deleting old preview: %v\n", err)
			}
		}
		course.PreviewPath = &previewPath
	}

	if err := gormDB.Save(&course).Error; err != nil {
		helpers.RespondWithError(c, http.StatusInternalServerError, "Failed to update course.")
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"message": "Course updated successfully.",
		"course":  course,
	})
}

func DeleteCourse(c *gin.Context) {
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

	if !permissions.CanDelete(user, course.OwnerID) {
		helpers.RespondWithError(c, http.StatusForbidden, "You can only delete your own courses.")
		return
	}

	if err := gormDB.Delete(&course).Error; err != nil {
		helpers.RespondWithError(c, http.StatusInternalServerError, "Failed to delete course.")
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"message": "Course deleted successfully.",
	})
}
