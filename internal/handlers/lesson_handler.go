package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/polikarpova/coursehub/internal/helpers"
	"github.com/polikarpova/coursehub/internal/models"
	"github.com/polikarpova/coursehub/internal/permissions"
)

type LessonRequest struct {
	Name        string    `form:"name" json:"name" binding:"required"`
	Description string    `form:"description" json:"description" binding:"required"`
	VideoLink   string    `form:"video_link" json:"video_link" binding:"required"`
	CourseID    uuid.UUID `form:"course" json:"course" binding:"required"`
}

func CreateLesson(c *gin.Context) {
	var req LessonRequest
	if err := c.ShouldBind(&req); err != nil {
		helpers.RespondWithError(c, http.StatusBadRequest, "Invalid input. Please check your fields.")
		return
	}

	if err := helpers.ValidateVideoLink(req.VideoLink); err != nil {
		helpers.RespondWithError(c, http.StatusBadRequest, err.Error())
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
	if err := gormDB.Where("id = ?", req.CourseID).First(&course).Error; err != nil {
		helpers.RespondWithError(c, http.StatusNotFound, "Course not found.")
		return
	}

	lesson := models.Lesson{
		Name:        req.Name,
		Description: req.Description,
		VideoLink:   req.VideoLink,
		CourseID:    req.CourseID,
		OwnerID:     &user.ID,
	}

	previewFile, err := c.FormFile("preview")
	if err == nil {
		previewPath, err := helpers.UploadFile(c, previewFile, "lesson_previews")
		if err != nil {
			helpers.RespondWithError(c, http.StatusBadRequest, err.Error())
			return
		}
		lesson.PreviewPath = &previewPath
	}

	if err := gormDB.Create(&lesson).Error; err != nil {
		helpers.RespondWithError(c, http.StatusInternalServerError, "Failed to create lesson.")
		return
	}

	c.JSON(http.StatusCreated, gin.H{
		"message":   "Lesson created successfully.",
		"lesson_id": lesson.ID,
	})
}

func ListLessons(c *gin.Context) {
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

	query := gormDB.Model(&models.Lesson{})
	if !permissions.SeesAllRecords(user) {
		query = query.Where("owner_id = ?", user.ID)
	}
	if courseID := c.Query("course"); courseID != "" {
		query = query.Where("course_id = ?", courseID)
	}

	var totalCount int64
	query.Count(&totalCount)

	var lessons []models.Lesson
	offset := (pageNum - 1) * limitNum
	err = query.Offset(offset).Limit(limitNum).Order("created_at DESC").Find(&lessons).Error
	if err != nil {
		helpers.RespondWithError(c, http.StatusInternalServerError, "Error retrieving lessons.")
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"lessons":     lessons,
		"total":       totalCount,
		"page":        pageNum,
		"limit":       limitNum,
		"total_pages": (totalCount + int64(limitNum) - 1) / int64(limitNum),
	})
}

func GetLesson(c *gin.Context) {
	lessonID := c.Param("id")

	gormDB, ok := requestDB(c)
	if !ok {
		return
	}

	user, ok := requestUser(c, gormDB)
	if !ok {
		return
	}

	var lesson models.Lesson
	if err := gormDB.Where("id = ?", lessonID).First(&lesson).Error; err != nil {
		if err == gorm.ErrRecordNotFound {
			helpers.RespondWithError(c, http.StatusNotFound, "Lesson not found.")
			return
		}
		helpers.RespondWithError(c, http.StatusInternalServerError, "Error retrieving lesson.")
		return
	}

	if !permissions.CanRetrieve(user, lesson.OwnerID) {
		helpers.RespondWithError(c, http.StatusForbidden, "You don't have permission to view this lesson.")
		return
	}

	c.JSON(http.StatusOK, lesson)
}

func UpdateLesson(c *gin.Context) {
	lessonID := c.Param("id")

	var req LessonRequest
	if err := c.ShouldBind(&req); err != nil {
		helpers.RespondWithError(c, http.StatusBadRequest, "Invalid input. Please check your fields.")
		return
	}

	if err := helpers.ValidateVideoLink(req.VideoLink); err != nil {
		helpers.RespondWithError(c, http.StatusBadRequest, err.Error())
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

	var lesson models.Lesson
	if err := gormDB.Where("id = ?", lessonID).First(&lesson).Error; err != nil {
		if err == gorm.ErrRecordNotFound {
			helpers.RespondWithError(c, http.StatusNotFound, "Lesson not found.")
			return
		}
		helpers.RespondWithError(c, http.StatusInternalServerError, "Error finding lesson.")
		return
	}

	if !permissions.CanUpdate(user, lesson.OwnerID) {
		helpers.RespondWithError(c, http.StatusForbidden, "You don't have permission to update this lesson.")
		return
	}

	var course models.Course
	if err := gormDB.Where("id = ?", req.CourseID).First(&course).Error; err != nil {
		helpers.RespondWithError(c, http.StatusNotFound, "Course not found.")
		return
	}

	lesson.Name = req.Name
	lesson.Description = req.Description
	lesson.VideoLink = req.VideoLink
	lesson.CourseID = req.CourseID

	previewFile, err := c.FormFile("preview")
	if err == nil {
		previewPath, err := helpers.UploadFile(c, previewFile, "lesson_previews")
		if err != nil {
			helpers.RespondWithError(c, http.StatusBadRequest, err.Error())
			return
		}
		lesson.PreviewPath = &previewPath
	}

	if err := gormDB.Save(&lesson).Error; err != nil {
		helpers.RespondWithError(c, http.StatusInternalServerError, "Failed to update lesson.")
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"message": "Lesson updated successfully.",
		"lesson":  lesson,
	})
}

func DeleteLesson(c *gin.Context) {
	lessonID := c.Param("id")

	gormDB, ok := requestDB(c)
	if !ok {
		return
	}

	user, ok := requestUser(c, gormDB)
	if !ok {
		return
	}

	var lesson models.Lesson
	if err := gormDB.Where("id = ?", lessonID).First(&lesson).Error; err != nil {
		if err == gorm.ErrRecordNotFound {
			helpers.RespondWithError(c, http.StatusNotFound, "Lesson not found.")
			return
		}
		helpers.RespondWithError(c, http.StatusInternalServerError, "Error finding lesson.")
		return
	}

	if !permissions.CanDelete(user, lesson.OwnerID) {
		helpers.RespondWithError(c, http.StatusForbidden, "You can only delete your own lessons.")
		return
	}

	if err := gormDB.Delete(&lesson).Error; err != nil {
		helpers.RespondWithError(c, http.StatusInternalServerError, "Failed to delete lesson.")
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"message": "Lesson deleted successfully.",
	})
}
