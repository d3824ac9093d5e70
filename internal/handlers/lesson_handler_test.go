package handlers_test

import (
	"net/http"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/polikarpova/coursehub/internal/models"
)

func TestLessonCreateValidatesVideoLink(t *testing.T) {
	env := newTestEnv(t, "")

	token, _ := env.registerAndLogin(t, "owner@test.com")
	courseID := env.createCourse(t, token, "Video Course")

	payload := gin.H{
		"name":        "Bad Lesson",
		"description": "Lesson description",
		"video_link":  "https://vimeo.com/12345",
		"course":      courseID,
	}
	res := env.request(t, http.MethodPost, "/v1/lessons", token, payload)
	assert.Equal(t, http.StatusBadRequest, res.Code)

	payload["video_link"] = "https://youtu.be/"
	res = env.request(t, http.MethodPost, "/v1/lessons", token, payload)
	assert.Equal(t, http.StatusBadRequest, res.Code)

	var count int64
	env.db.Model(&models.Lesson{}).Count(&count)
	assert.Equal(t, int64(0), count, "rejected lessons must not be persisted")

	payload["video_link"] = "https://www.youtube.com/watch?v=ok"
	res = env.request(t, http.MethodPost, "/v1/lessons", token, payload)
	assert.Equal(t, http.StatusCreated, res.Code, res.Body.String())
}

func TestLessonCreateUnknownCourse(t *testing.T) {
	env := newTestEnv(t, "")

	token, _ := env.registerAndLogin(t, "owner@test.com")

	res := env.request(t, http.MethodPost, "/v1/lessons", token, gin.H{
		"name":        "Orphan Lesson",
		"description": "Lesson description",
		"video_link":  "https://www.youtube.com/watch?v=ok",
		"course":      "3f9c51c2-3696-45ab-b2a7-43b1ef3aeb1e",
	})
	assert.Equal(t, http.StatusNotFound, res.Code)
}

func TestLessonListScopedToOwner(t *testing.T) {
	env := newTestEnv(t, "")

	ownerToken, _ := env.registerAndLogin(t, "owner@test.com")
	otherToken, _ := env.registerAndLogin(t, "other@test.com")
	modToken, modID := env.registerAndLogin(t, "moderator@test.com")
	env.makeModerator(t, modID)

	courseID := env.createCourse(t, ownerToken, "Shared Course")
	env.createLesson(t, ownerToken, courseID, "Owner Lesson")
	// A lesson's owner may differ from its course's owner.
	env.createLesson(t, otherToken, courseID, "Other Lesson")

	var listResp struct {
		Lessons []models.Lesson `json:"lessons"`
		Total   int64           `json:"total"`
	}

	res := env.request(t, http.MethodGet, "/v1/lessons", ownerToken, nil)
	require.Equal(t, http.StatusOK, res.Code)
	decodeJSON(t, res, &listResp)
	require.Len(t, listResp.Lessons, 1)
	assert.Equal(t, "Owner Lesson", listResp.Lessons[0].Name)

	res = env.request(t, http.MethodGet, "/v1/lessons", modToken, nil)
	require.Equal(t, http.StatusOK, res.Code)
	decodeJSON(t, res, &listResp)
	assert.Len(t, listResp.Lessons, 2, "moderators see all lessons")
}

func TestLessonUpdateAndDeletePolicy(t *testing.T) {
	env := newTestEnv(t, "")

	ownerToken, _ := env.registerAndLogin(t, "owner@test.com")
	modToken, modID := env.registerAndLogin(t, "moderator@test.com")
	env.makeModerator(t, modID)

	courseID := env.createCourse(t, ownerToken, "Course")
	lessonID := env.createLesson(t, ownerToken, courseID, "Lesson")

	update := gin.H{
		"name":        "Updated by moderator",
		"description": "Changed",
		"video_link":  "https://www.youtube.com/watch?v=changed",
		"course":      courseID,
	}
	res := env.request(t, http.MethodPut, "/v1/lessons/"+lessonID.String(), modToken, update)
	require.Equal(t, http.StatusOK, res.Code, res.Body.String())

	res = env.request(t, http.MethodDelete, "/v1/lessons/"+lessonID.String(), modToken, nil)
	assert.Equal(t, http.StatusForbidden, res.Code, "moderator delete must be forbidden")

	var count int64
	env.db.Model(&models.Lesson{}).Count(&count)
	assert.Equal(t, int64(1), count)

	res = env.request(t, http.MethodDelete, "/v1/lessons/"+lessonID.String(), ownerToken, nil)
	assert.Equal(t, http.StatusOK, res.Code)

	env.db.Model(&models.Lesson{}).Count(&count)
	assert.Equal(t, int64(0), count)
}
