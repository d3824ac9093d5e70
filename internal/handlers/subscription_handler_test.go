package handlers_test

import (
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSubscriptionFlow(t *testing.T) {
	env := newTestEnv(t, "")

	token, _ := env.registerAndLogin(t, "user@test.com")
	courseID := env.createCourse(t, token, "Course with Subscription")
	courseURL := "/v1/courses/" + courseID.String()

	var detail struct {
		IsSubscribed bool `json:"is_subscribed"`
	}

	res := env.request(t, http.MethodGet, courseURL, token, nil)
	require.Equal(t, http.StatusOK, res.Code)
	decodeJSON(t, res, &detail)
	assert.False(t, detail.IsSubscribed)

	res = env.request(t, http.MethodPost, courseURL+"/subscribe", token, nil)
	assert.Equal(t, http.StatusCreated, res.Code)

	res = env.request(t, http.MethodGet, courseURL, token, nil)
	decodeJSON(t, res, &detail)
	assert.True(t, detail.IsSubscribed)

	res = env.request(t, http.MethodDelete, courseURL+"/subscribe", token, nil)
	assert.Equal(t, http.StatusNoContent, res.Code)

	res = env.request(t, http.MethodGet, courseURL, token, nil)
	decodeJSON(t, res, &detail)
	assert.False(t, detail.IsSubscribed)
}

func TestDoubleSubscribeRejected(t *testing.T) {
	env := newTestEnv(t, "")

	token, _ := env.registerAndLogin(t, "user@test.com")
	courseID := env.createCourse(t, token, "Course")
	subscribeURL := "/v1/courses/" + courseID.String() + "/subscribe"

	res := env.request(t, http.MethodPost, subscribeURL, token, nil)
	assert.Equal(t, http.StatusCreated, res.Code)

	res = env.request(t, http.MethodPost, subscribeURL, token, nil)
	assert.Equal(t, http.StatusBadRequest, res.Code)
}

func TestUnsubscribeWithoutSubscription(t *testing.T) {
	env := newTestEnv(t, "")

	token, _ := env.registerAndLogin(t, "user@test.com")
	courseID := env.createCourse(t, token, "Course")

	res := env.request(t, http.MethodDelete, "/v1/courses/"+courseID.String()+"/subscribe", token, nil)
	assert.Equal(t, http.StatusNotFound, res.Code)
}

func TestToggleSubscription(t *testing.T) {
	env := newTestEnv(t, "")

	token, _ := env.registerAndLogin(t, "user@test.com")
	courseID := env.createCourse(t, token, "Course")
	toggleURL := "/v1/courses/" + courseID.String() + "/subscription"

	var toggleResp struct {
		Message string `json:"message"`
	}

	// The toggle never errors on repeats, unlike the strict subscribe route.
	res := env.request(t, http.MethodPost, toggleURL, token, nil)
	require.Equal(t, http.StatusOK, res.Code)
	decodeJSON(t, res, &toggleResp)
	assert.Equal(t, "Subscription added.", toggleResp.Message)

	res = env.request(t, http.MethodPost, toggleURL, token, nil)
	require.Equal(t, http.StatusOK, res.Code)
	decodeJSON(t, res, &toggleResp)
	assert.Equal(t, "Subscription removed.", toggleResp.Message)

	res = env.request(t, http.MethodPost, toggleURL, token, nil)
	require.Equal(t, http.StatusOK, res.Code)
	decodeJSON(t, res, &toggleResp)
	assert.Equal(t, "Subscription added.", toggleResp.Message)
}

func TestSubscribeUnknownCourse(t *testing.T) {
	env := newTestEnv(t, "")

	token, _ := env.registerAndLogin(t, "user@test.com")

	res := env.request(t, http.MethodPost, "/v1/courses/52f1cd34-98ab-4f36-9a26-d2f0eb4a6a72/subscribe", token, nil)
	assert.Equal(t, http.StatusNotFound, res.Code)
}
