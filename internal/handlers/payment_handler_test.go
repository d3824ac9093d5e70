package handlers_test

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"net/url"
	"strings"
	"sync"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/polikarpova/coursehub/internal/models"
)

type fakeStripe struct {
	mu              sync.Mutex
	productCalls    int
	lastProductName string
	priceForm       url.Values
	sessionForm     url.Values
	retrievedID     string
	productErrorMsg string
	retrieveErrMsg  string
	paymentStatus   string
}

func (f *fakeStripe) handler(t *testing.T) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		f.mu.Lock()
		defer f.mu.Unlock()

		writeErr := func(msg string) {
			w.WriteHeader(http.StatusBadRequest)
			json.NewEncoder(w).Encode(gin.H{"error": gin.H{"message": msg}})
		}

		switch {
		case r.Method == http.MethodPost && r.URL.Path == "/v1/products":
			f.productCalls++
			if f.productErrorMsg != "" {
				writeErr(f.productErrorMsg)
				return
			}
			require.NoError(t, r.ParseForm())
			f.lastProductName = r.PostForm.Get("name")
			json.NewEncoder(w).Encode(gin.H{"id": "prod_test123"})

		case r.Method == http.MethodPost && r.URL.Path == "/v1/prices":
			require.NoError(t, r.ParseForm())
			f.priceForm = r.PostForm
			json.NewEncoder(w).Encode(gin.H{"id": "price_test123"})

		case r.Method == http.MethodPost && r.URL.Path == "/v1/checkout/sessions":
			require.NoError(t, r.ParseForm())
			f.sessionForm = r.PostForm
			json.NewEncoder(w).Encode(gin.H{
				"id":  "sess_test123",
				"url": "https://checkout.stripe.com/pay/test",
			})

		case r.Method == http.MethodGet && strings.HasPrefix(r.URL.Path, "/v1/checkout/sessions/"):
			if f.retrieveErrMsg != "" {
				writeErr(f.retrieveErrMsg)
				return
			}
			f.retrievedID = strings.TrimPrefix(r.URL.Path, "/v1/checkout/sessions/")
			json.NewEncoder(w).Encode(gin.H{
				"id":             f.retrievedID,
				"url":            "https://checkout.stripe.com/pay/test",
				"payment_status": f.paymentStatus,
			})

		default:
			t.Errorf("unexpected stripe request: %s %s", r.Method, r.URL.Path)
			w.WriteHeader(http.StatusNotFound)
		}
	}
}

func newPaymentEnv(t *testing.T) (*testEnv, *fakeStripe) {
	fake := &fakeStripe{paymentStatus: "unpaid"}
	srv := httptest.NewServer(fake.handler(t))
	t.Cleanup(srv.Close)
	return newTestEnv(t, srv.URL), fake
}

func strPtr(s string) *string { return &s }

func TestCreateTransferPaymentOpensCheckout(t *testing.T) {
	env, fake := newPaymentEnv(t)

	token, _ := env.registerAndLogin(t, "payer@test.com")
	courseID := env.createCourse(t, token, "Test Course")

	res := env.request(t, http.MethodPost, "/v1/payments", token, gin.H{
		"amount":         1000,
		"payment_method": "transfer",
		"paid_course":    courseID,
	})
	require.Equal(t, http.StatusCreated, res.Code, res.Body.String())

	var created struct {
		PaymentID  uuid.UUID `json:"payment_id"`
		PaymentURL string    `json:"payment_url"`
	}
	decodeJSON(t, res, &created)
	assert.Equal(t, "https://checkout.stripe.com/pay/test", created.PaymentURL)

	// The gateway saw the target's name and the amount in minor units.
	assert.Equal(t, "Test Course", fake.lastProductName)
	assert.Equal(t, "100000", fake.priceForm.Get("unit_amount"))
	assert.Equal(t, "rub", fake.priceForm.Get("currency"))
	assert.Equal(t, "prod_test123", fake.priceForm.Get("product"))
	assert.Equal(t, "price_test123", fake.sessionForm.Get("line_items[0][price]"))
	assert.Equal(t, "1", fake.sessionForm.Get("line_items[0][quantity]"))

	var payment models.Payment
	require.NoError(t, env.db.First(&payment, "id = ?", created.PaymentID).Error)
	require.NotNil(t, payment.StripeProductID)
	require.NotNil(t, payment.StripePriceID)
	require.NotNil(t, payment.StripeSessionID)
	assert.Equal(t, "prod_test123", *payment.StripeProductID)
	assert.Equal(t, "price_test123", *payment.StripePriceID)
	assert.Equal(t, "sess_test123", *payment.StripeSessionID)
	assert.False(t, payment.PaymentDate.IsZero())
}

func TestCreateCashPaymentSkipsGateway(t *testing.T) {
	env, fake := newPaymentEnv(t)

	token, _ := env.registerAndLogin(t, "payer@test.com")
	courseID := env.createCourse(t, token, "Test Course")

	res := env.request(t, http.MethodPost, "/v1/payments", token, gin.H{
		"amount":         1000,
		"payment_method": "cash",
		"paid_course":    courseID,
	})
	require.Equal(t, http.StatusCreated, res.Code, res.Body.String())

	var created models.Payment
	decodeJSON(t, res, &created)
	assert.NotEqual(t, uuid.Nil, created.ID)

	var payment models.Payment
	require.NoError(t, env.db.First(&payment, "id = ?", created.ID).Error)
	assert.Nil(t, payment.StripeProductID)
	assert.Nil(t, payment.StripePriceID)
	assert.Nil(t, payment.StripeSessionID)
	assert.Equal(t, 0, fake.productCalls, "cash payments must never reach the gateway")
}

func TestCreateTransferPaymentWithoutTarget(t *testing.T) {
	env, fake := newPaymentEnv(t)

	token, _ := env.registerAndLogin(t, "payer@test.com")

	res := env.request(t, http.MethodPost, "/v1/payments", token, gin.H{
		"amount":         500,
		"payment_method": "transfer",
	})
	require.Equal(t, http.StatusCreated, res.Code, res.Body.String())
	assert.Equal(t, 0, fake.productCalls)
}

func TestCreatePaymentRejectsBothTargets(t *testing.T) {
	env, _ := newPaymentEnv(t)

	token, _ := env.registerAndLogin(t, "payer@test.com")
	courseID := env.createCourse(t, token, "Test Course")
	lessonID := env.createLesson(t, token, courseID, "Test Lesson")

	res := env.request(t, http.MethodPost, "/v1/payments", token, gin.H{
		"amount":         500,
		"payment_method": "cash",
		"paid_course":    courseID,
		"paid_lesson":    lessonID,
	})
	assert.Equal(t, http.StatusBadRequest, res.Code)
}

func TestGatewayFailureRollsBackPayment(t *testing.T) {
	env, fake := newPaymentEnv(t)
	fake.productErrorMsg = "Stripe error"

	token, _ := env.registerAndLogin(t, "payer@test.com")
	courseID := env.createCourse(t, token, "Test Course")

	res := env.request(t, http.MethodPost, "/v1/payments", token, gin.H{
		"amount":         1000,
		"payment_method": "transfer",
		"paid_course":    courseID,
	})
	require.Equal(t, http.StatusBadRequest, res.Code, res.Body.String())

	var errResp struct {
		Message string `json:"message"`
	}
	decodeJSON(t, res, &errResp)
	assert.Equal(t, "Stripe error", errResp.Message, "gateway message must be surfaced verbatim")

	var count int64
	env.db.Model(&models.Payment{}).Count(&count)
	assert.Equal(t, int64(0), count, "failed payment must be fully rolled back")
}

func TestPaymentStatusCheck(t *testing.T) {
	env, fake := newPaymentEnv(t)
	fake.paymentStatus = "paid"

	token, userID := env.registerAndLogin(t, "payer@test.com")
	courseID := env.createCourse(t, token, "Test Course")

	payment := models.Payment{
		UserID:              userID,
		PaidCourseID:        &courseID,
		Amount:              1000,
		PaymentMethod:       models.PaymentMethodTransfer,
		StripeSessionID:     strPtr("sess_test123"),
		StripePaymentStatus: strPtr("unpaid"),
	}
	require.NoError(t, env.db.Create(&payment).Error)

	res := env.request(t, http.MethodGet, "/v1/payments/"+payment.ID.String()+"/status", token, nil)
	require.Equal(t, http.StatusOK, res.Code, res.Body.String())

	var statusResp struct {
		Status string `json:"status"`
	}
	decodeJSON(t, res, &statusResp)
	assert.Equal(t, "paid", statusResp.Status)
	assert.Equal(t, "sess_test123", fake.retrievedID)

	var updated models.Payment
	require.NoError(t, env.db.First(&updated, "id = ?", payment.ID).Error)
	require.NotNil(t, updated.StripePaymentStatus)
	assert.Equal(t, "paid", *updated.StripePaymentStatus)
}

func TestPaymentStatusWithoutSession(t *testing.T) {
	env, _ := newPaymentEnv(t)

	token, userID := env.registerAndLogin(t, "payer@test.com")

	payment := models.Payment{
		UserID:        userID,
		Amount:        1000,
		PaymentMethod: models.PaymentMethodCash,
	}
	require.NoError(t, env.db.Create(&payment).Error)

	res := env.request(t, http.MethodGet, "/v1/payments/"+payment.ID.String()+"/status", token, nil)
	require.Equal(t, http.StatusBadRequest, res.Code)

	var errResp struct {
		Message string `json:"message"`
	}
	decodeJSON(t, res, &errResp)
	assert.Equal(t, "Stripe session not found", errResp.Message)
}

func TestPaymentStatusMasksOtherUsersPayments(t *testing.T) {
	env, _ := newPaymentEnv(t)

	_, ownerID := env.registerAndLogin(t, "payer@test.com")
	strangerToken, _ := env.registerAndLogin(t, "stranger@test.com")

	payment := models.Payment{
		UserID:          ownerID,
		Amount:          1000,
		PaymentMethod:   models.PaymentMethodTransfer,
		StripeSessionID: strPtr("sess_test123"),
	}
	require.NoError(t, env.db.Create(&payment).Error)

	res := env.request(t, http.MethodGet, "/v1/payments/"+payment.ID.String()+"/status", strangerToken, nil)
	assert.Equal(t, http.StatusNotFound, res.Code, "other users' payments must look like they don't exist")
}

func TestPaymentStatusGatewayError(t *testing.T) {
	env, fake := newPaymentEnv(t)
	fake.retrieveErrMsg = "Stripe error"

	token, userID := env.registerAndLogin(t, "payer@test.com")

	payment := models.Payment{
		UserID:          userID,
		Amount:          1000,
		PaymentMethod:   models.PaymentMethodTransfer,
		StripeSessionID: strPtr("sess_test123"),
	}
	require.NoError(t, env.db.Create(&payment).Error)

	res := env.request(t, http.MethodGet, "/v1/payments/"+payment.ID.String()+"/status", token, nil)
	require.Equal(t, http.StatusBadRequest, res.Code)

	var errResp struct {
		Message string `json:"message"`
	}
	decodeJSON(t, res, &errResp)
	assert.Equal(t, "Stripe error", errResp.Message)
}

func TestPaymentQR(t *testing.T) {
	env, _ := newPaymentEnv(t)

	token, userID := env.registerAndLogin(t, "payer@test.com")

	payment := models.Payment{
		UserID:          userID,
		Amount:          1000,
		PaymentMethod:   models.PaymentMethodTransfer,
		StripeSessionID: strPtr("sess_test123"),
	}
	require.NoError(t, env.db.Create(&payment).Error)

	res := env.request(t, http.MethodGet, "/v1/payments/"+payment.ID.String()+"/qr", token, nil)
	require.Equal(t, http.StatusOK, res.Code)
	assert.Equal(t, "image/png", res.Header().Get("Content-Type"))
	assert.NotEmpty(t, res.Body.Bytes())
}

func TestListPaymentsFilters(t *testing.T) {
	env, _ := newPaymentEnv(t)

	token, userID := env.registerAndLogin(t, "payer@test.com")
	courseID := env.createCourse(t, token, "Test Course")
	lessonID := env.createLesson(t, token, courseID, "Test Lesson")

	payments := []models.Payment{
		{UserID: userID, Amount: 100, PaymentMethod: models.PaymentMethodCash, PaidCourseID: &courseID},
		{UserID: userID, Amount: 200, PaymentMethod: models.PaymentMethodTransfer, PaidCourseID: &courseID},
		{UserID: userID, Amount: 300, PaymentMethod: models.PaymentMethodCash, PaidLessonID: &lessonID},
	}
	for i := range payments {
		require.NoError(t, env.db.Create(&payments[i]).Error)
	}

	var listResp struct {
		Payments []models.Payment `json:"payments"`
		Total    int              `json:"total"`
	}

	res := env.request(t, http.MethodGet, "/v1/payments?payment_method=cash", token, nil)
	require.Equal(t, http.StatusOK, res.Code)
	decodeJSON(t, res, &listResp)
	assert.Equal(t, 2, listResp.Total)

	res = env.request(t, http.MethodGet, "/v1/payments?paid_lesson="+lessonID.String(), token, nil)
	require.Equal(t, http.StatusOK, res.Code)
	decodeJSON(t, res, &listResp)
	require.Equal(t, 1, listResp.Total)
	assert.Equal(t, 300, listResp.Payments[0].Amount)

	res = env.request(t, http.MethodGet, "/v1/payments?paid_course="+courseID.String(), token, nil)
	require.Equal(t, http.StatusOK, res.Code)
	decodeJSON(t, res, &listResp)
	assert.Equal(t, 2, listResp.Total)

	res = env.request(t, http.MethodGet, "/v1/payments?ordering=bogus", token, nil)
	assert.Equal(t, http.StatusBadRequest, res.Code)
}
