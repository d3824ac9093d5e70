package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/skip2/go-qrcode"
	"gorm.io/gorm"

	"github.com/polikarpova/coursehub/internal/helpers"
	"github.com/polikarpova/coursehub/internal/middleware"
	"github.com/polikarpova/coursehub/internal/models"
)

type PaymentRequest struct {
	Amount        int        `json:"amount" binding:"required,min=1"`
	PaymentMethod string     `json:"payment_method" binding:"required,oneof=cash transfer"`
	PaidCourseID  *uuid.UUID `json:"paid_course"`
	PaidLessonID  *uuid.UUID `json:"paid_lesson"`
}

// CreatePayment persists a payment record and, for transfer payments with a
// course or lesson target, opens a Stripe checkout session. Any gateway
// failure rolls the record back so no partial state survives.
func CreatePayment(c *gin.Context) {
	var req PaymentRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		helpers.RespondWithError(c, http.StatusBadRequest, "Invalid input. Please check your fields.")
		return
	}

	if req.PaidCourseID != nil && req.PaidLessonID != nil {
		helpers.RespondWithError(c, http.StatusBadRequest, "A payment can target either a course or a lesson, not both.")
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

	var targetName string
	if req.PaidCourseID != nil {
		var course models.Course
		if err := gormDB.Where("id = ?", req.PaidCourseID).First(&course).Error; err != nil {
			helpers.RespondWithError(c, http.StatusNotFound, "Course not found.")
			return
		}
		targetName = course.Name
	}
	if req.PaidLessonID != nil {
		var lesson models.Lesson
		if err := gormDB.Where("id = ?", req.PaidLessonID).First(&lesson).Error; err != nil {
			helpers.RespondWithError(c, http.StatusNotFound, "Lesson not found.")
			return
		}
		targetName = lesson.Name
	}

	payment := models.Payment{
		UserID:        user.ID,
		PaidCourseID:  req.PaidCourseID,
		PaidLessonID:  req.PaidLessonID,
		Amount:        req.Amount,
		PaymentMethod: req.PaymentMethod,
	}

	if err := gormDB.Create(&payment).Error; err != nil {
		helpers.RespondWithError(c, http.StatusInternalServerError, "Failed to create payment.")
		return
	}

	if req.PaymentMethod != models.PaymentMethodTransfer || targetName == "" {
		c.JSON(http.StatusCreated, payment)
		return
	}

	stripeClient := middleware.GetStripeClient(c)
	if stripeClient == nil {
		gormDB.Delete(&payment)
		helpers.RespondWithError(c, http.StatusInternalServerError, "Stripe client not configured.")
		return
	}

	productID, err := stripeClient.CreateProduct(targetName)
	if err != nil {
		gormDB.Delete(&payment)
		helpers.RespondWithError(c, http.StatusBadRequest, err.Error())
		return
	}

	priceID, err := stripeClient.CreatePrice(productID, req.Amount)
	if err != nil {
		gormDB.Delete(&payment)
		helpers.RespondWithError(c, http.StatusBadRequest, err.Error())
		return
	}

	session, err := stripeClient.CreateCheckoutSession(priceID)
	if err != nil {
		gormDB.Delete(&payment)
		helpers.RespondWithError(c, http.StatusBadRequest, err.Error())
		return
	}

	updates := map[string]interface{}{
		"stripe_product_id": productID,
		"stripe_price_id":   priceID,
		"stripe_session_id": session.ID,
	}
	if err := gormDB.Model(&payment).Updates(updates).Error; err != nil {
		gormDB.Delete(&payment)
		helpers.RespondWithError(c, http.StatusInternalServerError, "Failed to save payment session.")
		return
	}

	c.JSON(http.StatusCreated, gin.H{
		"payment_id":  payment.ID,
		"payment_url": session.URL,
	})
}

// PaymentStatus pulls the checkout session's payment status from Stripe and
// stores it on the payment. Requests against other users' payments report
// not-found so payment existence is not leaked.
func PaymentStatus(c *gin.Context) {
	payment, gormDB, ok := findOwnPayment(c)
	if !ok {
		return
	}

	if payment.StripeSessionID == nil {
		helpers.RespondWithError(c, http.StatusBadRequest, "Stripe session not found")
		return
	}

	stripeClient := middleware.GetStripeClient(c)
	if stripeClient == nil {
		helpers.RespondWithError(c, http.StatusInternalServerError, "Stripe client not configured.")
		return
	}

	session, err := stripeClient.RetrieveSession(*payment.StripeSessionID)
	if err != nil {
		helpers.RespondWithError(c, http.StatusBadRequest, err.Error())
		return
	}

	if err := gormDB.Model(payment).Update("stripe_payment_status", session.PaymentStatus).Error; err != nil {
		helpers.RespondWithError(c, http.StatusInternalServerError, "Failed to update payment status.")
		return
	}

	c.JSON(http.StatusOK, gin.H{"status": session.PaymentStatus})
}

// PaymentQR renders the hosted checkout URL of a payment's session as a PNG
// QR code.
func PaymentQR(c *gin.Context) {
	payment, _, ok := findOwnPayment(c)
	if !ok {
		return
	}

	if payment.StripeSessionID == nil {
		helpers.RespondWithError(c, http.StatusBadRequest, "Stripe session not found")
		return
	}

	stripeClient := middleware.GetStripeClient(c)
	if stripeClient == nil {
		helpers.RespondWithError(c, http.StatusInternalServerError, "Stripe client not configured.")
		return
	}

	session, err := stripeClient.RetrieveSession(*payment.StripeSessionID)
	if err != nil {
		helpers.RespondWithError(c, http.StatusBadRequest, err.Error())
		return
	}

	qrImage, err := qrcode.Encode(session.URL, qrcode.Medium, 256)
	if err != nil {
		helpers.RespondWithError(c, http.StatusInternalServerError, "Failed to generate QR code.")
		return
	}

	c.Data(http.StatusOK, "image/png", qrImage)
}

func ListPayments(c *gin.Context) {
	gormDB, ok := requestDB(c)
	if !ok {
		return
	}

	if _, ok := requestUser(c, gormDB); !ok {
		return
	}

	query := gormDB.Model(&models.Payment{})
	if method := c.Query("payment_method"); method != "" {
		query = query.Where("payment_method = ?", method)
	}
	if courseID := c.Query("paid_course"); courseID != "" {
		query = query.Where("paid_course_id = ?", courseID)
	}
	if lessonID := c.Query("paid_lesson"); lessonID != "" {
		query = query.Where("paid_lesson_id = ?", lessonID)
	}

	ordering := c.DefaultQuery("ordering", "-payment_date")
	switch ordering {
	case "payment_date":
		query = query.Order("payment_date ASC")
	case "-payment_date":
		query = query.Order("payment_date DESC")
	default:
		helpers.RespondWithError(c, http.StatusBadRequest, "Invalid ordering field.")
		return
	}

	var payments []models.Payment
	if err := query.Find(&payments).Error; err != nil {
		helpers.RespondWithError(c, http.StatusInternalServerError, "Error retrieving payments.")
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"payments": payments,
		"total":    len(payments),
	})
}

// findOwnPayment resolves the path payment for the requester. Someone else's
// payment id yields 404, not 403.
func findOwnPayment(c *gin.Context) (*models.Payment, *gorm.DB, bool) {
	paymentID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		helpers.RespondWithError(c, http.StatusBadRequest, "Invalid payment ID.")
		return nil, nil, false
	}

	gormDB, ok := requestDB(c)
	if !ok {
		return nil, nil, false
	}

	userID, err := helpers.RequestUserID(c)
	if err != nil {
		helpers.RespondWithError(c, http.StatusUnauthorized, "User ID not found in token.")
		return nil, nil, false
	}

	var payment models.Payment
	if err := gormDB.Where("id = ?", paymentID).First(&payment).Error; err != nil {
		helpers.RespondWithError(c, http.StatusNotFound, "Payment not found.")
		return nil, nil, false
	}

	if payment.UserID != userID {
		helpers.RespondWithError(c, http.StatusNotFound, "Payment not found.")
		return nil, nil, false
	}

	return &payment, gormDB, true
}
