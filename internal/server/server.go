package server

import (
	"fmt"
	"os"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"

	"github.com/polikarpova/coursehub/config"
	"github.com/polikarpova/coursehub/internal/handlers"
	"github.com/polikarpova/coursehub/internal/middleware"
	"github.com/polikarpova/coursehub/internal/stripegw"
)

func Start() error {
	cfg, err := config.LoadConfig()
	if err != nil {
		return fmt.Errorf("failed to load config: %v", err)
	}

	db, err := config.InitDatabase(cfg)
	if err != nil {
		return fmt.Errorf("failed to initialize database: %v", err)
	}

	stripeCfg, err := config.LoadStripeConfig()
	if err != nil {
		return fmt.Errorf("failed to load stripe config: %v", err)
	}
	stripeClient := config.InitStripeClient(stripeCfg)

	r := NewRouter(db, stripeClient)

	port := os.Getenv("PORT")
	if port == "" {
		port = "8080"
	}
	return r.Run(":" + port)
}

func NewRouter(db *gorm.DB, stripeClient *stripegw.Client) *gin.Engine {
	r := gin.Default()

	r.Use(middleware.DatabaseMiddleware(db))
	r.Use(middleware.StripeMiddleware(stripeClient))

	public := r.Group("/v1")
	{
		public.POST("/register", handlers.Register)
		public.POST("/login", handlers.Login)
		public.POST("/token/refresh", handlers.RefreshToken)
	}

	protected := r.Group("/v1")
	protected.Use(middleware.JWTAuthMiddleware())
	{
		protected.GET("/profile", handlers.GetProfile)

		users := protected.Group("/users")
		{
			users.GET("", handlers.ListUsers)
			users.GET("/:id", handlers.GetUser)
			users.PUT("/:id", handlers.UpdateUser)
		}

		courses := protected.Group("/courses")
		{
			courses.GET("", handlers.ListCourses)
			courses.POST("", handlers.CreateCourse)
			courses.GET("/:id", handlers.GetCourse)
			courses.PUT("/:id", handlers.UpdateCourse)
			courses.DELETE("/:id", handlers.DeleteCourse)

			courses.POST("/:id/subscribe", handlers.Subscribe)
			courses.DELETE("/:id/subscribe", handlers.Unsubscribe)
			courses.POST("/:id/subscription", handlers.ToggleSubscription)
		}

		lessons := protected.Group("/lessons")
		{
			lessons.GET("", handlers.ListLessons)
			lessons.POST("", handlers.CreateLesson)
			lessons.GET("/:id", handlers.GetLesson)
			lessons.PUT("/:id", handlers.UpdateLesson)
			lessons.DELETE("/:id", handlers.DeleteLesson)
		}

		payments := protected.Group("/payments")
		{
			payments.GET("", handlers.ListPayments)
			payments.POST("", handlers.CreatePayment)
			payments.GET("/:id/status", handlers.PaymentStatus)
			payments.GET("/:id/qr", handlers.PaymentQR)
		}
	}

	return r
}
