package middleware

import (
	"github.com/gin-gonic/gin"

	"github.com/polikarpova/coursehub/internal/stripegw"
)

func StripeMiddleware(stripeClient *stripegw.Client) gin.HandlerFunc {
	return func(c *gin.Context) {
		c.Set("stripe_client", stripeClient)
		c.Next()
	}
}

func GetStripeClient(c *gin.Context) *stripegw.Client {
	client, exists := c.Get("stripe_client")
	if !exists {
		return nil
	}
	return client.(*stripegw.Client)
}
