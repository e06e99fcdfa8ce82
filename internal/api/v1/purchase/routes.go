package purchase

import "github.com/gin-gonic/gin"

func RegisterRoutes(router *gin.RouterGroup) {
	p := router.Group("/purchase")
	p.POST("/tokens", CreateTokenOrder)
	p.PUT("/tokens", VerifyTokenOrder)
	p.POST("/models", CreateModelOrder)
	p.PUT("/models", VerifyModelOrder)
	p.GET("/history", PaymentHistory)
}
