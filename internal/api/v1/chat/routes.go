package chat

import "github.com/gin-gonic/gin"

func RegisterRoutes(router *gin.RouterGroup) {
	chat := router.Group("/chat")
	chat.POST("", Send)
	chat.GET("/history", History)
	chat.DELETE("/history", ClearHistory)
	chat.GET("/sessions", Sessions)
	chat.DELETE("/sessions", DeleteSession)
}
