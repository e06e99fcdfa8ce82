package user

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/0xn1k/AIConflux/internal/services"
	"github.com/0xn1k/AIConflux/internal/utils"
)

// CurrentUser godoc
// @Summary Get the current account snapshot
// @Description Returns the caller's token balance and unlocked model set, provisioning the account on first access
// @Tags user
// @Produce  json
// @Security ApiKeyAuth
// @Success 200 {object} utils.Response{data=UserResponse}
// @Failure 401 {object} utils.Response
// @Failure 500 {object} utils.Response
// @Router /user [get]
func CurrentUser(c *gin.Context) {
	email := c.GetString("email")
	if email == "" {
		c.JSON(http.StatusUnauthorized, utils.NewErrorResponse(http.StatusUnauthorized, "Unauthorized"))
		return
	}

	u, err := services.GetOrCreateUser(email, c.GetString("name"))
	if err != nil {
		c.JSON(http.StatusInternalServerError, utils.NewErrorResponse(http.StatusInternalServerError, "Failed to load account"))
		return
	}

	c.JSON(http.StatusOK, utils.NewSuccessResponse("User information retrieved successfully", UserResponse{
		Email:          u.Email,
		Name:           u.Name,
		Tokens:         u.Tokens,
		UnlockedModels: u.UnlockedModels,
	}))
}
