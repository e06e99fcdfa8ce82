package purchase

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/0xn1k/AIConflux/internal/services"
	"github.com/0xn1k/AIConflux/internal/utils"
)

// CreateTokenOrder godoc
// @Summary Create a hosted order for a token package
// @Tags purchase
// @Accept  json
// @Produce  json
// @Security ApiKeyAuth
// @Param   input     body   TokenOrderRequest  true  "Package"
// @Success 200 {object} utils.Response{data=OrderResponse}
// @Failure 400 {object} utils.Response
// @Failure 401 {object} utils.Response
// @Failure 404 {object} utils.Response
// @Failure 500 {object} utils.Response
// @Router /purchase/tokens [post]
func CreateTokenOrder(c *gin.Context) {
	email := c.GetString("email")
	if email == "" {
		c.JSON(http.StatusUnauthorized, utils.NewErrorResponse(http.StatusUnauthorized, "Unauthorized"))
		return
	}

	var req TokenOrderRequest
	if !utils.BindAndValidate(c, &req) {
		return
	}

	details, err := services.CreateTokenOrder(email, req.PackageType)
	if err != nil {
		respondOrderError(c, err)
		return
	}

	c.JSON(http.StatusOK, utils.NewSuccessResponse("success", OrderResponse{
		OrderID:  details.OrderID,
		Amount:   details.Amount,
		Currency: details.Currency,
		KeyID:    details.KeyID,
	}))
}

// VerifyTokenOrder godoc
// @Summary Verify a token purchase and credit the tokens
// @Tags purchase
// @Accept  json
// @Produce  json
// @Security ApiKeyAuth
// @Param   input     body   VerifyRequest  true  "Checkout callback"
// @Success 200 {object} utils.Response{data=VerifyResponse}
// @Failure 400 {object} utils.Response
// @Failure 401 {object} utils.Response
// @Failure 404 {object} utils.Response
// @Router /purchase/tokens [put]
func VerifyTokenOrder(c *gin.Context) {
	verify(c)
}

// CreateModelOrder godoc
// @Summary Create a hosted order for a premium model unlock
// @Tags purchase
// @Accept  json
// @Produce  json
// @Security ApiKeyAuth
// @Param   input     body   ModelOrderRequest  true  "Model"
// @Success 200 {object} utils.Response{data=OrderResponse}
// @Failure 400 {object} utils.Response
// @Failure 401 {object} utils.Response
// @Failure 404 {object} utils.Response
// @Failure 500 {object} utils.Response
// @Router /purchase/models [post]
func CreateModelOrder(c *gin.Context) {
	email := c.GetString("email")
	if email == "" {
		c.JSON(http.StatusUnauthorized, utils.NewErrorResponse(http.StatusUnauthorized, "Unauthorized"))
		return
	}

	var req ModelOrderRequest
	if !utils.BindAndValidate(c, &req) {
		return
	}

	details, err := services.CreateModelOrder(email, req.Model)
	if err != nil {
		respondOrderError(c, err)
		return
	}

	c.JSON(http.StatusOK, utils.NewSuccessResponse("success", OrderResponse{
		OrderID:  details.OrderID,
		Amount:   details.Amount,
		Currency: details.Currency,
		KeyID:    details.KeyID,
		Model:    req.Model,
	}))
}

// VerifyModelOrder godoc
// @Summary Verify a model purchase and grant the unlock
// @Tags purchase
// @Accept  json
// @Produce  json
// @Security ApiKeyAuth
// @Param   input     body   VerifyRequest  true  "Checkout callback"
// @Success 200 {object} utils.Response{data=VerifyResponse}
// @Failure 400 {object} utils.Response
// @Failure 401 {object} utils.Response
// @Failure 404 {object} utils.Response
// @Router /purchase/models [put]
func VerifyModelOrder(c *gin.Context) {
	verify(c)
}

// verify settles either order kind; the entitlement effect applied comes from
// the stored ledger entry, not from the route the callback arrived on.
func verify(c *gin.Context) {
	email := c.GetString("email")
	if email == "" {
		c.JSON(http.StatusUnauthorized, utils.NewErrorResponse(http.StatusUnauthorized, "Unauthorized"))
		return
	}

	var req VerifyRequest
	if !utils.BindAndValidate(c, &req) {
		return
	}

	user, message, err := services.VerifyPayment(email, req.OrderID, req.PaymentID, req.Signature)
	if err != nil {
		switch {
		case errors.Is(err, services.ErrInvalidSignature):
			c.JSON(http.StatusBadRequest, utils.NewErrorResponse(http.StatusBadRequest, err.Error()))
		case errors.Is(err, services.ErrOrderAlreadyProcessed), errors.Is(err, services.ErrModelAlreadyUnlocked):
			c.JSON(http.StatusBadRequest, utils.NewErrorResponse(http.StatusBadRequest, err.Error()))
		case errors.Is(err, services.ErrOrderNotFound), errors.Is(err, services.ErrAccountNotFound):
			c.JSON(http.StatusNotFound, utils.NewErrorResponse(http.StatusNotFound, err.Error()))
		case errors.Is(err, services.ErrGatewayNotConfigured):
			c.JSON(http.StatusInternalServerError, utils.NewErrorResponse(http.StatusInternalServerError, err.Error()))
		default:
			c.JSON(http.StatusInternalServerError, utils.NewErrorResponse(http.StatusInternalServerError, "Payment verification failed"))
		}
		return
	}

	c.JSON(http.StatusOK, utils.NewSuccessResponse("success", VerifyResponse{
		Tokens:         user.Tokens,
		UnlockedModels: user.UnlockedModels,
		Message:        message,
	}))
}

// PaymentHistory godoc
// @Summary List the caller's ledger entries, newest first
// @Tags purchase
// @Produce  json
// @Security ApiKeyAuth
// @Success 200 {object} utils.Response{data=HistoryResponse}
// @Failure 401 {object} utils.Response
// @Router /purchase/history [get]
func PaymentHistory(c *gin.Context) {
	email := c.GetString("email")
	if email == "" {
		c.JSON(http.StatusUnauthorized, utils.NewErrorResponse(http.StatusUnauthorized, "Unauthorized"))
		return
	}

	payments, err := services.GetPaymentHistory(email, services.HistoryPageSize)
	if err != nil {
		c.JSON(http.StatusInternalServerError, utils.NewErrorResponse(http.StatusInternalServerError, "Failed to fetch payment history"))
		return
	}

	c.JSON(http.StatusOK, utils.NewSuccessResponse("success", HistoryResponse{Payments: payments}))
}

func respondOrderError(c *gin.Context, err error) {
	switch {
	case errors.Is(err, services.ErrInvalidPackage), errors.Is(err, services.ErrInvalidModel),
		errors.Is(err, services.ErrModelAlreadyUnlocked):
		c.JSON(http.StatusBadRequest, utils.NewErrorResponse(http.StatusBadRequest, err.Error()))
	case errors.Is(err, services.ErrAccountNotFound):
		c.JSON(http.StatusNotFound, utils.NewErrorResponse(http.StatusNotFound, err.Error()))
	case errors.Is(err, services.ErrGatewayNotConfigured):
		c.JSON(http.StatusInternalServerError, utils.NewErrorResponse(http.StatusInternalServerError, err.Error()))
	default:
		c.JSON(http.StatusInternalServerError, utils.NewErrorResponse(http.StatusInternalServerError, "Failed to create order"))
	}
}
