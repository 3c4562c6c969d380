package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"foodapi/internal/service"
)

func PlaceOrder(svc OrderService) gin.HandlerFunc {
	return func(c *gin.Context) {
		userID, ok := currentUserID(c)
		if !ok {
			return
		}
		var req service.PlaceOrderInput
		if !bindJSON(c, &req, false) {
			return
		}

		order, err := svc.PlaceOrder(c.Request.Context(), userID, req)
		if err != nil {
			respondError(c, err)
			return
		}
		respondOK(c, http.StatusCreated, order, "order placed")
	}
}

func UserOrders(svc OrderService) gin.HandlerFunc {
	return func(c *gin.Context) {
		userID, ok := currentUserID(c)
		if !ok {
			return
		}

		orders, err := svc.ListUserOrders(c.Request.Context(), userID)
		if err != nil {
			respondError(c, err)
			return
		}
		respondOK(c, http.StatusOK, orders, "orders fetched")
	}
}

// CancelOrder deletes one of the caller's orders.
func CancelOrder(svc OrderService) gin.HandlerFunc {
	return func(c *gin.Context) {
		userID, ok := currentUserID(c)
		if !ok {
			return
		}

		if err := svc.CancelOrder(c.Request.Context(), userID, c.Param("id")); err != nil {
			respondError(c, err)
			return
		}
		respondOK(c, http.StatusOK, gin.H{}, "order deleted")
	}
}
