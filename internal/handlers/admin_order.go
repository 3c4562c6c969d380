package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"foodapi/internal/service"
)

func ListOrders(svc OrderService) gin.HandlerFunc {
	return func(c *gin.Context) {
		page, limit, set, err := parsePaginationParams(c.Query("page"), c.Query("limit"))
		if err != nil {
			respondError(c, err)
			return
		}
		if !set {
			page, limit = 1, maxPageLimit
		}

		orders, total, err := svc.ListOrders(c.Request.Context(), page, limit)
		if err != nil {
			respondError(c, err)
			return
		}

		respondOK(c, http.StatusOK, gin.H{
			"orders": orders,
			"pagination": gin.H{
				"page":  page,
				"limit": limit,
				"total": total,
			},
		}, "orders fetched")
	}
}

func UpdateOrderStatus(svc OrderService) gin.HandlerFunc {
	return func(c *gin.Context) {
		var req service.StatusUpdateInput
		if !bindJSON(c, &req, false) {
			return
		}

		if err := svc.UpdateStatus(c.Request.Context(), req); err != nil {
			respondError(c, err)
			return
		}
		respondOK(c, http.StatusOK, gin.H{}, "status updated")
	}
}

func DeleteOrder(svc OrderService) gin.HandlerFunc {
	return func(c *gin.Context) {
		if err := svc.RemoveOrder(c.Request.Context(), c.Param("id")); err != nil {
			respondError(c, err)
			return
		}
		respondOK(c, http.StatusOK, gin.H{}, "order deleted")
	}
}
