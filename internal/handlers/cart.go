package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"
)

// cartRequest carries only the item. Any userId a client sends is ignored;
// the identity comes from the access token.
type cartRequest struct {
	ItemID string `json:"itemId"`
}

func AddToCart(svc CartService) gin.HandlerFunc {
	return func(c *gin.Context) {
		userID, ok := currentUserID(c)
		if !ok {
			return
		}
		var req cartRequest
		if !bindJSON(c, &req, false) {
			return
		}

		if err := svc.AddItem(c.Request.Context(), userID, req.ItemID); err != nil {
			respondError(c, err)
			return
		}
		respondOK(c, http.StatusOK, gin.H{}, "added to cart")
	}
}

func RemoveFromCart(svc CartService) gin.HandlerFunc {
	return func(c *gin.Context) {
		userID, ok := currentUserID(c)
		if !ok {
			return
		}
		var req cartRequest
		if !bindJSON(c, &req, false) {
			return
		}

		if err := svc.RemoveItem(c.Request.Context(), userID, req.ItemID); err != nil {
			respondError(c, err)
			return
		}
		respondOK(c, http.StatusOK, gin.H{}, "removed from cart")
	}
}

func GetCart(svc CartService) gin.HandlerFunc {
	return func(c *gin.Context) {
		userID, ok := currentUserID(c)
		if !ok {
			return
		}

		cart, err := svc.GetCart(c.Request.Context(), userID)
		if err != nil {
			respondError(c, err)
			return
		}
		respondOK(c, http.StatusOK, gin.H{"cartData": cart}, "cart fetched")
	}
}
