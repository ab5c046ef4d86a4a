package http

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/linchh/campus-carpool/internal/http/middleware"
)

type reviewRequest struct {
	Score   int    `json:"score" binding:"required"`
	Content string `json:"content" binding:"required"`
}

func (h *Handler) addReview(c *gin.Context) {
	principal, ok := middleware.MustPrincipal(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "missing principal"})
		return
	}
	carpoolID, ok := parseUUIDParam(c, "id")
	if !ok {
		return
	}

	var req reviewRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	review, err := h.reviews.Add(c.Request.Context(), principal, carpoolID, req.Score, req.Content)
	if err != nil {
		h.handleError(c, err)
		return
	}
	c.JSON(http.StatusCreated, toReviewView(*review))
}

func (h *Handler) updateReview(c *gin.Context) {
	principal, ok := middleware.MustPrincipal(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "missing principal"})
		return
	}
	reviewID, ok := parseUUIDParam(c, "id")
	if !ok {
		return
	}

	var req reviewRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	review, err := h.reviews.Update(c.Request.Context(), principal, reviewID, req.Score, req.Content)
	if err != nil {
		h.handleError(c, err)
		return
	}
	c.JSON(http.StatusOK, toReviewView(*review))
}

func (h *Handler) deleteReview(c *gin.Context) {
	principal, ok := middleware.MustPrincipal(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "missing principal"})
		return
	}
	reviewID, ok := parseUUIDParam(c, "id")
	if !ok {
		return
	}

	if err := h.reviews.Delete(c.Request.Context(), principal, reviewID); err != nil {
		h.handleError(c, err)
		return
	}
	c.Status(http.StatusNoContent)
}

func (h *Handler) listDrivers(c *gin.Context) {
	drivers, err := h.reviews.Drivers(c.Request.Context())
	if err != nil {
		h.handleError(c, err)
		return
	}

	views := make([]driverSummaryView, 0, len(drivers))
	for _, driver := range drivers {
		views = append(views, toDriverSummaryView(driver))
	}
	c.JSON(http.StatusOK, gin.H{"drivers": views})
}

func (h *Handler) driverReviews(c *gin.Context) {
	driverID, ok := parseUUIDParam(c, "id")
	if !ok {
		return
	}

	result, err := h.reviews.ForDriver(c.Request.Context(), driverID)
	if err != nil {
		h.handleError(c, err)
		return
	}
	c.JSON(http.StatusOK, toDriverReviewsView(*result))
}
