package handlers

import (
	"net/http"

	"threatlens/helper"
	"threatlens/models"
	"threatlens/services"

	"github.com/gin-gonic/gin"
)

type RatingHandler struct {
	ratingService services.RatingService
}

func NewRatingHandler(ratingService services.RatingService) *RatingHandler {
	return &RatingHandler{ratingService: ratingService}
}

func (h *RatingHandler) GetRating(c *gin.Context) {
	orgID := c.GetUint("organization_id")
	userID := c.GetUint("user_id")
	id, err := parseID(c)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid article id"})
		return
	}

	rating, err := h.ratingService.Get(orgID, userID, id)
	if err != nil {
		helper.RespondError(c, err)
		return
	}

	c.JSON(http.StatusOK, rating)
}

func (h *RatingHandler) UpsertRating(c *gin.Context) {
	orgID := c.GetUint("organization_id")
	userID := c.GetUint("user_id")
	id, err := parseID(c)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid article id"})
		return
	}

	var req models.RateArticleRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	rating, err := h.ratingService.Rate(orgID, userID, id, req)
	if err != nil {
		helper.RespondError(c, err)
		return
	}

	c.JSON(http.StatusOK, rating)
}
