package handlers

import (
	"net/http"

	"threatlens/helper"
	"threatlens/models"
	"threatlens/services"

	"github.com/gin-gonic/gin"
)

type SummaryHandler struct {
	summaryService services.SummaryService
}

func NewSummaryHandler(summaryService services.SummaryService) *SummaryHandler {
	return &SummaryHandler{summaryService: summaryService}
}

func (h *SummaryHandler) GetSummaries(c *gin.Context) {
	summaries, err := h.summaryService.List(c.GetUint("organization_id"), c.Query("date"))
	if err != nil {
		helper.RespondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"summaries": summaries})
}

func (h *SummaryHandler) GetLatestSummary(c *gin.Context) {
	summary, err := h.summaryService.Latest(c.GetUint("organization_id"), c.Query("date"))
	if err != nil {
		helper.RespondError(c, err)
		return
	}
	c.JSON(http.StatusOK, summary)
}

func (h *SummaryHandler) GenerateSummary(c *gin.Context) {
	var req models.GenerateSummaryRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	summary, err := h.summaryService.Generate(c.Request.Context(), c.GetUint("organization_id"), req.Date)
	if err != nil {
		helper.RespondError(c, err)
		return
	}
	c.JSON(http.StatusCreated, summary)
}

func (h *SummaryHandler) DeleteSummary(c *gin.Context) {
	id, err := parseID(c)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid summary id"})
		return
	}

	if err := h.summaryService.Delete(c.GetUint("organization_id"), id); err != nil {
		helper.RespondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "summary deleted"})
}
