package handlers

import (
	"net/http"

	"threatlens/helper"
	"threatlens/services"

	"github.com/gin-gonic/gin"
)

type StatsHandler struct {
	statsService services.StatsService
}

func NewStatsHandler(statsService services.StatsService) *StatsHandler {
	return &StatsHandler{statsService: statsService}
}

func (h *StatsHandler) GetOverview(c *gin.Context) {
	overview, err := h.statsService.Overview(c.GetUint("organization_id"))
	if err != nil {
		helper.RespondError(c, err)
		return
	}
	c.JSON(http.StatusOK, overview)
}

func (h *StatsHandler) GetBacklog(c *gin.Context) {
	count, err := h.statsService.Backlog(c.GetUint("organization_id"))
	if err != nil {
		helper.RespondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"backlog": count})
}

func (h *StatsHandler) GetServiceLevel(c *gin.Context) {
	level, err := h.statsService.ServiceLevel(c.GetUint("organization_id"))
	if err != nil {
		helper.RespondError(c, err)
		return
	}
	c.JSON(http.StatusOK, level)
}

func (h *StatsHandler) GetCriticality(c *gin.Context) {
	bands, err := h.statsService.Criticality(c.GetUint("organization_id"))
	if err != nil {
		helper.RespondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"criticality": bands})
}

func (h *StatsHandler) GetTimeline(c *gin.Context) {
	buckets, err := h.statsService.Timeline(
		c.GetUint("organization_id"),
		c.Query("from"),
		c.Query("to"),
	)
	if err != nil {
		helper.RespondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"timeline": buckets})
}
