package handlers

import (
	"net/http"
	"strconv"

	"threatlens/helper"
	"threatlens/models"
	"threatlens/services"

	"github.com/gin-gonic/gin"
)

type ArticleHandler struct {
	articleService services.ArticleService
	clsService     services.ClassificationService
	importer       services.ImporterService
}

func NewArticleHandler(
	articleService services.ArticleService,
	clsService services.ClassificationService,
	importer services.ImporterService,
) *ArticleHandler {
	return &ArticleHandler{
		articleService: articleService,
		clsService:     clsService,
		importer:       importer,
	}
}

func (h *ArticleHandler) GetArticles(c *gin.Context) {
	orgID := c.GetUint("organization_id")

	var params models.ArticleListParams
	if err := c.ShouldBindQuery(&params); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	if params.Page < 1 {
		params.Page = 1
	}
	if params.Limit < 1 || params.Limit > 100 {
		params.Limit = 20
	}

	articles, total, err := h.articleService.List(orgID, params)
	if err != nil {
		helper.RespondError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"articles":   articles,
		"pagination": helper.GeneratePaging(c, params.Limit, params.Page, total),
	})
}

func (h *ArticleHandler) GetArticle(c *gin.Context) {
	orgID := c.GetUint("organization_id")
	id, err := parseID(c)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid article id"})
		return
	}

	article, err := h.articleService.Get(orgID, id)
	if err != nil {
		helper.RespondError(c, err)
		return
	}

	c.JSON(http.StatusOK, article)
}

func (h *ArticleHandler) DeleteArticle(c *gin.Context) {
	orgID := c.GetUint("organization_id")
	username := c.GetString("username")
	id, err := parseID(c)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid article id"})
		return
	}

	if err := h.articleService.Delete(orgID, username, id); err != nil {
		helper.RespondError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"message": "article deleted"})
}

func (h *ArticleHandler) StarArticle(c *gin.Context) {
	orgID := c.GetUint("organization_id")
	id, err := parseID(c)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid article id"})
		return
	}

	article, err := h.articleService.ToggleStar(orgID, id)
	if err != nil {
		helper.RespondError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"id": article.ID, "starred": article.Starred})
}

func (h *ArticleHandler) ClassifyArticle(c *gin.Context) {
	orgID := c.GetUint("organization_id")
	id, err := parseID(c)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid article id"})
		return
	}

	cls, err := h.clsService.Classify(c.Request.Context(), orgID, id)
	if err != nil {
		helper.RespondError(c, err)
		return
	}

	c.JSON(http.StatusOK, cls)
}

func (h *ArticleHandler) UploadArticle(c *gin.Context) {
	orgID := c.GetUint("organization_id")
	username := c.GetString("username")

	var req models.UploadArticleRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	article, err := h.importer.Upload(orgID, username, req)
	if err != nil {
		helper.RespondError(c, err)
		return
	}

	c.JSON(http.StatusCreated, article)
}

func (h *ArticleHandler) ImportArticle(c *gin.Context) {
	orgID := c.GetUint("organization_id")

	var req models.ImportArticleRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	article, err := h.importer.Import(c.Request.Context(), orgID, req)
	if err != nil {
		helper.RespondError(c, err)
		return
	}

	c.JSON(http.StatusCreated, article)
}

func parseID(c *gin.Context) (uint, error) {
	id, err := strconv.ParseUint(c.Param("id"), 10, 32)
	return uint(id), err
}
