package helper

import (
	"math"
	"net/http"
	"reflect"
	"strconv"

	"github.com/gin-gonic/gin"
)

// GetStatusCode maps the service error taxonomy to an HTTP status code.
// Anything unrecognized is an unexpected error and maps to 500.
func GetStatusCode(err error) int {
	if err == nil {
		return http.StatusOK
	}

	v := reflect.Indirect(reflect.ValueOf(err))
	switch v.Type().String() {
	case "models.ErrorValidation":
		return http.StatusBadRequest
	case "models.ErrorUnauthorized":
		return http.StatusUnauthorized
	case "models.ErrorForbidden":
		return http.StatusForbidden
	case "models.ErrorNotFound":
		return http.StatusNotFound
	case "models.ErrorConflict":
		return http.StatusConflict
	default:
		return http.StatusInternalServerError
	}
}

// RespondError writes the JSON error envelope with the mapped status code.
// Unexpected errors get a generic message; the real cause is logged
// server-side, not leaked to the client.
func RespondError(c *gin.Context, err error) {
	status := GetStatusCode(err)
	message := err.Error()
	if status == http.StatusInternalServerError {
		message = "internal server error"
	}
	c.JSON(status, gin.H{"error": message})
}

func GetPagingUrl(c *gin.Context, page, limit int) string {
	r := c.Request
	scheme := "http"
	if c.Request.TLS != nil {
		scheme = "https"
	}
	return scheme + "://" + r.Host + r.URL.Path + "?page=" + strconv.Itoa(page) + "&limit=" + strconv.Itoa(limit)
}

// GeneratePaging builds the pagination envelope for list responses.
func GeneratePaging(c *gin.Context, limit, page int, totalRecord int64) map[string]interface{} {
	totalPages := int(math.Ceil(float64(totalRecord) / float64(limit)))

	prevURL, nextURL := "", ""
	if page > 1 && page <= totalPages {
		prevURL = GetPagingUrl(c, page-1, limit)
	}
	if page < totalPages {
		nextURL = GetPagingUrl(c, page+1, limit)
	}

	return map[string]interface{}{
		"total_records": totalRecord,
		"per_page":      limit,
		"current_page":  page,
		"total_pages":   totalPages,
		"links": map[string]interface{}{
			"previous": prevURL,
			"next":     nextURL,
		},
	}
}
