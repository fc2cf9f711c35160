package response

import (
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"hotel/internal/repository"
)

// PathID parses the :id path parameter. On failure it writes a 400 and returns false.
func PathID(c *gin.Context) (int64, bool) {
	id, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil || id <= 0 {
		Error(c, http.StatusBadRequest, "INVALID_ID", "Invalid id")
		return 0, false
	}
	return id, true
}

// PageQuery reads ?limit= and ?offset=. Bad values fall back to the defaults.
func PageQuery(c *gin.Context) repository.Page {
	limit, _ := strconv.Atoi(c.Query("limit"))
	offset, _ := strconv.Atoi(c.Query("offset"))
	return repository.Page{Limit: limit, Offset: offset}
}

type ListBody struct {
	Count   int64       `json:"count"`
	Limit   int         `json:"limit"`
	Offset  int         `json:"offset"`
	Results interface{} `json:"results"`
}

func List(c *gin.Context, results interface{}, total int64, page repository.Page) {
	page = page.Normalize()
	Success(c, http.StatusOK, ListBody{Count: total, Limit: page.Limit, Offset: page.Offset, Results: results})
}
