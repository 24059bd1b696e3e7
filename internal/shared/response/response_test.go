package response

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
)

func TestPaginate(t *testing.T) {
	items := []int{1, 2, 3, 4, 5}

	page, meta := Paginate(items, 2, 2)
	assert.Equal(t, []int{3, 4}, page)
	assert.Equal(t, PaginationMeta{Total: 5, TotalPages: 3, Page: 2, PageSize: 2}, meta)

	page, meta = Paginate(items, 4, 2)
	assert.Empty(t, page)
	assert.Equal(t, int64(5), meta.Total)
}

func TestPageParams(t *testing.T) {
	gin.SetMode(gin.TestMode)
	cases := []struct {
		query      string
		page, size int
	}{
		{"", 1, defaultPageSize},
		{"?page=3&page_size=20", 3, 20},
		{"?page=-1&page_size=abc", 1, defaultPageSize},
		{"?page_size=1000", 1, maxPageSize},
	}

	for _, tc := range cases {
		c, _ := gin.CreateTestContext(httptest.NewRecorder())
		c.Request = httptest.NewRequest(http.MethodGet, "/"+tc.query, nil)

		page, size := PageParams(c)
		assert.Equal(t, tc.page, page, tc.query)
		assert.Equal(t, tc.size, size, tc.query)
	}
}

func TestError_Envelope(t *testing.T) {
	gin.SetMode(gin.TestMode)
	w := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(w)

	Error(c, http.StatusConflict, "RECORD_LOCKED", "Payroll is locked", nil)

	assert.Equal(t, http.StatusConflict, w.Code)
	assert.JSONEq(t, `{"ok":false,"error":{"code":"RECORD_LOCKED","message":"Payroll is locked"}}`, w.Body.String())
}
