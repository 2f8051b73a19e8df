package handlers

import (
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/gin-gonic/gin"
)

// Decoding failures must come back as 400, not 500. None of these bodies
// reach the models layer, so no database is needed.
func TestBindFailuresReturnBadRequest(t *testing.T) {
	gin.SetMode(gin.TestMode)
	r := gin.New()
	r.POST("/free-issues", CreateFreeIssue)

	cases := []struct {
		name string
		body string
	}{
		{
			name: "unknown free issue type",
			body: `{"label_name":"promo","free_issue_type":"Tiered","sku_id":1,"free_sku_id":2,"purchase_qty":5,"free_qty":1}`,
		},
		{
			name: "truncated body",
			body: `{`,
		},
		{
			name: "wrong field type",
			body: `{"label_name":"promo","free_issue_type":"Flat","sku_id":"one","free_sku_id":2,"purchase_qty":5,"free_qty":1}`,
		},
		{
			name: "missing required fields",
			body: `{}`,
		},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			w := httptest.NewRecorder()
			req := httptest.NewRequest(http.MethodPost, "/free-issues", strings.NewReader(tc.body))
			req.Header.Set("Content-Type", "application/json")
			r.ServeHTTP(w, req)

			if w.Code != http.StatusBadRequest {
				t.Fatalf("status = %d, body = %s, want %d", w.Code, w.Body.String(), http.StatusBadRequest)
			}
		})
	}
}
