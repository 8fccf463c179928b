package response

import (
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"dancestudio/internal/pkg/apperr"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestFromError_UsesMatchingStatus(t *testing.T) {
	gin.SetMode(gin.TestMode)

	cases := []struct {
		name    string
		err     error
		status  int
		message string
	}{
		{"validation", apperr.Validation("name is required"), http.StatusBadRequest, "name is required"},
		{"conflict", apperr.Conflict("handle taken"), http.StatusConflict, "handle taken"},
		{"internal", errors.New("dial tcp: refused"), http.StatusInternalServerError, "An internal error occurred"},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			w := httptest.NewRecorder()
			c, _ := gin.CreateTestContext(w)

			FromError(c, tc.err, gin.H{"entity": "role"})

			assert.Equal(t, tc.status, w.Code)
			var env map[string]any
			require.NoError(t, json.Unmarshal(w.Body.Bytes(), &env))
			assert.Equal(t, false, env["success"])
			assert.Equal(t, float64(tc.status), env["status"])
			assert.Equal(t, tc.message, env["message"])
			_, hasData := env["data"]
			assert.False(t, hasData)
			assert.Len(t, c.Errors, 1)
		})
	}
}

func TestSuccess_CarriesData(t *testing.T) {
	gin.SetMode(gin.TestMode)
	w := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(w)

	Success(c, http.StatusCreated, "Role created successfully", gin.H{"id": "r1"})

	assert.Equal(t, http.StatusCreated, w.Code)
	assert.JSONEq(t, `{"success":true,"message":"Role created successfully","status":201,"data":{"id":"r1"}}`, w.Body.String())
}

func TestPageParams(t *testing.T) {
	gin.SetMode(gin.TestMode)

	cases := []struct {
		query       string
		page, limit int
	}{
		{"", 1, 20},
		{"page=3&limit=50", 3, 50},
		{"page=0&limit=500", 1, 20},
		{"page=abc&limit=-1", 1, 20},
	}
	for _, tc := range cases {
		c, _ := gin.CreateTestContext(httptest.NewRecorder())
		c.Request = httptest.NewRequest(http.MethodGet, "/?"+tc.query, nil)
		page, limit := PageParams(c)
		assert.Equal(t, tc.page, page, tc.query)
		assert.Equal(t, tc.limit, limit, tc.query)
	}

	p := NewPage[string](nil, 1, 20, 0)
	raw, err := json.Marshal(p)
	require.NoError(t, err)
	assert.JSONEq(t, `{"items":[],"pagination":{"page":1,"limit":20,"total":0}}`, string(raw))
}
