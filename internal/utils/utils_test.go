package utils

import (
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/yukikurage/todo-api/internal/constants"
)

func TestGenerateToken(t *testing.T) {
	a, err := GenerateToken(constants.SessionTokenBytes)
	require.NoError(t, err)
	b, err := GenerateToken(constants.SessionTokenBytes)
	require.NoError(t, err)

	assert.Len(t, a, constants.SessionTokenBytes*2)
	assert.NotEqual(t, a, b)
	assert.True(t, IsHexToken(a, constants.SessionTokenBytes))
}

func TestIsHexToken(t *testing.T) {
	valid := "0123456789abcdef0123456789abcdef0123456789abcdef0123456789abcdef"

	assert.True(t, IsHexToken(valid, 32))
	assert.False(t, IsHexToken("", 32))
	assert.False(t, IsHexToken(valid[:63], 32))
	assert.False(t, IsHexToken("0123456789ABCDEF0123456789abcdef0123456789abcdef0123456789abcdef", 32))
	assert.False(t, IsHexToken("zz23456789abcdef0123456789abcdef0123456789abcdef0123456789abcdef", 32))
}

func TestGetPaginationParams(t *testing.T) {
	gin.SetMode(gin.TestMode)

	tests := []struct {
		name    string
		query   string
		enabled bool
		want    PaginationParams
	}{
		{name: "no params", query: "", enabled: false},
		{name: "page and limit", query: "page=3&limit=10", enabled: true, want: PaginationParams{Page: 3, Limit: 10, Offset: 20}},
		{name: "only page", query: "page=2", enabled: true, want: PaginationParams{Page: 2, Limit: constants.DefaultPageSize, Offset: constants.DefaultPageSize}},
		{name: "limit too large", query: "limit=1000", enabled: true, want: PaginationParams{Page: 1, Limit: constants.DefaultPageSize, Offset: 0}},
		{name: "garbage", query: "page=abc&limit=-1", enabled: true, want: PaginationParams{Page: 1, Limit: constants.DefaultPageSize, Offset: 0}},
		{name: "max int page", query: "page=9223372036854775807&limit=2", enabled: true, want: PaginationParams{Page: constants.MaxPage, Limit: 2, Offset: (constants.MaxPage - 1) * 2}},
		{name: "page beyond int range", query: "page=99999999999999999999&limit=2", enabled: true, want: PaginationParams{Page: constants.MaxPage, Limit: 2, Offset: (constants.MaxPage - 1) * 2}},
		{name: "negative page beyond int range", query: "page=-99999999999999999999&limit=2", enabled: true, want: PaginationParams{Page: 1, Limit: 2, Offset: 0}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			c, _ := gin.CreateTestContext(httptest.NewRecorder())
			c.Request = httptest.NewRequest("GET", "/api/tasks?"+tt.query, nil)

			params, enabled := GetPaginationParams(c)

			assert.Equal(t, tt.enabled, enabled)
			if tt.enabled {
				assert.Equal(t, tt.want, params)
			}
		})
	}
}
