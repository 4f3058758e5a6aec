package pagination

import (
	"encoding/json"
	"net/http/httptest"
	"testing"

	"github.com/gofiber/fiber/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewParams(t *testing.T) {
	p := NewParams(0, 0)
	assert.Equal(t, 1, p.Page)
	assert.Equal(t, DefaultLimit, p.Limit)
	assert.Equal(t, 0, p.Offset)

	p = NewParams(3, 500)
	assert.Equal(t, MaxLimit, p.Limit)
	assert.Equal(t, 200, p.Offset)
}

func TestGetMeta(t *testing.T) {
	m := GetMeta(NewParams(2, 10), 25)
	assert.Equal(t, 3, m.TotalPages)
	assert.True(t, m.HasNext)
	assert.True(t, m.HasPrev)

	m = GetMeta(NewParams(1, 10), 0)
	assert.Equal(t, 0, m.TotalPages)
	assert.False(t, m.HasNext)
	assert.False(t, m.HasPrev)
}

func TestGetParams(t *testing.T) {
	app := fiber.New()
	app.Get("/", func(c *fiber.Ctx) error {
		return c.JSON(GetParams(c))
	})

	tests := []struct {
		query string
		page  int
		limit int
	}{
		{"", 1, DefaultLimit},
		{"?page=4&limit=5", 4, 5},
		{"?page=abc&limit=-3", 1, DefaultLimit},
		{"?limit=1000", 1, MaxLimit},
	}

	for _, tt := range tests {
		resp, err := app.Test(httptest.NewRequest("GET", "/"+tt.query, nil))
		require.NoError(t, err)

		var p Params
		require.NoError(t, json.NewDecoder(resp.Body).Decode(&p))
		assert.Equal(t, tt.page, p.Page, tt.query)
		assert.Equal(t, tt.limit, p.Limit, tt.query)
	}
}

func TestNewResponse_EmptyPage(t *testing.T) {
	var none []string
	raw, err := json.Marshal(NewResponse(none, NewParams(1, 10), 0))
	require.NoError(t, err)
	assert.JSONEq(t, `{"data":[],"meta":{"page":1,"limit":10,"total":0,"total_pages":0,"has_next":false,"has_prev":false}}`, string(raw))
}
