package utils

import (
	"fmt"
	"net/http/httptest"
	"testing"

	"github.com/gofiber/fiber/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func paginationFor(t *testing.T, query string) (page, limit, offset int) {
	t.Helper()

	app := fiber.New()
	app.Get("/", func(c *fiber.Ctx) error {
		page, limit, offset = Pagination(c)
		return c.SendStatus(200)
	})

	resp, err := app.Test(httptest.NewRequest("GET", "/?"+query, nil))
	require.NoError(t, err)
	require.Equal(t, 200, resp.StatusCode)
	return page, limit, offset
}

func TestPagination(t *testing.T) {
	tests := []struct {
		query      string
		wantPage   int
		wantLimit  int
		wantOffset int
	}{
		{"", 1, 20, 0},
		{"page=3&limit=10", 3, 10, 20},
		{"page=0", 1, 20, 0},
		{"page=-5&limit=-1", 1, 20, 0},
		{"limit=500", 1, 100, 0},
		{"page=2&limit=100", 2, 100, 100},
		{"page=abc&limit=xyz", 1, 20, 0},
	}

	for _, tt := range tests {
		t.Run(fmt.Sprintf("query=%q", tt.query), func(t *testing.T) {
			page, limit, offset := paginationFor(t, tt.query)
			assert.Equal(t, tt.wantPage, page)
			assert.Equal(t, tt.wantLimit, limit)
			assert.Equal(t, tt.wantOffset, offset)
		})
	}
}
