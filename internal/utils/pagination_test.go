package utils

import (
	"net/http/httptest"
	"testing"

	"github.com/gofiber/fiber/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func parseFor(t *testing.T, target string) Pagination {
	t.Helper()

	app := fiber.New()
	var got Pagination
	app.Get("/", func(c *fiber.Ctx) error {
		got = ParsePagination(c)
		return c.SendStatus(fiber.StatusOK)
	})

	resp, err := app.Test(httptest.NewRequest("GET", target, nil))
	require.NoError(t, err)
	require.Equal(t, fiber.StatusOK, resp.StatusCode)

	return got
}

func TestParsePaginationDefaults(t *testing.T) {
	pg := parseFor(t, "/")
	assert.Equal(t, Pagination{Page: 1, Limit: 20, Offset: 0}, pg)
}

func TestParsePaginationOffsets(t *testing.T) {
	pg := parseFor(t, "/?page=3&limit=50")
	assert.Equal(t, Pagination{Page: 3, Limit: 50, Offset: 100}, pg)
}

func TestParsePaginationCapsLimit(t *testing.T) {
	pg := parseFor(t, "/?limit=500")
	assert.Equal(t, maxPageSize, pg.Limit)
}

func TestParsePaginationRejectsBadInput(t *testing.T) {
	pg := parseFor(t, "/?page=-2&limit=abc")
	assert.Equal(t, Pagination{Page: 1, Limit: 20, Offset: 0}, pg)
}
