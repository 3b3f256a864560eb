// utils/response.go - JSON response envelope helpers
package utils

import (
	"github.com/gofiber/fiber/v2"
)

// OK sends a success envelope with a data payload
func OK(c *fiber.Ctx, data interface{}) error {
	return c.JSON(fiber.Map{
		"success": true,
		"data":    data,
	})
}

// OKMessage sends a success envelope with just a message
func OKMessage(c *fiber.Ctx, message string) error {
	return c.JSON(fiber.Map{
		"success": true,
		"message": message,
	})
}

// Paginated sends a success envelope with pagination metadata
func Paginated(c *fiber.Ctx, data interface{}, total int64, page, limit int) error {
	return c.JSON(fiber.Map{
		"success": true,
		"data":    data,
		"total":   total,
		"page":    page,
		"limit":   limit,
	})
}

// Fail sends a failure envelope with a human-readable message
func Fail(c *fiber.Ctx, status int, message string) error {
	return c.Status(status).JSON(fiber.Map{
		"success": false,
		"message": message,
	})
}

// Pagination extracts and clamps page/limit query parameters
func Pagination(c *fiber.Ctx) (page, limit, offset int) {
	page = c.QueryInt("page", 1)
	if page < 1 {
		page = 1
	}
	limit = c.QueryInt("limit", 20)
	if limit < 1 {
		limit = 20
	}
	if limit > 100 {
		limit = 100
	}
	return page, limit, (page - 1) * limit
}
