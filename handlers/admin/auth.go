package admin

import (
	"time"

	"thywilluche/database"
	"thywilluche/middleware"
	"thywilluche/models"
	"thywilluche/utils"

	"github.com/gofiber/fiber/v2"
	"golang.org/x/crypto/bcrypt"
)

type LoginRequest struct {
	Username string `json:"username" validate:"required"`
	Password string `json:"password" validate:"required"`
}

type LoginResponse struct {
	Token     string `json:"token"`
	Username  string `json:"username"`
	ExpiresAt int64  `json:"expires_at"`
}

// Login authenticates an admin user
func Login(c *fiber.Ctx) error {
	var req LoginRequest
	if err := c.BodyParser(&req); err != nil {
		return utils.Fail(c, 400, "Invalid request body")
	}
	if err := utils.ValidateStruct(req); err != nil {
		return utils.Fail(c, 400, err.Error())
	}

	db := database.GetDB()
	var user models.User
	if err := db.Where("username = ? AND is_admin = ?", req.Username, true).First(&user).Error; err != nil {
		return utils.Fail(c, 401, "Invalid credentials")
	}

	if err := bcrypt.CompareHashAndPassword([]byte(user.Password), []byte(req.Password)); err != nil {
		return utils.Fail(c, 401, "Invalid credentials")
	}

	user.LastLogin = time.Now()
	db.Save(&user)

	token, expiresAt, err := middleware.GenerateToken(user.ID, user.Username, true, 24*time.Hour)
	if err != nil {
		return utils.Fail(c, 500, "Failed to generate token")
	}

	return utils.OK(c, LoginResponse{
		Token:     token,
		Username:  user.Username,
		ExpiresAt: expiresAt,
	})
}

// VerifyToken confirms the middleware accepted the caller's token
func VerifyToken(c *fiber.Ctx) error {
	return utils.OK(c, fiber.Map{
		"valid":    true,
		"user_id":  c.Locals("userId"),
		"username": c.Locals("username"),
		"is_admin": c.Locals("isAdmin"),
	})
}

// Logout handles admin logout (client-side token removal)
func Logout(c *fiber.Ctx) error {
	return utils.OKMessage(c, "Logged out successfully")
}
