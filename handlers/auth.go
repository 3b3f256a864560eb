// handlers/auth.go
package handlers

import (
	"log"
	"time"

	"thywilluche/database"
	"thywilluche/middleware"
	"thywilluche/models"
	"thywilluche/utils"

	"github.com/gofiber/fiber/v2"
	"golang.org/x/crypto/bcrypt"
)

type RegisterRequest struct {
	Username    string `json:"username" validate:"required,min=3,max=30"`
	Email       string `json:"email" validate:"omitempty,email"`
	Password    string `json:"password" validate:"required,min=8"`
	DisplayName string `json:"display_name" validate:"max=100"`
}

type LoginRequest struct {
	Username string `json:"username" validate:"required"`
	Password string `json:"password" validate:"required"`
}

// Register creates a new user account and returns a session token
func Register(c *fiber.Ctx) error {
	var req RegisterRequest
	if err := c.BodyParser(&req); err != nil {
		return utils.Fail(c, 400, "Invalid request body")
	}
	if err := utils.ValidateStruct(req); err != nil {
		return utils.Fail(c, 400, err.Error())
	}

	db := database.GetDB()

	var existing int64
	db.Model(&models.User{}).Where("username = ?", req.Username).Count(&existing)
	if existing > 0 {
		return utils.Fail(c, 409, "Username already taken")
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(req.Password), bcrypt.DefaultCost)
	if err != nil {
		log.Printf("Failed to hash password: %v", err)
		return utils.Fail(c, 500, "Failed to create user")
	}

	user := models.User{
		Username:    req.Username,
		Password:    string(hash),
		DisplayName: req.DisplayName,
		LastLogin:   time.Now(),
	}
	if req.Email != "" {
		user.Email = &req.Email
	}

	if err := db.Create(&user).Error; err != nil {
		log.Printf("Failed to create user: %v", err)
		return utils.Fail(c, 500, "Failed to create user")
	}

	token, expiresAt, err := middleware.GenerateToken(user.ID, user.Username, false, 7*24*time.Hour)
	if err != nil {
		return utils.Fail(c, 500, "Failed to generate token")
	}

	return utils.OK(c, fiber.Map{
		"token":      token,
		"expires_at": expiresAt,
		"user":       user,
	})
}

// Login authenticates a user and returns a session token
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
	if err := db.Where("username = ?", req.Username).First(&user).Error; err != nil {
		return utils.Fail(c, 401, "Invalid credentials")
	}

	if user.IsBanned {
		return utils.Fail(c, 403, "Account is banned")
	}

	if err := bcrypt.CompareHashAndPassword([]byte(user.Password), []byte(req.Password)); err != nil {
		return utils.Fail(c, 401, "Invalid credentials")
	}

	user.LastLogin = time.Now()
	db.Save(&user)

	token, expiresAt, err := middleware.GenerateToken(user.ID, user.Username, user.IsAdmin, 7*24*time.Hour)
	if err != nil {
		return utils.Fail(c, 500, "Failed to generate token")
	}

	return utils.OK(c, fiber.Map{
		"token":      token,
		"expires_at": expiresAt,
		"user":       user,
	})
}
