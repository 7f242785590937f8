package authentication

import (
	"fmt"
	"strings"
	"time"

	"github.com/NathyVZM/hashtage-backend/src/core/config"
	"github.com/NathyVZM/hashtage-backend/src/core/database"
	"github.com/NathyVZM/hashtage-backend/src/core/helpers"
	"github.com/NathyVZM/hashtage-backend/src/core/models"

	"github.com/gofiber/fiber/v2"
	"github.com/golang-jwt/jwt/v5"
	"golang.org/x/crypto/bcrypt"
)

const (
	accessTokenTTL  = time.Hour
	refreshTokenTTL = 30 * 24 * time.Hour
)

// issueToken generates a signed HS256 token for the user. Refresh
// tokens carry type=refresh so the access middleware rejects them.
func issueToken(userID string, ttl time.Duration, refresh bool) (string, error) {
	token := jwt.New(jwt.SigningMethodHS256)
	claims := token.Claims.(jwt.MapClaims)

	claims["sub"] = userID
	claims["iat"] = time.Now().Unix()
	claims["exp"] = time.Now().Add(ttl).Unix()
	if refresh {
		claims["type"] = "refresh"
	}

	secretKey := config.Config("JWT_SECRET")
	return token.SignedString([]byte(secretKey))
}

type registerInput struct {
	FullName string `json:"full_name" validate:"required,max=50"`
	Username string `json:"username" validate:"required,max=30"`
	Password string `json:"password" validate:"required,min=6"`
}

// Register handles POST /register.
func Register(c *fiber.Ctx) error {
	db := database.DB

	input := new(registerInput)
	if err := c.BodyParser(input); err != nil {
		return helpers.HandleError(c, fiber.StatusBadRequest, "Invalid input data", err)
	}
	if err := helpers.Validate(input); err != nil {
		return helpers.HandleAppError(c, "Invalid input data", fmt.Errorf("%v: %w", err, helpers.ErrValidation))
	}

	hashedPwd, err := bcrypt.GenerateFromPassword([]byte(input.Password), bcrypt.DefaultCost)
	if err != nil {
		return helpers.HandleError(c, fiber.StatusInternalServerError, "Failed to hash password", err)
	}

	user := models.User{
		FullName: input.FullName,
		Username: input.Username,
		Password: string(hashedPwd),
	}
	if result := db.Create(&user); result.Error != nil {
		if helpers.IsUniqueViolation(result.Error) {
			return helpers.HandleAppError(c, "Username already exists", fmt.Errorf("username %q: %w", input.Username, helpers.ErrDuplicate))
		}
		return helpers.HandleError(c, fiber.StatusInternalServerError, "Failed to create user account", result.Error)
	}

	return helpers.HandleSuccess(c, fiber.StatusCreated, "Account created successfully", fiber.Map{
		"id":        user.ID,
		"full_name": user.FullName,
		"username":  user.Username,
	})
}

type loginInput struct {
	Username string `json:"username" validate:"required"`
	Password string `json:"password" validate:"required"`
}

// Login handles POST /login, issuing an access and a refresh token.
func Login(c *fiber.Ctx) error {
	db := database.DB

	input := new(loginInput)
	if err := c.BodyParser(input); err != nil {
		return helpers.HandleError(c, fiber.StatusBadRequest, "Invalid input data", err)
	}
	if err := helpers.Validate(input); err != nil {
		return helpers.HandleAppError(c, "Invalid input data", fmt.Errorf("%v: %w", err, helpers.ErrValidation))
	}

	user := new(models.User)
	if result := db.Where("username = ?", input.Username).First(user); result.Error != nil {
		return helpers.HandleError(c, fiber.StatusUnauthorized, "Wrong credentials", nil)
	}
	if err := bcrypt.CompareHashAndPassword([]byte(user.Password), []byte(input.Password)); err != nil {
		return helpers.HandleError(c, fiber.StatusUnauthorized, "Wrong credentials", nil)
	}

	accessToken, err := issueToken(user.ID.String(), accessTokenTTL, false)
	if err != nil {
		return helpers.HandleError(c, fiber.StatusInternalServerError, "Failed to generate token", err)
	}
	refreshToken, err := issueToken(user.ID.String(), refreshTokenTTL, true)
	if err != nil {
		return helpers.HandleError(c, fiber.StatusInternalServerError, "Failed to generate token", err)
	}

	return helpers.HandleSuccess(c, fiber.StatusOK, "Sign-in successful", fiber.Map{
		"login":        true,
		"full_name":    user.FullName,
		"username":     user.Username,
		"accessToken":  accessToken,
		"refreshToken": refreshToken,
	})
}

// RefreshToken handles POST /refresh-token: a valid refresh token
// yields a fresh access token.
func RefreshToken(c *fiber.Ctx) error {
	raw := strings.TrimPrefix(c.Get(fiber.HeaderAuthorization), "Bearer ")
	if raw == "" {
		return helpers.HandleError(c, fiber.StatusBadRequest, "Missing refresh token", nil)
	}

	token, err := jwt.Parse(raw, func(t *jwt.Token) (interface{}, error) {
		if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("unexpected signing method %v", t.Header["alg"])
		}
		return []byte(config.Config("JWT_SECRET")), nil
	})
	if err != nil || !token.Valid {
		return helpers.HandleError(c, fiber.StatusUnauthorized, "Invalid or expired refresh token", err)
	}

	claims, ok := token.Claims.(jwt.MapClaims)
	if !ok {
		return helpers.HandleError(c, fiber.StatusUnauthorized, "Invalid refresh token claims", nil)
	}
	if tokenType, _ := claims["type"].(string); tokenType != "refresh" {
		return helpers.HandleError(c, fiber.StatusUnauthorized, "Token is not a refresh token", nil)
	}
	userID, ok := claims["sub"].(string)
	if !ok || userID == "" {
		return helpers.HandleError(c, fiber.StatusUnauthorized, "User ID missing in token", nil)
	}

	accessToken, err := issueToken(userID, accessTokenTTL, false)
	if err != nil {
		return helpers.HandleError(c, fiber.StatusInternalServerError, "Failed to generate token", err)
	}
	return helpers.HandleSuccess(c, fiber.StatusOK, "Token refreshed", fiber.Map{"accessToken": accessToken})
}

// Logout handles POST /logout. Tokens are stateless, so this is just
// an acknowledgment for the client to drop its copies.
func Logout(c *fiber.Ctx) error {
	return helpers.HandleSuccess(c, fiber.StatusOK, "Logged out", fiber.Map{"logout": true})
}
