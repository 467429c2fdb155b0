package helper

import (
	"os"
	"time"

	"cinema_chain/constants"
	"cinema_chain/model"

	"github.com/gofiber/fiber/v2"
	"github.com/golang-jwt/jwt/v5"
	"golang.org/x/crypto/bcrypt"
)

var JwtSecret = []byte(os.Getenv("JWT_SECRET"))

func HashPassword(password string) (string, error) {
	bytes, err := bcrypt.GenerateFromPassword([]byte(password), 10)
	return string(bytes), err
}

func CheckPasswordHash(password, hash string) bool {
	return bcrypt.CompareHashAndPassword([]byte(hash), []byte(password)) == nil
}

func GenerateAccessToken(account *model.Account) (string, error) {
	claims := jwt.MapClaims{
		"accountId": account.ID,
		"username":  account.Username,
		"role":      account.Role,
		"exp":       time.Now().Add(24 * time.Hour).Unix(),
	}
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	return token.SignedString(JwtSecret)
}

// GetInfoAccountFromToken đọc claim từ token đã qua middleware.Protected
func GetInfoAccountFromToken(c *fiber.Ctx) (model.TokenClaim, bool, bool) {
	var info model.TokenClaim

	token, ok := c.Locals("user").(*jwt.Token)
	if !ok || token == nil {
		return info, false, false
	}
	claims, ok := token.Claims.(jwt.MapClaims)
	if !ok {
		return info, false, false
	}

	if v, ok := claims["accountId"].(float64); ok {
		info.AccountId = uint(v)
	}
	if v, ok := claims["username"].(string); ok {
		info.Username = v
	}
	if v, ok := claims["role"].(string); ok {
		info.Role = v
	}

	isAdmin := info.Role == constants.ROLE_ADMIN
	isManager := info.Role == constants.ROLE_MANAGER
	return info, isAdmin, isManager
}
