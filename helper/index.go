package helper

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"hotel_manager/constants"
	"hotel_manager/database"
	"hotel_manager/model"
	"hotel_manager/service"

	"github.com/gofiber/fiber/v2"
	"github.com/golang-jwt/jwt/v5"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"
)

const (
	AccessTokenTTL  = 60 * time.Minute
	RefreshTokenTTL = 7 * 24 * time.Hour
)

var ErrJWTSecretMissing = errors.New("JWT_SECRET is not set")

var jwtKey []byte

// SetJWTSecret installs the HMAC key used to sign and verify tokens. Until a
// non-empty key is set every sign and parse fails.
func SetJWTSecret(secret string) error {
	if strings.TrimSpace(secret) == "" {
		jwtKey = nil
		return ErrJWTSecretMissing
	}
	jwtKey = []byte(secret)
	return nil
}

func HashPassword(password string) (string, error) {
	bytes, err := bcrypt.GenerateFromPassword([]byte(password), 10)
	return string(bytes), err
}

func CheckPasswordHash(password, hash string) bool {
	return bcrypt.CompareHashAndPassword([]byte(hash), []byte(password)) == nil
}

func GetUserByEmail(e string) (*model.User, error) {
	var user model.User
	if err := database.DB.Where(&model.User{Email: e}).First(&user).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return &user, nil
}

func GenerateAccessToken(tokenClaim model.TokenClaim) (string, error) {
	return signToken(tokenClaim, "access", AccessTokenTTL)
}

func GenerateRefreshToken(tokenClaim model.TokenClaim) (string, error) {
	return signToken(tokenClaim, "refresh", RefreshTokenTTL)
}

func signToken(tokenClaim model.TokenClaim, use string, ttl time.Duration) (string, error) {
	token := jwt.New(jwt.SigningMethodHS256)

	claims := token.Claims.(jwt.MapClaims)
	claims["userId"] = tokenClaim.UserId
	claims["email"] = tokenClaim.Email
	claims["role"] = tokenClaim.Role
	claims["use"] = use
	claims["exp"] = time.Now().Add(ttl).Unix()

	if len(jwtKey) == 0 {
		return "", ErrJWTSecretMissing
	}
	return token.SignedString(jwtKey)
}

func ParseToken(tokenString string) (*jwt.Token, error) {
	return jwt.Parse(tokenString, func(token *jwt.Token) (interface{}, error) {
		if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("unexpected signing method: %v", token.Header["alg"])
		}
		if len(jwtKey) == 0 {
			return nil, ErrJWTSecretMissing
		}
		return jwtKey, nil
	})
}

// ClaimsFromToken reads the token claim fields written by signToken.
func ClaimsFromToken(token *jwt.Token) (model.TokenClaim, string, bool) {
	claims, ok := token.Claims.(jwt.MapClaims)
	if !ok {
		return model.TokenClaim{}, "", false
	}
	userId, ok := claims["userId"].(float64)
	if !ok || userId <= 0 {
		return model.TokenClaim{}, "", false
	}
	email, _ := claims["email"].(string)
	role, _ := claims["role"].(string)
	use, _ := claims["use"].(string)
	return model.TokenClaim{UserId: uint(userId), Email: email, Role: role}, use, true
}

// GetIdentity returns the caller set by middleware.Protected.
func GetIdentity(c *fiber.Ctx) (service.Identity, bool) {
	token, ok := c.Locals("user").(*jwt.Token)
	if !ok || token == nil {
		return service.Identity{}, false
	}
	claim, _, ok := ClaimsFromToken(token)
	if !ok {
		return service.Identity{}, false
	}
	return service.Identity{UserID: claim.UserId, IsAdmin: claim.Role == constants.ROLE_ADMIN}, true
}
