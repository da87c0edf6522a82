package auth

import (
	"crypto/subtle"
	"strings"
	"time"

	"github.com/ayathanschool/fee-app/app/config"
	"github.com/ayathanschool/fee-app/app/models"
	"github.com/golang-jwt/jwt/v5"
	"golang.org/x/crypto/bcrypt"
)

func HashAccessCode(code string) (string, error) {
	bytes, err := bcrypt.GenerateFromPassword([]byte(code), 14)
	return string(bytes), err
}

// checkAccessCode compares the entered code against the configured one.
// Configured codes may be stored as bcrypt hashes; plain codes are
// compared in constant time.
func checkAccessCode(entered, configured string) bool {
	if configured == "" {
		return false
	}
	if strings.HasPrefix(configured, "$2") {
		return bcrypt.CompareHashAndPassword([]byte(configured), []byte(entered)) == nil
	}
	return subtle.ConstantTimeCompare([]byte(entered), []byte(configured)) == 1
}

// ResolveAccessCode maps an entered code to a session. Teacher codes
// carry the class after the prefix, e.g. "teacher-7A".
func ResolveAccessCode(code string, cfg *config.Config) (models.Session, bool) {
	code = strings.TrimSpace(code)
	if checkAccessCode(code, cfg.AdminCode) {
		return models.Session{Name: "Principal", Role: models.RoleAdmin}, true
	}
	if checkAccessCode(code, cfg.AccountCode) {
		return models.Session{Name: "Accounts", Role: models.RoleAccount}, true
	}
	prefix := cfg.TeacherCode + "-"
	if strings.HasPrefix(strings.ToLower(code), prefix) {
		class := strings.TrimSpace(code[len(prefix):])
		if class != "" {
			return models.Session{Name: "Class Teacher " + class, Role: models.RoleTeacher, Class: class}, true
		}
	}
	return models.Session{}, false
}

type JWTClaims struct {
	Name  string `json:"name"`
	Role  string `json:"role"`
	Class string `json:"class,omitempty"`
	jwt.RegisteredClaims
}

func getJWTSecret() []byte {
	return []byte(config.AppConfig.JWTSecret)
}

func GenerateJWT(s models.Session) (string, error) {
	claims := JWTClaims{
		Name:  s.Name,
		Role:  s.Role,
		Class: s.Class,
		RegisteredClaims: jwt.RegisteredClaims{
			ExpiresAt: jwt.NewNumericDate(time.Now().Add(24 * time.Hour)),
			IssuedAt:  jwt.NewNumericDate(time.Now()),
			Issuer:    "fee-app",
		},
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	return token.SignedString(getJWTSecret())
}

func ValidateJWT(tokenString string) (*JWTClaims, error) {
	token, err := jwt.ParseWithClaims(tokenString, &JWTClaims{}, func(token *jwt.Token) (interface{}, error) {
		return getJWTSecret(), nil
	})
	if err != nil {
		return nil, err
	}
	if claims, ok := token.Claims.(*JWTClaims); ok && token.Valid {
		return claims, nil
	}
	return nil, jwt.ErrInvalidKey
}
