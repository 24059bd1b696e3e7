package middleware

import (
	"errors"
	"os"
	"strings"

	"go-payroll/internal/shared/apperror"
	"go-payroll/internal/shared/response"

	"github.com/gin-gonic/gin"
	"github.com/golang-jwt/jwt/v5"
)

// Claims diterbitkan oleh identity service upstream.
type Claims struct {
	UserID     string `json:"user_id"`
	CompanyID  string `json:"company_id"`
	EmployeeID string `json:"employee_id"`
	Role       string `json:"role"`
	jwt.RegisteredClaims
}

func (c Claims) missingField() string {
	switch {
	case c.UserID == "":
		return "user_id"
	case c.CompanyID == "":
		return "company_id"
	case c.EmployeeID == "":
		return "employee_id"
	}
	return ""
}

// AuthMiddleware reads the HMAC secret from JWT_SECRET on every request.
func AuthMiddleware() gin.HandlerFunc {
	return authenticate(func() []byte { return []byte(os.Getenv("JWT_SECRET")) })
}

func AuthMiddlewareWithSecret(secret string) gin.HandlerFunc {
	return authenticate(func() []byte { return []byte(secret) })
}

func authenticate(secret func() []byte) gin.HandlerFunc {
	parser := jwt.NewParser(jwt.WithValidMethods([]string{"HS256", "HS384", "HS512"}))

	return func(c *gin.Context) {
		tokenString, found := strings.CutPrefix(c.GetHeader("Authorization"), "Bearer ")
		if !found || tokenString == "" {
			tokenString = ""
			if cookie, err := c.Cookie("access_token"); err == nil {
				tokenString = cookie
			}
		}

		if tokenString == "" {
			abortWith(c, ErrTokenNotFound)
			return
		}

		var claims Claims
		token, err := parser.ParseWithClaims(tokenString, &claims, func(*jwt.Token) (interface{}, error) {
			return secret(), nil
		})
		if err != nil || !token.Valid {
			if errors.Is(err, jwt.ErrTokenExpired) {
				abortWith(c, ErrTokenExpired)
				return
			}
			abortWith(c, ErrInvalidToken)
			return
		}

		if field := claims.missingField(); field != "" {
			response.Error(c, ErrInvalidToken.HTTPStatus, ErrInvalidToken.Code, field+" not found in token", nil)
			c.Abort()
			return
		}

		c.Set("user_id", claims.UserID)
		c.Set("user_id_validated", claims.UserID)
		c.Set("employee_id", claims.EmployeeID)
		c.Set("company_id", claims.CompanyID)
		c.Set("role", claims.Role)

		c.Next()
	}
}

func abortWith(c *gin.Context, err *apperror.AppError) {
	response.Error(c, err.HTTPStatus, err.Code, err.Message, nil)
	c.Abort()
}
