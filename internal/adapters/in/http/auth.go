package http

import (
	"net/http"

	"freight/internal/core/domain/model/kernel"

	"github.com/golang-jwt/jwt/v5"
	echojwt "github.com/labstack/echo-jwt/v4"
	"github.com/labstack/echo/v4"
)

const driverIDKey = "driverID"

// JWTMiddleware verifies HS256 tokens from the Authorization header, or from
// the token query parameter for websocket clients that cannot set headers.
func JWTMiddleware(secret []byte) echo.MiddlewareFunc {
	return echojwt.WithConfig(echojwt.Config{
		SigningKey:  secret,
		TokenLookup: "header:Authorization:Bearer ,query:token",
		NewClaimsFunc: func(echo.Context) jwt.Claims {
			return new(jwt.RegisteredClaims)
		},
		ErrorHandler: func(c echo.Context, _ error) error {
			return unauthorized(c)
		},
	})
}

// driverIdentity turns the token subject into the driver id.
func driverIdentity(next echo.HandlerFunc) echo.HandlerFunc {
	return func(c echo.Context) error {
		token, ok := c.Get("user").(*jwt.Token)
		if !ok {
			return unauthorized(c)
		}
		subject, err := token.Claims.GetSubject()
		if err != nil {
			return unauthorized(c)
		}
		driverID, err := kernel.UUIDFromString(subject)
		if err != nil {
			return unauthorized(c)
		}

		c.Set(driverIDKey, driverID)
		return next(c)
	}
}

func currentDriver(c echo.Context) kernel.UUID {
	id, _ := c.Get(driverIDKey).(kernel.UUID)
	return id
}

func unauthorized(c echo.Context) error {
	return c.JSON(http.StatusUnauthorized, ErrorResponse{
		Code:    http.StatusUnauthorized,
		Message: "Invalid driver identity",
	})
}
