package handler

import (
	"errors"
	"fmt"
	"net/http"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/labstack/echo/v4"

	"porch/store"
)

func (h *Handler) GetLoginForm(c echo.Context) error {
	return c.Render(http.StatusOK, "login.html", h.pageData(c, "Log in"))
}

func (h *Handler) Login(c echo.Context) error {
	formUsername := c.FormValue("username")
	formPassword := c.FormValue("password")

	if len(formUsername) == 0 || len(formPassword) == 0 {
		return c.HTML(http.StatusBadRequest, "Bad request")
	}

	user, err := h.Store.Authenticate(formUsername, formPassword)
	if err != nil {
		if errors.Is(err, store.ErrInvalidCredentials) {
			return c.HTML(http.StatusBadRequest, "Wrong username or password")
		}
		return c.HTML(http.StatusInternalServerError, "Internal server error")
	}

	cookie, err := authorizationCookie(user.ID, h.JWTSecret)
	if err != nil {
		return err
	}
	c.SetCookie(cookie)
	return c.Redirect(http.StatusFound, "/")
}

func (h *Handler) Logout(c echo.Context) error {
	cookie := new(http.Cookie)
	cookie.Name = "Authorization"
	cookie.Value = ""
	cookie.Path = "/"

	cookie.Expires = time.Now().Add(-1 * time.Second)
	c.SetCookie(cookie)
	return c.Redirect(http.StatusFound, "/")
}

func authorizationCookie(ID string, secret string) (*http.Cookie, error) {
	if secret == "" {
		return nil, errors.New("missing secret")
	}
	token := jwt.New(jwt.SigningMethodHS256)
	claims := token.Claims.(jwt.MapClaims)
	claims["userID"] = ID
	exp := time.Now().Add(time.Hour * 24 * 7)
	claims["expiration"] = exp.Unix()
	signedData, err := token.SignedString([]byte(secret))
	if err != nil {
		return nil, err
	}

	cookie := new(http.Cookie)
	cookie.Name = "Authorization"
	cookie.Value = signedData
	cookie.Expires = exp
	cookie.Path = "/"
	cookie.HttpOnly = true

	return cookie, nil
}

// getUserID extracts the author's user ID from the Authorization
// cookie, or returns "" for anonymous visitors and expired tokens.
func getUserID(c echo.Context, JWTSecret string) string {
	if JWTSecret == "" {
		return ""
	}

	cookie, err := c.Cookie("Authorization")
	if err == nil {
		token, err := jwt.Parse(cookie.Value, func(token *jwt.Token) (interface{}, error) {
			// SigningMethodHMAC implements the HMAC-SHA family of signing methods.
			if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
				return nil, fmt.Errorf("unexpected signing method: %v", token.Header["alg"])
			}

			return []byte(JWTSecret), nil
		})
		if err != nil {
			return ""
		}
		if claims, ok := token.Claims.(jwt.MapClaims); ok && token.Valid {
			expiration, ok := claims["expiration"].(float64)
			// check if the token has expired
			if !ok || time.Now().Compare(time.Unix(int64(expiration), 0)) > 0 {
				return ""
			}

			userID, ok := claims["userID"].(string)
			if ok {
				return userID
			}
		}
	}
	return ""
}

func (h *Handler) isLoggedIn(c echo.Context) bool {
	return getUserID(c, h.JWTSecret) != ""
}
