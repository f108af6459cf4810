package controllers

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/quillhq/quillbackend/apperrors"
	"github.com/quillhq/quillbackend/dto"
	"github.com/quillhq/quillbackend/services"
)

func Register(auth *services.AuthService) gin.HandlerFunc {
	return func(c *gin.Context) {
		var body dto.RegisterDTO
		if err := c.ShouldBindJSON(&body); err != nil {
			respondValidation(c, err)
			return
		}

		user, err := auth.Register(c.Request.Context(), body.Email, body.Password, body.Name)
		if err != nil {
			respondError(c, err)
			return
		}

		respondSuccess(c, http.StatusCreated, "User registered successfully", user)
	}
}

func Login(auth *services.AuthService) gin.HandlerFunc {
	return func(c *gin.Context) {
		var body dto.LoginDTO
		if err := c.ShouldBindJSON(&body); err != nil {
			respondValidation(c, err)
			return
		}

		user, pair, err := auth.Login(c.Request.Context(), body.Email, body.Password)
		if err != nil {
			respondError(c, err)
			return
		}

		setAuthCookies(c, pair)
		respondSuccess(c, http.StatusOK, "Login successful", gin.H{
			"accessToken":  pair.AccessToken,
			"refreshToken": pair.RefreshToken,
			"user":         user,
		})
	}
}

// RefreshToken takes the refresh token from the body, falling back to the
// refreshToken cookie. No access token is required here.
func RefreshToken(auth *services.AuthService) gin.HandlerFunc {
	return func(c *gin.Context) {
		var body dto.RefreshDTO
		_ = c.ShouldBindJSON(&body) // body is optional

		token := body.RefreshToken
		if token == "" {
			token, _ = c.Cookie("refreshToken")
		}
		if token == "" {
			respondError(c, apperrors.ErrUnauthorized)
			return
		}

		pair, err := auth.Refresh(c.Request.Context(), token)
		if err != nil {
			respondError(c, err)
			return
		}

		setAuthCookies(c, pair)
		respondSuccess(c, http.StatusOK, "Token refreshed", gin.H{
			"accessToken":  pair.AccessToken,
			"refreshToken": pair.RefreshToken,
		})
	}
}

func Logout(auth *services.AuthService) gin.HandlerFunc {
	return func(c *gin.Context) {
		userID, _, ok := identity(c)
		if !ok {
			respondError(c, apperrors.ErrUnauthorized)
			return
		}

		var body dto.LogoutDTO
		_ = c.ShouldBindJSON(&body) // body is optional

		token := body.RefreshToken
		if token == "" {
			token, _ = c.Cookie("refreshToken")
		}

		if err := auth.Logout(c.Request.Context(), userID, token); err != nil {
			respondError(c, err)
			return
		}

		clearAuthCookies(c)
		respondSuccess(c, http.StatusOK, "Logged out", nil)
	}
}

func Me(auth *services.AuthService) gin.HandlerFunc {
	return func(c *gin.Context) {
		userID, _, ok := identity(c)
		if !ok {
			respondError(c, apperrors.ErrUnauthorized)
			return
		}

		user, err := auth.CurrentUser(c.Request.Context(), userID)
		if err != nil {
			respondError(c, err)
			return
		}

		respondSuccess(c, http.StatusOK, "User fetched successfully", user)
	}
}

func ChangePassword(auth *services.AuthService) gin.HandlerFunc {
	return func(c *gin.Context) {
		userID, _, ok := identity(c)
		if !ok {
			respondError(c, apperrors.ErrUnauthorized)
			return
		}

		var body dto.ChangePasswordDTO
		if err := c.ShouldBindJSON(&body); err != nil {
			respondValidation(c, err)
			return
		}

		if err := auth.ChangePassword(c.Request.Context(), userID, body.CurrentPassword, body.NewPassword); err != nil {
			respondError(c, err)
			return
		}

		respondSuccess(c, http.StatusOK, "Password changed", nil)
	}
}
