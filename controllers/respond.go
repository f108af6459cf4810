package controllers

import (
	"net/http"
	"os"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/quillhq/quillbackend/apperrors"
	"github.com/quillhq/quillbackend/models"
	"github.com/quillhq/quillbackend/services"
	"github.com/quillhq/quillbackend/utils"
	"go.mongodb.org/mongo-driver/v2/bson"
)

// Every body is the same envelope the frontend has always consumed:
// {success, message, data?, error?, hasMore?}.

func respondSuccess(c *gin.Context, status int, message string, data interface{}) {
	c.JSON(status, gin.H{"success": true, "message": message, "data": data})
}

func respondList(c *gin.Context, message string, data interface{}, hasMore bool) {
	c.JSON(http.StatusOK, gin.H{"success": true, "message": message, "data": data, "hasMore": hasMore})
}

func respondError(c *gin.Context, err error) {
	c.JSON(apperrors.StatusOf(err), gin.H{"success": false, "message": err.Error()})
}

func respondValidation(c *gin.Context, err error) {
	c.JSON(http.StatusBadRequest, gin.H{
		"success": false,
		"message": apperrors.ErrValidationFailed.Error(),
		"error":   err.Error(),
	})
}

// identity reads what the auth middleware attached.
func identity(c *gin.Context) (bson.ObjectID, models.Role, bool) {
	idVal, ok := c.Get("userID")
	if !ok {
		return bson.ObjectID{}, "", false
	}
	userID, err := bson.ObjectIDFromHex(idVal.(string))
	if err != nil {
		return bson.ObjectID{}, "", false
	}
	role := models.RoleUser
	if roleVal, ok := c.Get("role"); ok {
		if r, ok := roleVal.(string); ok && r != "" {
			role = models.Role(r)
		}
	}
	return userID, role, true
}

func cookieSecure() bool {
	return os.Getenv("COOKIE_SECURE") == "true"
}

// setAuthCookies mirrors the tokens into cookies so a reloaded client can
// restore its session: accessToken for the access TTL, refreshToken for the
// refresh TTL, both on path /.
func setAuthCookies(c *gin.Context, pair *services.TokenPair) {
	http.SetCookie(c.Writer, &http.Cookie{
		Name:     "accessToken",
		Value:    pair.AccessToken,
		Path:     "/",
		MaxAge:   int(utils.AccessTTL().Seconds()),
		Secure:   cookieSecure(),
		SameSite: http.SameSiteStrictMode,
	})
	http.SetCookie(c.Writer, &http.Cookie{
		Name:     "refreshToken",
		Value:    pair.RefreshToken,
		Path:     "/",
		MaxAge:   int(utils.RefreshTTL().Seconds()),
		HttpOnly: true,
		Secure:   cookieSecure(),
		SameSite: http.SameSiteStrictMode,
	})
}

func clearAuthCookies(c *gin.Context) {
	for _, name := range []string{"accessToken", "refreshToken"} {
		http.SetCookie(c.Writer, &http.Cookie{
			Name:     name,
			Value:    "",
			Path:     "/",
			MaxAge:   -1,
			Expires:  time.Unix(0, 0),
			Secure:   cookieSecure(),
			SameSite: http.SameSiteStrictMode,
		})
	}
}
