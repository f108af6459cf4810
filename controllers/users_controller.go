package controllers

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/quillhq/quillbackend/apperrors"
	"github.com/quillhq/quillbackend/services"
	"github.com/quillhq/quillbackend/utils"
	"go.mongodb.org/mongo-driver/v2/bson"
)

func GetProfile(users *services.UserService) gin.HandlerFunc {
	return func(c *gin.Context) {
		id, err := bson.ObjectIDFromHex(c.Param("id"))
		if err != nil {
			respondError(c, apperrors.ErrNotFound)
			return
		}

		user, err := users.GetProfile(c.Request.Context(), id)
		if err != nil {
			respondError(c, err)
			return
		}

		respondSuccess(c, http.StatusOK, "User fetched successfully", user)
	}
}

func GetUserPosts(users *services.UserService) gin.HandlerFunc {
	return func(c *gin.Context) {
		id, err := bson.ObjectIDFromHex(c.Param("id"))
		if err != nil {
			respondError(c, apperrors.ErrNotFound)
			return
		}

		posts, err := users.GetUserPosts(c.Request.Context(), id)
		if err != nil {
			respondError(c, err)
			return
		}

		respondSuccess(c, http.StatusOK, "Posts fetched successfully", posts)
	}
}

func GetSavedPosts(users *services.UserService) gin.HandlerFunc {
	return func(c *gin.Context) {
		id, err := bson.ObjectIDFromHex(c.Param("id"))
		if err != nil {
			respondError(c, apperrors.ErrNotFound)
			return
		}

		page, limit := utils.ParsePagination(c.Query("page"), c.Query("limit"))

		posts, hasMore, err := users.GetSavedPosts(c.Request.Context(), id, page, limit)
		if err != nil {
			respondError(c, err)
			return
		}

		respondList(c, "Saved posts fetched successfully", posts, hasMore)
	}
}

func SavePost(users *services.UserService) gin.HandlerFunc {
	return func(c *gin.Context) {
		userID, _, ok := identity(c)
		if !ok {
			respondError(c, apperrors.ErrUnauthorized)
			return
		}

		postID, err := bson.ObjectIDFromHex(c.Param("postId"))
		if err != nil {
			respondError(c, apperrors.ErrNotFound)
			return
		}

		if err := users.SavePost(c.Request.Context(), userID, postID); err != nil {
			respondError(c, err)
			return
		}

		respondSuccess(c, http.StatusOK, "Post saved successfully", nil)
	}
}

func UnsavePost(users *services.UserService) gin.HandlerFunc {
	return func(c *gin.Context) {
		userID, _, ok := identity(c)
		if !ok {
			respondError(c, apperrors.ErrUnauthorized)
			return
		}

		postID, err := bson.ObjectIDFromHex(c.Param("postId"))
		if err != nil {
			respondError(c, apperrors.ErrNotFound)
			return
		}

		if err := users.UnsavePost(c.Request.Context(), userID, postID); err != nil {
			respondError(c, err)
			return
		}

		respondSuccess(c, http.StatusOK, "Post unsaved successfully", nil)
	}
}
