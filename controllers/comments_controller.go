package controllers

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/quillhq/quillbackend/apperrors"
	"github.com/quillhq/quillbackend/dto"
	"github.com/quillhq/quillbackend/services"
	"github.com/quillhq/quillbackend/utils"
	"go.mongodb.org/mongo-driver/v2/bson"
)

func CreateComment(comments *services.CommentService) gin.HandlerFunc {
	return func(c *gin.Context) {
		userID, _, ok := identity(c)
		if !ok {
			respondError(c, apperrors.ErrUnauthorized)
			return
		}

		postID, err := bson.ObjectIDFromHex(c.Param("id"))
		if err != nil {
			respondError(c, apperrors.ErrNotFound)
			return
		}

		var body dto.CreateCommentDTO
		if err := c.ShouldBindJSON(&body); err != nil {
			respondValidation(c, err)
			return
		}

		comment, err := comments.Create(c.Request.Context(), postID, userID, body.Content)
		if err != nil {
			respondError(c, err)
			return
		}

		respondSuccess(c, http.StatusCreated, "Comment added successfully", comment)
	}
}

func GetComments(comments *services.CommentService) gin.HandlerFunc {
	return func(c *gin.Context) {
		postID, err := bson.ObjectIDFromHex(c.Param("id"))
		if err != nil {
			respondError(c, apperrors.ErrNotFound)
			return
		}

		page, limit := utils.ParsePagination(c.Query("page"), c.Query("limit"))

		items, hasMore, err := comments.GetPage(c.Request.Context(), postID, page, limit)
		if err != nil {
			respondError(c, err)
			return
		}

		respondList(c, "Comments fetched successfully", items, hasMore)
	}
}

func ToggleLike(likes *services.LikeService) gin.HandlerFunc {
	return func(c *gin.Context) {
		userID, _, ok := identity(c)
		if !ok {
			respondError(c, apperrors.ErrUnauthorized)
			return
		}

		postID, err := bson.ObjectIDFromHex(c.Param("id"))
		if err != nil {
			respondError(c, apperrors.ErrNotFound)
			return
		}

		like, err := likes.Toggle(c.Request.Context(), postID, userID)
		if err != nil {
			respondError(c, err)
			return
		}

		if like == nil {
			respondSuccess(c, http.StatusOK, "Like removed successfully", nil)
			return
		}
		respondSuccess(c, http.StatusCreated, "Post liked successfully", like)
	}
}

func GetLikes(likes *services.LikeService) gin.HandlerFunc {
	return func(c *gin.Context) {
		postID, err := bson.ObjectIDFromHex(c.Param("id"))
		if err != nil {
			respondError(c, apperrors.ErrNotFound)
			return
		}

		items, err := likes.GetByPost(c.Request.Context(), postID)
		if err != nil {
			respondError(c, err)
			return
		}

		respondSuccess(c, http.StatusOK, "Likes fetched successfully", items)
	}
}
