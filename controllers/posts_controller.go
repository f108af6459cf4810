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

func CreatePost(posts *services.PostService) gin.HandlerFunc {
	return func(c *gin.Context) {
		userID, _, ok := identity(c)
		if !ok {
			respondError(c, apperrors.ErrUnauthorized)
			return
		}

		var body dto.CreatePostDTO
		if err := c.ShouldBindJSON(&body); err != nil {
			respondValidation(c, err)
			return
		}

		post, err := posts.Create(c.Request.Context(), body.Title, body.Content, userID)
		if err != nil {
			respondError(c, err)
			return
		}

		respondSuccess(c, http.StatusCreated, "Post created successfully", post)
	}
}

func GetPosts(posts *services.PostService) gin.HandlerFunc {
	return func(c *gin.Context) {
		page, limit := utils.ParsePagination(c.Query("page"), c.Query("limit"))

		items, hasMore, err := posts.GetPage(c.Request.Context(), page, limit)
		if err != nil {
			respondError(c, err)
			return
		}

		respondList(c, "Posts fetched successfully", items, hasMore)
	}
}

func GetPost(posts *services.PostService) gin.HandlerFunc {
	return func(c *gin.Context) {
		if slug := c.Param("slug"); slug != "" {
			post, err := posts.GetBySlug(c.Request.Context(), slug)
			if err != nil {
				respondError(c, err)
				return
			}
			respondSuccess(c, http.StatusOK, "Post fetched successfully", post)
			return
		}

		id, err := bson.ObjectIDFromHex(c.Param("id"))
		if err != nil {
			respondError(c, apperrors.ErrNotFound)
			return
		}

		post, err := posts.Get(c.Request.Context(), id)
		if err != nil {
			respondError(c, err)
			return
		}
		respondSuccess(c, http.StatusOK, "Post fetched successfully", post)
	}
}

func UpdatePost(posts *services.PostService) gin.HandlerFunc {
	return func(c *gin.Context) {
		userID, _, ok := identity(c)
		if !ok {
			respondError(c, apperrors.ErrUnauthorized)
			return
		}

		id, err := bson.ObjectIDFromHex(c.Param("id"))
		if err != nil {
			respondError(c, apperrors.ErrNotFound)
			return
		}

		var body dto.UpdatePostDTO
		if err := c.ShouldBindJSON(&body); err != nil {
			respondValidation(c, err)
			return
		}

		post, err := posts.Update(c.Request.Context(), id, body.Title, body.Content, userID)
		if err != nil {
			respondError(c, err)
			return
		}

		respondSuccess(c, http.StatusOK, "Post updated successfully", post)
	}
}

func DeletePost(posts *services.PostService) gin.HandlerFunc {
	return func(c *gin.Context) {
		userID, role, ok := identity(c)
		if !ok {
			respondError(c, apperrors.ErrUnauthorized)
			return
		}

		id, err := bson.ObjectIDFromHex(c.Param("id"))
		if err != nil {
			respondError(c, apperrors.ErrNotFound)
			return
		}

		if err := posts.Delete(c.Request.Context(), id, userID, role); err != nil {
			respondError(c, err)
			return
		}

		respondSuccess(c, http.StatusOK, "Post deleted successfully", nil)
	}
}

// UploadPostCover accepts a multipart "cover" file, pushes it to GCS and
// stores the public URL on the post.
func UploadPostCover(posts *services.PostService, v *utils.FileValidator) gin.HandlerFunc {
	return func(c *gin.Context) {
		userID, _, ok := identity(c)
		if !ok {
			respondError(c, apperrors.ErrUnauthorized)
			return
		}

		id, err := bson.ObjectIDFromHex(c.Param("id"))
		if err != nil {
			respondError(c, apperrors.ErrNotFound)
			return
		}

		post, err := posts.Get(c.Request.Context(), id)
		if err != nil {
			respondError(c, err)
			return
		}

		fileHeader, err := c.FormFile("cover")
		if err != nil {
			respondValidation(c, err)
			return
		}
		if _, err := v.ValidateFile(fileHeader); err != nil {
			respondValidation(c, err)
			return
		}

		client, bucket, err := utils.NewGCSClient(c)
		if err != nil {
			respondError(c, apperrors.ErrServer)
			return
		}
		defer client.Close()

		url, err := utils.UploadPostCoverToGCS(c.Request.Context(), client, bucket, post.Slug, fileHeader)
		if err != nil {
			respondError(c, apperrors.ErrServer)
			return
		}

		// Best effort: drop the old cover object once the new one is live.
		if post.CoverImageUrl != "" {
			if objName, err := utils.ObjectNameFromGCSPublicURL(bucket, post.CoverImageUrl); err == nil {
				_ = utils.DeleteGCSObjects(c.Request.Context(), client, bucket, []string{objName})
			}
		}

		if err := posts.SetCoverImage(c.Request.Context(), id, url, userID); err != nil {
			respondError(c, err)
			return
		}

		respondSuccess(c, http.StatusOK, "Cover image uploaded", gin.H{"coverImageUrl": url})
	}
}
