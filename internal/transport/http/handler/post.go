package handler

import (
	"errors"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"gopherblog/internal/app"
	"gopherblog/internal/transport/http/middleware"
	"gopherblog/internal/transport/http/response"
)

type PostHandler struct {
	postService *app.PostService
}

// CreatePostRequest carries no binding rules: the service checks fields only
// after the caller has been authorized for the path user.
type CreatePostRequest struct {
	Title   string `json:"title"`
	Content string `json:"content"`
}

func NewPostHandler(postService *app.PostService) *PostHandler {
	return &PostHandler{postService: postService}
}

func (h *PostHandler) CreatePost(c *gin.Context) {
	subjectID, ok := middleware.UserID(c)
	if !ok {
		response.Error(c, http.StatusUnauthorized, response.CodeUnauthorized, "unauthorized")
		return
	}
	ownerID, ok := parseUserID(c)
	if !ok {
		return
	}

	// A malformed body leaves req empty and is reported as invalid input after authorization.
	var req CreatePostRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		req = CreatePostRequest{}
	}

	post, err := h.postService.CreatePost(c.Request.Context(), app.CreatePostInput{
		SubjectID: subjectID,
		OwnerID:   ownerID,
		Title:     req.Title,
		Content:   req.Content,
	})
	if err != nil {
		writePostError(c, "create post failed", err)
		return
	}

	response.OK(c, post)
}

func (h *PostHandler) ListPosts(c *gin.Context) {
	subjectID, ok := middleware.UserID(c)
	if !ok {
		response.Error(c, http.StatusUnauthorized, response.CodeUnauthorized, "unauthorized")
		return
	}
	ownerID, ok := parseUserID(c)
	if !ok {
		return
	}

	posts, err := h.postService.ListPosts(c.Request.Context(), subjectID, ownerID)
	if err != nil {
		writePostError(c, "list posts failed", err)
		return
	}

	response.OK(c, posts)
}

func parseUserID(c *gin.Context) (uint, bool) {
	id, err := strconv.ParseUint(c.Param("userId"), 10, 64)
	if err != nil || id == 0 {
		response.Error(c, http.StatusBadRequest, response.CodeBadRequest, "invalid user id")
		return 0, false
	}
	return uint(id), true
}

func writePostError(c *gin.Context, message string, err error) {
	switch {
	case errors.Is(err, app.ErrUserNotFound):
		response.Error(c, http.StatusNotFound, response.CodeUserNotFound, err.Error())
	case errors.Is(err, app.ErrNotOwner):
		response.Error(c, http.StatusUnauthorized, response.CodeUnauthorized, "unauthorized")
	case errors.Is(err, app.ErrInvalidInput):
		response.Error(c, http.StatusBadRequest, response.CodeBadRequest, "title and content are required, title at most 255 characters")
	default:
		serverError(c, message, err)
	}
}
