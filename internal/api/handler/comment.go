package handler

import (
	"net/http"
	"time"

	"github.com/labstack/echo/v4"

	"github.com/urosevicvuk/raf-event-booker/internal/domain/comment"
)

type CommentHandler struct {
	commentService CommentServiceInterface
}

func NewCommentHandler(commentService CommentServiceInterface) *CommentHandler {
	return &CommentHandler{commentService: commentService}
}

type CommentRequest struct {
	EventID    string `json:"event_id" validate:"required"`
	AuthorName string `json:"author_name" validate:"required,max=100" example:"Ana"`
	Text       string `json:"text" validate:"required,max=2000" example:"楽しみです"`
}

type CommentResponse struct {
	ID           string `json:"id"`
	EventID      string `json:"event_id"`
	AuthorName   string `json:"author_name"`
	Text         string `json:"text"`
	LikeCount    int    `json:"like_count"`
	DislikeCount int    `json:"dislike_count"`
	CreatedAt    string `json:"created_at"`
}

func toCommentResponse(c *comment.Comment) *CommentResponse {
	return &CommentResponse{
		ID:           c.ID,
		EventID:      c.EventID,
		AuthorName:   c.AuthorName,
		Text:         c.Text,
		LikeCount:    c.LikeCount,
		DislikeCount: c.DislikeCount,
		CreatedAt:    c.CreatedAt.Format(time.RFC3339),
	}
}

// Create godoc
// @Summary コメントを投稿
// @Tags comments
// @Accept json
// @Produce json
// @Param request body CommentRequest true "コメント"
// @Success 201 {object} CommentResponse
// @Failure 404 {object} api.ErrorResponse
// @Router /comments [post]
func (h *CommentHandler) Create(c echo.Context) error {
	var req CommentRequest
	if err := bindAndValidate(c, &req); err != nil {
		return err
	}
	cm, err := h.commentService.AddComment(c.Request().Context(), req.EventID, req.AuthorName, req.Text)
	if err != nil {
		return toHTTPError(err)
	}
	return c.JSON(http.StatusCreated, toCommentResponse(cm))
}

func (h *CommentHandler) GetByID(c echo.Context) error {
	cm, err := h.commentService.GetComment(c.Request().Context(), c.Param("id"))
	if err != nil {
		return toHTTPError(err)
	}
	return c.JSON(http.StatusOK, toCommentResponse(cm))
}

func (h *CommentHandler) ByEvent(c echo.Context) error {
	limit, offset := pagination(c)
	comments, err := h.commentService.ListEventComments(c.Request().Context(), c.Param("eventId"), limit, offset)
	if err != nil {
		return toHTTPError(err)
	}
	responses := make([]*CommentResponse, len(comments))
	for i, cm := range comments {
		responses[i] = toCommentResponse(cm)
	}
	return c.JSON(http.StatusOK, responses)
}
