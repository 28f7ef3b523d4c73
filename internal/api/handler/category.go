package handler

import (
	"net/http"
	"time"

	"github.com/labstack/echo/v4"

	"github.com/urosevicvuk/raf-event-booker/internal/domain/category"
)

type CategoryHandler struct {
	categoryService CategoryServiceInterface
}

func NewCategoryHandler(categoryService CategoryServiceInterface) *CategoryHandler {
	return &CategoryHandler{categoryService: categoryService}
}

type CategoryRequest struct {
	Name        string `json:"name" validate:"required" example:"Tech"`
	Description string `json:"description" validate:"required" example:"技術系イベント"`
}

type CategoryResponse struct {
	ID          string `json:"id"`
	Name        string `json:"name"`
	Description string `json:"description"`
	CreatedAt   string `json:"created_at"`
	UpdatedAt   string `json:"updated_at"`
}

func toCategoryResponse(c *category.Category) *CategoryResponse {
	return &CategoryResponse{
		ID:          c.ID,
		Name:        c.Name,
		Description: c.Description,
		CreatedAt:   c.CreatedAt.Format(time.RFC3339),
		UpdatedAt:   c.UpdatedAt.Format(time.RFC3339),
	}
}

// Create godoc
// @Summary カテゴリを作成
// @Tags categories
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param request body CategoryRequest true "カテゴリ情報"
// @Success 201 {object} CategoryResponse
// @Failure 409 {object} api.ErrorResponse
// @Router /categories [post]
func (h *CategoryHandler) Create(c echo.Context) error {
	var req CategoryRequest
	if err := bindAndValidate(c, &req); err != nil {
		return err
	}
	cat, err := h.categoryService.CreateCategory(c.Request().Context(), req.Name, req.Description)
	if err != nil {
		return toHTTPError(err)
	}
	return c.JSON(http.StatusCreated, toCategoryResponse(cat))
}

func (h *CategoryHandler) GetByID(c echo.Context) error {
	cat, err := h.categoryService.GetCategory(c.Request().Context(), c.Param("id"))
	if err != nil {
		return toHTTPError(err)
	}
	return c.JSON(http.StatusOK, toCategoryResponse(cat))
}

func (h *CategoryHandler) List(c echo.Context) error {
	limit, offset := pagination(c)
	cats, err := h.categoryService.ListCategories(c.Request().Context(), limit, offset)
	if err != nil {
		return toHTTPError(err)
	}
	responses := make([]*CategoryResponse, len(cats))
	for i, cat := range cats {
		responses[i] = toCategoryResponse(cat)
	}
	return c.JSON(http.StatusOK, responses)
}

func (h *CategoryHandler) Update(c echo.Context) error {
	var req CategoryRequest
	if err := bindAndValidate(c, &req); err != nil {
		return err
	}
	cat, err := h.categoryService.UpdateCategory(c.Request().Context(), c.Param("id"), req.Name, req.Description)
	if err != nil {
		return toHTTPError(err)
	}
	return c.JSON(http.StatusOK, toCategoryResponse(cat))
}

// Delete はカテゴリを削除する。イベントが参照している場合は 409
func (h *CategoryHandler) Delete(c echo.Context) error {
	if err := h.categoryService.DeleteCategory(c.Request().Context(), c.Param("id")); err != nil {
		return toHTTPError(err)
	}
	return c.NoContent(http.StatusNoContent)
}

func (h *CategoryHandler) Events(c echo.Context) error {
	limit, offset := pagination(c)
	events, err := h.categoryService.ListCategoryEvents(c.Request().Context(), c.Param("id"), limit, offset)
	if err != nil {
		return toHTTPError(err)
	}
	return c.JSON(http.StatusOK, toEventResponses(events))
}
