package handler

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/urosevicvuk/raf-event-booker/internal/domain/tag"
)

type TagHandler struct {
	tagService TagServiceInterface
}

func NewTagHandler(tagService TagServiceInterface) *TagHandler {
	return &TagHandler{tagService: tagService}
}

type TagRequest struct {
	Name string `json:"name" validate:"required" example:"golang"`
}

type TagResponse struct {
	ID   string `json:"id"`
	Name string `json:"name"`
}

func toTagResponses(tags []*tag.Tag) []*TagResponse {
	responses := make([]*TagResponse, len(tags))
	for i, t := range tags {
		responses[i] = &TagResponse{ID: t.ID, Name: t.Name}
	}
	return responses
}

// Create は名前でタグを取得し、無ければ作成する（同名なら既存を返す）
func (h *TagHandler) Create(c echo.Context) error {
	var req TagRequest
	if err := bindAndValidate(c, &req); err != nil {
		return err
	}
	t, err := h.tagService.CreateTag(c.Request().Context(), req.Name)
	if err != nil {
		return toHTTPError(err)
	}
	return c.JSON(http.StatusCreated, &TagResponse{ID: t.ID, Name: t.Name})
}

func (h *TagHandler) GetByID(c echo.Context) error {
	t, err := h.tagService.GetTag(c.Request().Context(), c.Param("id"))
	if err != nil {
		return toHTTPError(err)
	}
	return c.JSON(http.StatusOK, &TagResponse{ID: t.ID, Name: t.Name})
}

func (h *TagHandler) List(c echo.Context) error {
	tags, err := h.tagService.ListTags(c.Request().Context())
	if err != nil {
		return toHTTPError(err)
	}
	return c.JSON(http.StatusOK, toTagResponses(tags))
}

func (h *TagHandler) ByEvent(c echo.Context) error {
	tags, err := h.tagService.ListEventTags(c.Request().Context(), c.Param("eventId"))
	if err != nil {
		return toHTTPError(err)
	}
	return c.JSON(http.StatusOK, toTagResponses(tags))
}

func (h *TagHandler) Events(c echo.Context) error {
	limit, offset := pagination(c)
	events, err := h.tagService.ListTagEvents(c.Request().Context(), c.Param("id"), limit, offset)
	if err != nil {
		return toHTTPError(err)
	}
	return c.JSON(http.StatusOK, toEventResponses(events))
}
