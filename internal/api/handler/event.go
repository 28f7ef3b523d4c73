package handler

import (
	"net/http"
	"strconv"
	"time"

	"github.com/labstack/echo/v4"

	"github.com/urosevicvuk/raf-event-booker/internal/application"
	"github.com/urosevicvuk/raf-event-booker/internal/domain/event"
	"github.com/urosevicvuk/raf-event-booker/internal/domain/user"
)

type EventHandler struct {
	eventService EventServiceInterface
	now          func() time.Time
}

func NewEventHandler(eventService EventServiceInterface) *EventHandler {
	return &EventHandler{eventService: eventService, now: time.Now}
}

// EventRequest はイベント作成・更新のリクエスト
// 閲覧数・リアクション数はクライアントから設定できないため含めない
type EventRequest struct {
	Title       string   `json:"title" validate:"required" example:"Go ミートアップ"`
	Description string   `json:"description" validate:"required" example:"月例の勉強会"`
	Location    string   `json:"location" validate:"required" example:"RAF 1"`
	EventDate   string   `json:"event_date" validate:"required" example:"2026-12-01T18:00:00+01:00"`
	CategoryID  string   `json:"category_id" validate:"required" example:"550e8400-e29b-41d4-a716-446655440000"`
	MaxCapacity *int     `json:"max_capacity" validate:"omitempty,gte=0" example:"50"`
	Tags        []string `json:"tags" example:"go,backend"`
}

type EventResponse struct {
	ID           string   `json:"id"`
	Title        string   `json:"title"`
	Description  string   `json:"description"`
	Location     string   `json:"location"`
	EventDate    string   `json:"event_date"`
	AuthorID     string   `json:"author_id"`
	CategoryID   string   `json:"category_id"`
	MaxCapacity  *int     `json:"max_capacity"`
	Views        int      `json:"views"`
	LikeCount    int      `json:"like_count"`
	DislikeCount int      `json:"dislike_count"`
	Tags         []string `json:"tags"`
	CreatedAt    string   `json:"created_at"`
	UpdatedAt    string   `json:"updated_at"`
}

func toEventResponse(e *event.Event) *EventResponse {
	tags := e.Tags
	if tags == nil {
		tags = []string{}
	}
	return &EventResponse{
		ID:           e.ID,
		Title:        e.Title,
		Description:  e.Description,
		Location:     e.Location,
		EventDate:    e.EventDate.Format(time.RFC3339),
		AuthorID:     e.AuthorID,
		CategoryID:   e.CategoryID,
		MaxCapacity:  e.MaxCapacity,
		Views:        e.Views,
		LikeCount:    e.LikeCount,
		DislikeCount: e.DislikeCount,
		Tags:         tags,
		CreatedAt:    e.CreatedAt.Format(time.RFC3339),
		UpdatedAt:    e.UpdatedAt.Format(time.RFC3339),
	}
}

func toEventResponses(events []*event.Event) []*EventResponse {
	responses := make([]*EventResponse, len(events))
	for i, e := range events {
		responses[i] = toEventResponse(e)
	}
	return responses
}

func parseEventDate(raw string) (time.Time, error) {
	t, err := time.Parse(time.RFC3339, raw)
	if err != nil {
		return time.Time{}, badRequest("開催日時の形式が不正です")
	}
	return t, nil
}

// Create godoc
// @Summary イベントを作成
// @Description 新しいイベントを作成します。作成者は認証済みユーザー
// @Tags events
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param request body EventRequest true "イベント情報"
// @Success 201 {object} EventResponse
// @Failure 400 {object} api.ErrorResponse
// @Failure 401 {object} api.ErrorResponse
// @Router /events [post]
func (h *EventHandler) Create(c echo.Context, principal *user.User) error {
	var req EventRequest
	if err := bindAndValidate(c, &req); err != nil {
		return err
	}
	eventDate, err := parseEventDate(req.EventDate)
	if err != nil {
		return err
	}

	e, err := h.eventService.CreateEvent(c.Request().Context(), principal.ID, application.CreateEventInput{
		Title:       req.Title,
		Description: req.Description,
		Location:    req.Location,
		EventDate:   eventDate,
		CategoryID:  req.CategoryID,
		MaxCapacity: req.MaxCapacity,
		Tags:        req.Tags,
	})
	if err != nil {
		return toHTTPError(err)
	}
	return c.JSON(http.StatusCreated, toEventResponse(e))
}

// GetByID godoc
// @Summary イベントを取得
// @Tags events
// @Produce json
// @Param id path string true "イベントID"
// @Success 200 {object} EventResponse
// @Failure 404 {object} api.ErrorResponse
// @Router /events/{id} [get]
func (h *EventHandler) GetByID(c echo.Context) error {
	e, err := h.eventService.GetEvent(c.Request().Context(), c.Param("id"))
	if err != nil {
		return toHTTPError(err)
	}
	return c.JSON(http.StatusOK, toEventResponse(e))
}

// List godoc
// @Summary イベント一覧を取得
// @Description カテゴリ・タグ・作成者で絞り込み、latest / most_visited / most_reacted で並べ替える
// @Tags events
// @Produce json
// @Param category_id query string false "カテゴリID"
// @Param tag_id query string false "タグID"
// @Param author_id query string false "作成者ID"
// @Param order query string false "並び順" default(latest)
// @Param limit query int false "取得件数" default(20)
// @Param offset query int false "オフセット" default(0)
// @Success 200 {array} EventResponse
// @Router /events [get]
func (h *EventHandler) List(c echo.Context) error {
	return h.list(c, event.Order(c.QueryParam("order")))
}

func (h *EventHandler) Latest(c echo.Context) error {
	return h.list(c, event.OrderLatest)
}

func (h *EventHandler) MostVisited(c echo.Context) error {
	return h.list(c, event.OrderMostVisited)
}

func (h *EventHandler) MostReacted(c echo.Context) error {
	return h.list(c, event.OrderMostReacted)
}

// 直近の人気イベントの集計期間
const recentWindow = 30 * 24 * time.Hour

// MostVisitedRecent godoc
// @Summary 直近30日の閲覧数順イベント
// @Description 過去30日以内に作成されたイベントを閲覧数の多い順に返します
// @Tags events
// @Produce json
// @Param limit query int false "取得件数" default(20)
// @Param offset query int false "オフセット" default(0)
// @Success 200 {array} EventResponse
// @Router /events/most-visited-30days [get]
func (h *EventHandler) MostVisitedRecent(c echo.Context) error {
	return h.listSince(c, event.OrderMostVisited, h.now().Add(-recentWindow))
}

func (h *EventHandler) list(c echo.Context, order event.Order) error {
	return h.listSince(c, order, time.Time{})
}

func (h *EventHandler) listSince(c echo.Context, order event.Order, since time.Time) error {
	limit, offset := pagination(c)
	events, err := h.eventService.ListEvents(c.Request().Context(), application.ListEventsInput{
		Filter: event.Filter{
			CategoryID:   c.QueryParam("category_id"),
			TagID:        c.QueryParam("tag_id"),
			AuthorID:     c.QueryParam("author_id"),
			CreatedSince: since,
		},
		Order:  order,
		Limit:  limit,
		Offset: offset,
	})
	if err != nil {
		return toHTTPError(err)
	}
	return c.JSON(http.StatusOK, toEventResponses(events))
}

// Search godoc
// @Summary イベントを検索
// @Description タイトル・説明文の部分一致で検索します
// @Tags events
// @Produce json
// @Param q query string true "検索キーワード"
// @Success 200 {array} EventResponse
// @Failure 400 {object} api.ErrorResponse
// @Router /events/search [get]
func (h *EventHandler) Search(c echo.Context) error {
	limit, offset := pagination(c)
	events, err := h.eventService.SearchEvents(c.Request().Context(), c.QueryParam("q"), limit, offset)
	if err != nil {
		return toHTTPError(err)
	}
	return c.JSON(http.StatusOK, toEventResponses(events))
}

// Similar はタグを共有するイベントを返す
func (h *EventHandler) Similar(c echo.Context) error {
	limit, _ := strconv.Atoi(c.QueryParam("limit"))
	events, err := h.eventService.ListSimilarEvents(c.Request().Context(), c.Param("id"), limit)
	if err != nil {
		return toHTTPError(err)
	}
	return c.JSON(http.StatusOK, toEventResponses(events))
}

// Update godoc
// @Summary イベントを更新
// @Description tags を省略した場合はタグを変更しない
// @Tags events
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param id path string true "イベントID"
// @Param request body EventRequest true "イベント情報"
// @Success 200 {object} EventResponse
// @Failure 400 {object} api.ErrorResponse
// @Failure 404 {object} api.ErrorResponse
// @Router /events/{id} [put]
func (h *EventHandler) Update(c echo.Context) error {
	var req EventRequest
	if err := bindAndValidate(c, &req); err != nil {
		return err
	}
	eventDate, err := parseEventDate(req.EventDate)
	if err != nil {
		return err
	}

	e, err := h.eventService.UpdateEvent(c.Request().Context(), application.UpdateEventInput{
		ID:          c.Param("id"),
		Title:       req.Title,
		Description: req.Description,
		Location:    req.Location,
		EventDate:   eventDate,
		CategoryID:  req.CategoryID,
		MaxCapacity: req.MaxCapacity,
		Tags:        req.Tags,
	})
	if err != nil {
		return toHTTPError(err)
	}
	return c.JSON(http.StatusOK, toEventResponse(e))
}

// Delete godoc
// @Summary イベントを削除
// @Tags events
// @Security BearerAuth
// @Param id path string true "イベントID"
// @Success 204
// @Failure 404 {object} api.ErrorResponse
// @Router /events/{id} [delete]
func (h *EventHandler) Delete(c echo.Context) error {
	if err := h.eventService.DeleteEvent(c.Request().Context(), c.Param("id")); err != nil {
		return toHTTPError(err)
	}
	return c.NoContent(http.StatusNoContent)
}
