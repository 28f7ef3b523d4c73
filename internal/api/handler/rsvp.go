package handler

import (
	"net/http"
	"time"

	"github.com/labstack/echo/v4"

	"github.com/urosevicvuk/raf-event-booker/internal/domain/rsvp"
)

type RSVPHandler struct {
	rsvpService RSVPServiceInterface
}

func NewRSVPHandler(rsvpService RSVPServiceInterface) *RSVPHandler {
	return &RSVPHandler{rsvpService: rsvpService}
}

type RegisterRequest struct {
	EventID        string `json:"event_id" validate:"required" example:"550e8400-e29b-41d4-a716-446655440000"`
	UserIdentifier string `json:"user_identifier" validate:"required" example:"student@raf.rs"`
}

type RSVPResponse struct {
	ID             string `json:"id"`
	EventID        string `json:"event_id"`
	UserIdentifier string `json:"user_identifier"`
	RegisteredAt   string `json:"registered_at"`
}

type RegisterResponse struct {
	Message string        `json:"message"`
	RSVP    *RSVPResponse `json:"rsvp"`
}

type RSVPStatusResponse struct {
	EventID          string `json:"event_id"`
	CurrentCount     int    `json:"current_count"`
	MaxCapacity      *int   `json:"max_capacity"`
	CanRegister      bool   `json:"can_register"`
	IsFull           bool   `json:"is_full"`
	HasCapacityLimit bool   `json:"has_capacity_limit"`
}

func toRSVPResponse(r *rsvp.RSVP) *RSVPResponse {
	return &RSVPResponse{
		ID:             r.ID,
		EventID:        r.EventID,
		UserIdentifier: r.UserIdentifier,
		RegisteredAt:   r.RegisteredAt.Format(time.RFC3339),
	}
}

// Register godoc
// @Summary イベントに参加登録
// @Description 定員に達している場合は 400、登録済みの場合は 409
// @Tags rsvp
// @Accept json
// @Produce json
// @Param request body RegisterRequest true "登録情報"
// @Success 201 {object} RegisterResponse
// @Failure 400 {object} api.ErrorResponse
// @Failure 404 {object} api.ErrorResponse
// @Failure 409 {object} api.ErrorResponse
// @Router /rsvp [post]
func (h *RSVPHandler) Register(c echo.Context) error {
	var req RegisterRequest
	if err := bindAndValidate(c, &req); err != nil {
		return err
	}

	r, err := h.rsvpService.Register(c.Request().Context(), req.EventID, req.UserIdentifier)
	if err != nil {
		return toHTTPError(err)
	}
	return c.JSON(http.StatusCreated, RegisterResponse{Message: "参加登録が完了しました", RSVP: toRSVPResponse(r)})
}

// Deregister は参加登録を取り消す。登録が無くても 200
func (h *RSVPHandler) Deregister(c echo.Context) error {
	if err := h.rsvpService.Deregister(c.Request().Context(), c.Param("eventId"), c.Param("userIdentifier")); err != nil {
		return toHTTPError(err)
	}
	return c.JSON(http.StatusOK, messageResponse{Message: "参加登録を取り消しました"})
}

// Status godoc
// @Summary イベントの登録状況
// @Tags rsvp
// @Produce json
// @Param eventId path string true "イベントID"
// @Success 200 {object} RSVPStatusResponse
// @Failure 404 {object} api.ErrorResponse
// @Router /rsvp/event/{eventId}/status [get]
func (h *RSVPHandler) Status(c echo.Context) error {
	s, err := h.rsvpService.Status(c.Request().Context(), c.Param("eventId"))
	if err != nil {
		return toHTTPError(err)
	}
	return c.JSON(http.StatusOK, RSVPStatusResponse{
		EventID:          s.EventID,
		CurrentCount:     s.CurrentCount,
		MaxCapacity:      s.MaxCapacity,
		CanRegister:      s.CanRegister(),
		IsFull:           s.IsFull(),
		HasCapacityLimit: s.HasCapacityLimit(),
	})
}

func (h *RSVPHandler) UserStatus(c echo.Context) error {
	registered, err := h.rsvpService.IsRegistered(c.Request().Context(), c.Param("eventId"), c.Param("userIdentifier"))
	if err != nil {
		return toHTTPError(err)
	}
	return c.JSON(http.StatusOK, map[string]bool{"is_registered": registered})
}

// Count は /events/:id/rsvp-count 用
func (h *RSVPHandler) Count(c echo.Context) error {
	n, err := h.rsvpService.Count(c.Request().Context(), c.Param("id"))
	if err != nil {
		return toHTTPError(err)
	}
	return c.JSON(http.StatusOK, map[string]int{"count": n})
}

func (h *RSVPHandler) Roster(c echo.Context) error {
	limit, offset := pagination(c)
	roster, err := h.rsvpService.ListRoster(c.Request().Context(), c.Param("eventId"), limit, offset)
	if err != nil {
		return toHTTPError(err)
	}
	responses := make([]*RSVPResponse, len(roster))
	for i, r := range roster {
		responses[i] = toRSVPResponse(r)
	}
	return c.JSON(http.StatusOK, responses)
}
