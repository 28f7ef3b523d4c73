package handler

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/urosevicvuk/raf-event-booker/internal/domain/engagement"
)

// EngagementHandler は閲覧数・いいね・よくないねのハンドラー
// すべてセッション単位で重複排除され、認証は不要
type EngagementHandler struct {
	engagementService EngagementServiceInterface
}

func NewEngagementHandler(engagementService EngagementServiceInterface) *EngagementHandler {
	return &EngagementHandler{engagementService: engagementService}
}

// ReactionResponse はリアクション結果。クライアントはこれで楽観的UIを補正する
type ReactionResponse struct {
	Action       string `json:"action"`
	HasLiked     bool   `json:"has_liked"`
	HasDisliked  bool   `json:"has_disliked"`
	LikeCount    int    `json:"like_count"`
	DislikeCount int    `json:"dislike_count"`
}

type ViewResponse struct {
	Counted bool   `json:"counted"`
	Views   int    `json:"views"`
	Message string `json:"message"`
}

func toReactionResponse(r *engagement.ReactionResult) *ReactionResponse {
	return &ReactionResponse{
		Action:       string(r.Outcome),
		HasLiked:     r.State.HasLiked,
		HasDisliked:  r.State.HasDisliked,
		LikeCount:    r.Counts.Likes,
		DislikeCount: r.Counts.Dislikes,
	}
}

// View godoc
// @Summary イベントの閲覧を記録
// @Description 同一セッションでは1回だけ閲覧数を増やす
// @Tags engagement
// @Produce json
// @Param id path string true "イベントID"
// @Success 200 {object} ViewResponse
// @Failure 404 {object} api.ErrorResponse
// @Router /events/{id}/view [post]
func (h *EngagementHandler) View(c echo.Context, sessionID string) error {
	res, err := h.engagementService.TrackView(c.Request().Context(), sessionID, c.Param("id"))
	if err != nil {
		return toHTTPError(err)
	}
	msg := "閲覧を記録しました"
	if !res.Counted {
		msg = "このセッションでは既に閲覧済みです"
	}
	return c.JSON(http.StatusOK, ViewResponse{Counted: res.Counted, Views: res.Views, Message: msg})
}

func (h *EngagementHandler) LikeEvent(c echo.Context, sessionID string) error {
	return h.reactToEvent(c, sessionID, engagement.ActionLike)
}

func (h *EngagementHandler) DislikeEvent(c echo.Context, sessionID string) error {
	return h.reactToEvent(c, sessionID, engagement.ActionDislike)
}

func (h *EngagementHandler) LikeComment(c echo.Context, sessionID string) error {
	return h.reactToComment(c, sessionID, engagement.ActionLike)
}

func (h *EngagementHandler) DislikeComment(c echo.Context, sessionID string) error {
	return h.reactToComment(c, sessionID, engagement.ActionDislike)
}

func (h *EngagementHandler) reactToEvent(c echo.Context, sessionID string, action engagement.Action) error {
	res, err := h.engagementService.ReactToEvent(c.Request().Context(), sessionID, c.Param("id"), action)
	if err != nil {
		return toHTTPError(err)
	}
	return c.JSON(http.StatusOK, toReactionResponse(res))
}

func (h *EngagementHandler) reactToComment(c echo.Context, sessionID string, action engagement.Action) error {
	res, err := h.engagementService.ReactToComment(c.Request().Context(), sessionID, c.Param("id"), action)
	if err != nil {
		return toHTTPError(err)
	}
	return c.JSON(http.StatusOK, toReactionResponse(res))
}
