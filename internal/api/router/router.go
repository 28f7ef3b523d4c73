package router

import (
	"github.com/labstack/echo/v4"

	"github.com/urosevicvuk/raf-event-booker/internal/api/handler"
	"github.com/urosevicvuk/raf-event-booker/internal/api/middleware"
)

// Handlers はルーティング対象のハンドラー一式
type Handlers struct {
	Health     *handler.HealthHandler
	User       *handler.UserHandler
	Event      *handler.EventHandler
	Engagement *handler.EngagementHandler
	Category   *handler.CategoryHandler
	Tag        *handler.TagHandler
	Comment    *handler.CommentHandler
	RSVP       *handler.RSVPHandler
}

// Register は /api 配下のルートを登録する
// 認可ゲートは API グループ全体にかかり、ルートテンプレートでポリシーを判定する
func Register(e *echo.Echo, h Handlers, gate, session echo.MiddlewareFunc) {
	e.GET("/health", h.Health.Check)

	v1 := e.Group(middleware.APIPrefix, session, gate)

	// ユーザー（ログイン以外は管理者のみ）
	v1.POST("/users/login", h.User.Login)
	v1.GET("/users", h.User.List)
	v1.POST("/users", h.User.Create)
	v1.GET("/users/email/:email", h.User.GetByEmail)
	v1.GET("/users/:id", h.User.GetByID)
	v1.PUT("/users/:id", h.User.Update)
	v1.DELETE("/users/:id", h.User.Delete)
	v1.PUT("/users/:id/activate", h.User.Activate)
	v1.PUT("/users/:id/deactivate", h.User.Deactivate)
	v1.PUT("/users/:id/password", h.User.ChangePassword)

	// イベント
	v1.GET("/events", h.Event.List)
	v1.POST("/events", middleware.WithPrincipal(h.Event.Create))
	v1.GET("/events/search", h.Event.Search)
	v1.GET("/events/latest", h.Event.Latest)
	v1.GET("/events/most-visited", h.Event.MostVisited)
	v1.GET("/events/most-visited-30days", h.Event.MostVisitedRecent)
	v1.GET("/events/most-reacted", h.Event.MostReacted)
	v1.GET("/events/:id", h.Event.GetByID)
	v1.PUT("/events/:id", h.Event.Update)
	v1.DELETE("/events/:id", h.Event.Delete)
	v1.GET("/events/:id/similar", h.Event.Similar)
	v1.GET("/events/:id/rsvp-count", h.RSVP.Count)
	v1.POST("/events/:id/view", middleware.WithSession(h.Engagement.View))
	v1.POST("/events/:id/like", middleware.WithSession(h.Engagement.LikeEvent))
	v1.POST("/events/:id/dislike", middleware.WithSession(h.Engagement.DislikeEvent))

	// カテゴリ
	v1.GET("/categories", h.Category.List)
	v1.POST("/categories", h.Category.Create)
	v1.GET("/categories/:id", h.Category.GetByID)
	v1.PUT("/categories/:id", h.Category.Update)
	v1.DELETE("/categories/:id", h.Category.Delete)
	v1.GET("/categories/:id/events", h.Category.Events)

	// タグ
	v1.GET("/tags", h.Tag.List)
	v1.POST("/tags", h.Tag.Create)
	v1.GET("/tags/event/:eventId", h.Tag.ByEvent)
	v1.GET("/tags/:id", h.Tag.GetByID)
	v1.GET("/tags/:id/events", h.Tag.Events)

	// コメント
	v1.POST("/comments", h.Comment.Create)
	v1.GET("/comments/event/:eventId", h.Comment.ByEvent)
	v1.GET("/comments/:id", h.Comment.GetByID)
	v1.POST("/comments/:id/like", middleware.WithSession(h.Engagement.LikeComment))
	v1.POST("/comments/:id/dislike", middleware.WithSession(h.Engagement.DislikeComment))

	// 参加登録
	v1.POST("/rsvp", h.RSVP.Register)
	v1.GET("/rsvp/event/:eventId", h.RSVP.Roster)
	v1.GET("/rsvp/event/:eventId/status", h.RSVP.Status)
	v1.GET("/rsvp/event/:eventId/user/:userIdentifier/status", h.RSVP.UserStatus)
	v1.DELETE("/rsvp/event/:eventId/user/:userIdentifier", h.RSVP.Deregister)
}
