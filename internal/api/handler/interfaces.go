package handler

import (
	"context"

	"github.com/urosevicvuk/raf-event-booker/internal/application"
	"github.com/urosevicvuk/raf-event-booker/internal/domain/category"
	"github.com/urosevicvuk/raf-event-booker/internal/domain/comment"
	"github.com/urosevicvuk/raf-event-booker/internal/domain/engagement"
	"github.com/urosevicvuk/raf-event-booker/internal/domain/event"
	"github.com/urosevicvuk/raf-event-booker/internal/domain/rsvp"
	"github.com/urosevicvuk/raf-event-booker/internal/domain/tag"
	"github.com/urosevicvuk/raf-event-booker/internal/domain/user"
)

// EventServiceInterface はイベントサービスのインターフェース
type EventServiceInterface interface {
	CreateEvent(ctx context.Context, authorID string, input application.CreateEventInput) (*event.Event, error)
	GetEvent(ctx context.Context, id string) (*event.Event, error)
	ListEvents(ctx context.Context, input application.ListEventsInput) ([]*event.Event, error)
	SearchEvents(ctx context.Context, term string, limit, offset int) ([]*event.Event, error)
	ListSimilarEvents(ctx context.Context, id string, limit int) ([]*event.Event, error)
	UpdateEvent(ctx context.Context, input application.UpdateEventInput) (*event.Event, error)
	DeleteEvent(ctx context.Context, id string) error
}

// EngagementServiceInterface は閲覧数・リアクションのインターフェース
type EngagementServiceInterface interface {
	ReactToEvent(ctx context.Context, sessionID, eventID string, action engagement.Action) (*engagement.ReactionResult, error)
	ReactToComment(ctx context.Context, sessionID, commentID string, action engagement.Action) (*engagement.ReactionResult, error)
	TrackView(ctx context.Context, sessionID, eventID string) (*engagement.ViewResult, error)
}

// RSVPServiceInterface は参加登録サービスのインターフェース
type RSVPServiceInterface interface {
	Register(ctx context.Context, eventID, userIdentifier string) (*rsvp.RSVP, error)
	Deregister(ctx context.Context, eventID, userIdentifier string) error
	Status(ctx context.Context, eventID string) (*rsvp.Status, error)
	Count(ctx context.Context, eventID string) (int, error)
	IsRegistered(ctx context.Context, eventID, userIdentifier string) (bool, error)
	ListRoster(ctx context.Context, eventID string, limit, offset int) ([]*rsvp.RSVP, error)
}

// CategoryServiceInterface はカテゴリサービスのインターフェース
type CategoryServiceInterface interface {
	CreateCategory(ctx context.Context, name, description string) (*category.Category, error)
	GetCategory(ctx context.Context, id string) (*category.Category, error)
	ListCategories(ctx context.Context, limit, offset int) ([]*category.Category, error)
	UpdateCategory(ctx context.Context, id, name, description string) (*category.Category, error)
	DeleteCategory(ctx context.Context, id string) error
	ListCategoryEvents(ctx context.Context, id string, limit, offset int) ([]*event.Event, error)
}

// TagServiceInterface はタグサービスのインターフェース
type TagServiceInterface interface {
	CreateTag(ctx context.Context, name string) (*tag.Tag, error)
	GetTag(ctx context.Context, id string) (*tag.Tag, error)
	ListTags(ctx context.Context) ([]*tag.Tag, error)
	ListEventTags(ctx context.Context, eventID string) ([]*tag.Tag, error)
	ListTagEvents(ctx context.Context, tagID string, limit, offset int) ([]*event.Event, error)
}

// CommentServiceInterface はコメントサービスのインターフェース
type CommentServiceInterface interface {
	AddComment(ctx context.Context, eventID, authorName, text string) (*comment.Comment, error)
	GetComment(ctx context.Context, id string) (*comment.Comment, error)
	ListEventComments(ctx context.Context, eventID string, limit, offset int) ([]*comment.Comment, error)
}

// UserServiceInterface はユーザー管理サービスのインターフェース
type UserServiceInterface interface {
	CreateUser(ctx context.Context, input application.CreateUserInput) (*user.User, error)
	GetUser(ctx context.Context, id string) (*user.User, error)
	GetUserByEmail(ctx context.Context, email string) (*user.User, error)
	ListUsers(ctx context.Context, role user.Role, limit, offset int) ([]*user.User, error)
	UpdateUser(ctx context.Context, input application.UpdateUserInput) (*user.User, error)
	ActivateUser(ctx context.Context, id string) (*user.User, error)
	DeactivateUser(ctx context.Context, id string) (*user.User, error)
	ChangePassword(ctx context.Context, id, plain string) error
	DeleteUser(ctx context.Context, id string) error
}

// LoginServiceInterface はログインのインターフェース
type LoginServiceInterface interface {
	Login(ctx context.Context, email, plain string) (string, error)
}
