package handler

import (
	"context"

	"github.com/stretchr/testify/mock"

	"github.com/urosevicvuk/raf-event-booker/internal/application"
	"github.com/urosevicvuk/raf-event-booker/internal/domain/category"
	"github.com/urosevicvuk/raf-event-booker/internal/domain/comment"
	"github.com/urosevicvuk/raf-event-booker/internal/domain/engagement"
	"github.com/urosevicvuk/raf-event-booker/internal/domain/event"
	"github.com/urosevicvuk/raf-event-booker/internal/domain/rsvp"
	"github.com/urosevicvuk/raf-event-booker/internal/domain/tag"
	"github.com/urosevicvuk/raf-event-booker/internal/domain/user"
)

// MockEventService はEventServiceInterfaceのモック
type MockEventService struct {
	mock.Mock
}

func (m *MockEventService) CreateEvent(ctx context.Context, authorID string, input application.CreateEventInput) (*event.Event, error) {
	args := m.Called(ctx, authorID, input)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*event.Event), args.Error(1)
}

func (m *MockEventService) GetEvent(ctx context.Context, id string) (*event.Event, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*event.Event), args.Error(1)
}

func (m *MockEventService) ListEvents(ctx context.Context, input application.ListEventsInput) ([]*event.Event, error) {
	args := m.Called(ctx, input)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*event.Event), args.Error(1)
}

func (m *MockEventService) SearchEvents(ctx context.Context, term string, limit, offset int) ([]*event.Event, error) {
	args := m.Called(ctx, term, limit, offset)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*event.Event), args.Error(1)
}

func (m *MockEventService) ListSimilarEvents(ctx context.Context, id string, limit int) ([]*event.Event, error) {
	args := m.Called(ctx, id, limit)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*event.Event), args.Error(1)
}

func (m *MockEventService) UpdateEvent(ctx context.Context, input application.UpdateEventInput) (*event.Event, error) {
	args := m.Called(ctx, input)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*event.Event), args.Error(1)
}

func (m *MockEventService) DeleteEvent(ctx context.Context, id string) error {
	args := m.Called(ctx, id)
	return args.Error(0)
}

// MockEngagementService はEngagementServiceInterfaceのモック
type MockEngagementService struct {
	mock.Mock
}

func (m *MockEngagementService) ReactToEvent(ctx context.Context, sessionID, eventID string, action engagement.Action) (*engagement.ReactionResult, error) {
	args := m.Called(ctx, sessionID, eventID, action)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*engagement.ReactionResult), args.Error(1)
}

func (m *MockEngagementService) ReactToComment(ctx context.Context, sessionID, commentID string, action engagement.Action) (*engagement.ReactionResult, error) {
	args := m.Called(ctx, sessionID, commentID, action)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*engagement.ReactionResult), args.Error(1)
}

func (m *MockEngagementService) TrackView(ctx context.Context, sessionID, eventID string) (*engagement.ViewResult, error) {
	args := m.Called(ctx, sessionID, eventID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*engagement.ViewResult), args.Error(1)
}

// MockRSVPService はRSVPServiceInterfaceのモック
type MockRSVPService struct {
	mock.Mock
}

func (m *MockRSVPService) Register(ctx context.Context, eventID, userIdentifier string) (*rsvp.RSVP, error) {
	args := m.Called(ctx, eventID, userIdentifier)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*rsvp.RSVP), args.Error(1)
}

func (m *MockRSVPService) Deregister(ctx context.Context, eventID, userIdentifier string) error {
	args := m.Called(ctx, eventID, userIdentifier)
	return args.Error(0)
}

func (m *MockRSVPService) Status(ctx context.Context, eventID string) (*rsvp.Status, error) {
	args := m.Called(ctx, eventID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*rsvp.Status), args.Error(1)
}

func (m *MockRSVPService) Count(ctx context.Context, eventID string) (int, error) {
	args := m.Called(ctx, eventID)
	return args.Int(0), args.Error(1)
}

func (m *MockRSVPService) IsRegistered(ctx context.Context, eventID, userIdentifier string) (bool, error) {
	args := m.Called(ctx, eventID, userIdentifier)
	return args.Bool(0), args.Error(1)
}

func (m *MockRSVPService) ListRoster(ctx context.Context, eventID string, limit, offset int) ([]*rsvp.RSVP, error) {
	args := m.Called(ctx, eventID, limit, offset)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*rsvp.RSVP), args.Error(1)
}

// MockCategoryService はCategoryServiceInterfaceのモック
type MockCategoryService struct {
	mock.Mock
}

func (m *MockCategoryService) CreateCategory(ctx context.Context, name, description string) (*category.Category, error) {
	args := m.Called(ctx, name, description)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*category.Category), args.Error(1)
}

func (m *MockCategoryService) GetCategory(ctx context.Context, id string) (*category.Category, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*category.Category), args.Error(1)
}

func (m *MockCategoryService) ListCategories(ctx context.Context, limit, offset int) ([]*category.Category, error) {
	args := m.Called(ctx, limit, offset)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*category.Category), args.Error(1)
}

func (m *MockCategoryService) UpdateCategory(ctx context.Context, id, name, description string) (*category.Category, error) {
	args := m.Called(ctx, id, name, description)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*category.Category), args.Error(1)
}

func (m *MockCategoryService) DeleteCategory(ctx context.Context, id string) error {
	args := m.Called(ctx, id)
	return args.Error(0)
}

func (m *MockCategoryService) ListCategoryEvents(ctx context.Context, id string, limit, offset int) ([]*event.Event, error) {
	args := m.Called(ctx, id, limit, offset)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*event.Event), args.Error(1)
}

// MockTagService はTagServiceInterfaceのモック
type MockTagService struct {
	mock.Mock
}

func (m *MockTagService) CreateTag(ctx context.Context, name string) (*tag.Tag, error) {
	args := m.Called(ctx, name)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*tag.Tag), args.Error(1)
}

func (m *MockTagService) GetTag(ctx context.Context, id string) (*tag.Tag, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*tag.Tag), args.Error(1)
}

func (m *MockTagService) ListTags(ctx context.Context) ([]*tag.Tag, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*tag.Tag), args.Error(1)
}

func (m *MockTagService) ListEventTags(ctx context.Context, eventID string) ([]*tag.Tag, error) {
	args := m.Called(ctx, eventID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*tag.Tag), args.Error(1)
}

func (m *MockTagService) ListTagEvents(ctx context.Context, tagID string, limit, offset int) ([]*event.Event, error) {
	args := m.Called(ctx, tagID, limit, offset)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*event.Event), args.Error(1)
}

// MockCommentService はCommentServiceInterfaceのモック
type MockCommentService struct {
	mock.Mock
}

func (m *MockCommentService) AddComment(ctx context.Context, eventID, authorName, text string) (*comment.Comment, error) {
	args := m.Called(ctx, eventID, authorName, text)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*comment.Comment), args.Error(1)
}

func (m *MockCommentService) GetComment(ctx context.Context, id string) (*comment.Comment, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*comment.Comment), args.Error(1)
}

func (m *MockCommentService) ListEventComments(ctx context.Context, eventID string, limit, offset int) ([]*comment.Comment, error) {
	args := m.Called(ctx, eventID, limit, offset)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*comment.Comment), args.Error(1)
}

// MockUserService はUserServiceInterfaceのモック
type MockUserService struct {
	mock.Mock
}

func (m *MockUserService) CreateUser(ctx context.Context, input application.CreateUserInput) (*user.User, error) {
	args := m.Called(ctx, input)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*user.User), args.Error(1)
}

func (m *MockUserService) GetUser(ctx context.Context, id string) (*user.User, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*user.User), args.Error(1)
}

func (m *MockUserService) GetUserByEmail(ctx context.Context, email string) (*user.User, error) {
	args := m.Called(ctx, email)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*user.User), args.Error(1)
}

func (m *MockUserService) ListUsers(ctx context.Context, role user.Role, limit, offset int) ([]*user.User, error) {
	args := m.Called(ctx, role, limit, offset)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*user.User), args.Error(1)
}

func (m *MockUserService) UpdateUser(ctx context.Context, input application.UpdateUserInput) (*user.User, error) {
	args := m.Called(ctx, input)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*user.User), args.Error(1)
}

func (m *MockUserService) ActivateUser(ctx context.Context, id string) (*user.User, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*user.User), args.Error(1)
}

func (m *MockUserService) DeactivateUser(ctx context.Context, id string) (*user.User, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*user.User), args.Error(1)
}

func (m *MockUserService) ChangePassword(ctx context.Context, id, plain string) error {
	args := m.Called(ctx, id, plain)
	return args.Error(0)
}

func (m *MockUserService) DeleteUser(ctx context.Context, id string) error {
	args := m.Called(ctx, id)
	return args.Error(0)
}

// MockLoginService はLoginServiceInterfaceのモック
type MockLoginService struct {
	mock.Mock
}

func (m *MockLoginService) Login(ctx context.Context, email, plain string) (string, error) {
	args := m.Called(ctx, email, plain)
	return args.String(0), args.Error(1)
}
