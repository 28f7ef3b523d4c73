package application

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/urosevicvuk/raf-event-booker/internal/domain/category"
	"github.com/urosevicvuk/raf-event-booker/internal/domain/event"
	"github.com/urosevicvuk/raf-event-booker/internal/domain/tag"
)

type EventService struct {
	eventRepo    event.Repository
	categoryRepo category.Repository
	tagRepo      tag.Repository
}

func NewEventService(eventRepo event.Repository, categoryRepo category.Repository, tagRepo tag.Repository) *EventService {
	return &EventService{eventRepo: eventRepo, categoryRepo: categoryRepo, tagRepo: tagRepo}
}

type CreateEventInput struct {
	Title       string
	Description string
	Location    string
	EventDate   time.Time
	CategoryID  string
	MaxCapacity *int
	Tags        []string
}

// CreateEvent はイベントを作成する。作成者は認証済みの主体
// 閲覧数・リアクション数は常に0から始まり、入力からは設定できない
func (s *EventService) CreateEvent(ctx context.Context, authorID string, input CreateEventInput) (*event.Event, error) {
	e := event.NewEvent(input.Title, input.Description, input.Location, input.EventDate, authorID, input.CategoryID, input.MaxCapacity)
	if err := e.Validate(); err != nil {
		return nil, err
	}
	if _, err := s.categoryRepo.GetByID(ctx, e.CategoryID); err != nil {
		return nil, err
	}
	if err := s.eventRepo.Create(ctx, e); err != nil {
		return nil, fmt.Errorf("イベント作成に失敗しました: %w", err)
	}
	if err := s.applyTags(ctx, e, input.Tags); err != nil {
		return nil, err
	}
	return e, nil
}

func (s *EventService) GetEvent(ctx context.Context, id string) (*event.Event, error) {
	return s.eventRepo.GetByID(ctx, id)
}

type ListEventsInput struct {
	Filter event.Filter
	Order  event.Order
	Limit  int
	Offset int
}

func (s *EventService) ListEvents(ctx context.Context, input ListEventsInput) ([]*event.Event, error) {
	limit, offset := normalizePage(input.Limit, input.Offset)
	order := input.Order
	switch order {
	case event.OrderLatest, event.OrderMostVisited, event.OrderMostReacted:
	default:
		order = event.OrderLatest
	}
	return s.eventRepo.List(ctx, input.Filter, order, limit, offset)
}

// SearchEvents はタイトル・説明文で検索する。検索語が空なら ErrSearchTermRequired
func (s *EventService) SearchEvents(ctx context.Context, term string, limit, offset int) ([]*event.Event, error) {
	term = strings.TrimSpace(term)
	if term == "" {
		return nil, event.ErrSearchTermRequired
	}
	return s.ListEvents(ctx, ListEventsInput{Filter: event.Filter{Search: term}, Limit: limit, Offset: offset})
}

// ListSimilarEvents はタグを共有するイベントを返す
func (s *EventService) ListSimilarEvents(ctx context.Context, id string, limit int) ([]*event.Event, error) {
	exists, err := s.eventRepo.Exists(ctx, id)
	if err != nil {
		return nil, err
	}
	if !exists {
		return nil, event.ErrEventNotFound
	}
	limit, _ = normalizePage(limit, 0)
	return s.eventRepo.ListSimilar(ctx, id, limit)
}

type UpdateEventInput struct {
	ID          string
	Title       string
	Description string
	Location    string
	EventDate   time.Time
	CategoryID  string
	MaxCapacity *int
	Tags        []string // nil ならタグは変更しない
}

func (s *EventService) UpdateEvent(ctx context.Context, input UpdateEventInput) (*event.Event, error) {
	e, err := s.eventRepo.GetByID(ctx, input.ID)
	if err != nil {
		return nil, err
	}
	e.Title = input.Title
	e.Description = input.Description
	e.Location = input.Location
	e.EventDate = input.EventDate
	e.CategoryID = input.CategoryID
	e.MaxCapacity = input.MaxCapacity
	if err := e.Validate(); err != nil {
		return nil, err
	}
	if _, err := s.categoryRepo.GetByID(ctx, e.CategoryID); err != nil {
		return nil, err
	}
	if err := s.eventRepo.Update(ctx, e); err != nil {
		return nil, err
	}
	if input.Tags != nil {
		if err := s.applyTags(ctx, e, input.Tags); err != nil {
			return nil, err
		}
	}
	return e, nil
}

func (s *EventService) DeleteEvent(ctx context.Context, id string) error {
	return s.eventRepo.Delete(ctx, id)
}

// applyTags はタグ名を解決（無ければ作成）してイベントに付け替える
func (s *EventService) applyTags(ctx context.Context, e *event.Event, names []string) error {
	seen := make(map[string]struct{}, len(names))
	ids := make([]string, 0, len(names))
	resolved := make([]string, 0, len(names))
	for _, name := range names {
		name = tag.Normalize(name)
		if name == "" {
			continue
		}
		if _, dup := seen[name]; dup {
			continue
		}
		seen[name] = struct{}{}

		t, err := s.tagRepo.FindOrCreate(ctx, name)
		if err != nil {
			return fmt.Errorf("タグの解決に失敗しました: %w", err)
		}
		ids = append(ids, t.ID)
		resolved = append(resolved, t.Name)
	}

	if err := s.eventRepo.SetTags(ctx, e.ID, ids); err != nil {
		return err
	}
	e.Tags = resolved
	return nil
}
