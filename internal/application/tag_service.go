package application

import (
	"context"

	"github.com/urosevicvuk/raf-event-booker/internal/domain/event"
	"github.com/urosevicvuk/raf-event-booker/internal/domain/tag"
)

type TagService struct {
	tagRepo   tag.Repository
	eventRepo event.Repository
}

func NewTagService(tagRepo tag.Repository, eventRepo event.Repository) *TagService {
	return &TagService{tagRepo: tagRepo, eventRepo: eventRepo}
}

// CreateTag は名前でタグを取得し、無ければ作成する
func (s *TagService) CreateTag(ctx context.Context, name string) (*tag.Tag, error) {
	name = tag.Normalize(name)
	if name == "" {
		return nil, tag.ErrNameRequired
	}
	return s.tagRepo.FindOrCreate(ctx, name)
}

func (s *TagService) GetTag(ctx context.Context, id string) (*tag.Tag, error) {
	return s.tagRepo.GetByID(ctx, id)
}

func (s *TagService) ListTags(ctx context.Context) ([]*tag.Tag, error) {
	return s.tagRepo.List(ctx)
}

func (s *TagService) ListEventTags(ctx context.Context, eventID string) ([]*tag.Tag, error) {
	exists, err := s.eventRepo.Exists(ctx, eventID)
	if err != nil {
		return nil, err
	}
	if !exists {
		return nil, event.ErrEventNotFound
	}
	return s.tagRepo.ListByEvent(ctx, eventID)
}

func (s *TagService) ListTagEvents(ctx context.Context, tagID string, limit, offset int) ([]*event.Event, error) {
	if _, err := s.tagRepo.GetByID(ctx, tagID); err != nil {
		return nil, err
	}
	limit, offset = normalizePage(limit, offset)
	return s.eventRepo.List(ctx, event.Filter{TagID: tagID}, event.OrderLatest, limit, offset)
}
