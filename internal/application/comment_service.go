package application

import (
	"context"
	"strings"

	"github.com/urosevicvuk/raf-event-booker/internal/domain/comment"
	"github.com/urosevicvuk/raf-event-booker/internal/domain/event"
)

type CommentService struct {
	commentRepo comment.Repository
	eventRepo   event.Repository
}

func NewCommentService(commentRepo comment.Repository, eventRepo event.Repository) *CommentService {
	return &CommentService{commentRepo: commentRepo, eventRepo: eventRepo}
}

// AddComment はイベントにコメントを追加する。イベントが無ければ event.ErrEventNotFound
func (s *CommentService) AddComment(ctx context.Context, eventID, authorName, text string) (*comment.Comment, error) {
	c := comment.NewComment(eventID, strings.TrimSpace(authorName), strings.TrimSpace(text))
	if err := c.Validate(); err != nil {
		return nil, err
	}
	if err := s.ensureEvent(ctx, eventID); err != nil {
		return nil, err
	}
	if err := s.commentRepo.Create(ctx, c); err != nil {
		return nil, err
	}
	return c, nil
}

func (s *CommentService) GetComment(ctx context.Context, id string) (*comment.Comment, error) {
	return s.commentRepo.GetByID(ctx, id)
}

func (s *CommentService) ListEventComments(ctx context.Context, eventID string, limit, offset int) ([]*comment.Comment, error) {
	if err := s.ensureEvent(ctx, eventID); err != nil {
		return nil, err
	}
	limit, offset = normalizePage(limit, offset)
	return s.commentRepo.ListByEvent(ctx, eventID, limit, offset)
}

func (s *CommentService) ensureEvent(ctx context.Context, eventID string) error {
	exists, err := s.eventRepo.Exists(ctx, eventID)
	if err != nil {
		return err
	}
	if !exists {
		return event.ErrEventNotFound
	}
	return nil
}
