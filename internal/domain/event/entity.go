package event

import "time"

// Event はイベントエンティティを表す
// Views / LikeCount / DislikeCount は増減操作でのみ変化し、クライアントからは設定できない
type Event struct {
	ID           string
	Title        string
	Description  string
	Location     string
	EventDate    time.Time
	AuthorID     string
	CategoryID   string
	MaxCapacity  *int // nil は定員なし
	Views        int
	LikeCount    int
	DislikeCount int
	Tags         []string
	CreatedAt    time.Time
	UpdatedAt    time.Time
}

// NewEvent は新しいイベントを作成する
func NewEvent(title, description, location string, eventDate time.Time, authorID, categoryID string, maxCapacity *int) *Event {
	now := time.Now()
	return &Event{
		Title:       title,
		Description: description,
		Location:    location,
		EventDate:   eventDate,
		AuthorID:    authorID,
		CategoryID:  categoryID,
		MaxCapacity: maxCapacity,
		CreatedAt:   now,
		UpdatedAt:   now,
	}
}

// HasCapacityLimit は定員が設定されているかを返す
func (e *Event) HasCapacityLimit() bool {
	return e.MaxCapacity != nil && *e.MaxCapacity > 0
}

// IsFull は現在の登録数で満員かを返す
func (e *Event) IsFull(registered int) bool {
	return e.HasCapacityLimit() && registered >= *e.MaxCapacity
}

// Validate はイベントの検証を行う
func (e *Event) Validate() error {
	if e.Title == "" {
		return ErrTitleRequired
	}
	if e.Description == "" {
		return ErrDescriptionRequired
	}
	if e.Location == "" {
		return ErrLocationRequired
	}
	if e.EventDate.IsZero() {
		return ErrEventDateRequired
	}
	if e.CategoryID == "" {
		return ErrCategoryRequired
	}
	if e.MaxCapacity != nil && *e.MaxCapacity < 0 {
		return ErrInvalidCapacity
	}
	return nil
}
