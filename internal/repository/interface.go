package repository

import (
	"context"

	"github.com/SnoopySong/nexaweb/internal/model"
)

// DB は DB 接続の生存確認を行うインターフェース
type DB interface {
	Ping(ctx context.Context) error
}

// MessageRepository persists contact messages.
// Lookups and updates by id return a nil message (and nil error) when the id is unknown.
type MessageRepository interface {
	CreateMessage(ctx context.Context, msg model.NewMessage) (*model.Message, error)
	ListMessages(ctx context.Context) ([]*model.Message, error)
	GetMessage(ctx context.Context, id string) (*model.Message, error)
	MarkMessageRead(ctx context.Context, id string) (*model.Message, error)
	DeleteMessage(ctx context.Context, id string) (bool, error)
}

// TagRepository persists tags and their association with messages.
type TagRepository interface {
	ListTags(ctx context.Context) ([]*model.Tag, error)
	CreateTag(ctx context.Context, name, color string) (*model.Tag, error)
	DeleteTag(ctx context.Context, id string) (bool, error)

	GetMessageTags(ctx context.Context, messageID string) ([]*model.Tag, error)
	// TagsByMessage returns every association as a message id → tags map.
	TagsByMessage(ctx context.Context) (map[string][]*model.Tag, error)
	// AddTagToMessage is idempotent. It returns ErrNotFound when either side is missing.
	AddTagToMessage(ctx context.Context, messageID, tagID string) error
	RemoveTagFromMessage(ctx context.Context, messageID, tagID string) error
}

// TemplateRepository persists reply templates.
type TemplateRepository interface {
	ListTemplates(ctx context.Context) ([]*model.Template, error)
	GetTemplate(ctx context.Context, id string) (*model.Template, error)
	CreateTemplate(ctx context.Context, name, subject, content string) (*model.Template, error)
	UpdateTemplate(ctx context.Context, id string, patch model.TemplatePatch) (*model.Template, error)
	DeleteTemplate(ctx context.Context, id string) (bool, error)
}

// PageViewRepository records and aggregates page views.
type PageViewRepository interface {
	RecordPageView(ctx context.Context, path string, userAgent, referrer *string) (*model.PageView, error)
	GetPageViewStats(ctx context.Context, windowDays int) (*model.PageViewStats, error)
}

// UserRepository persists identity-provider users.
type UserRepository interface {
	UpsertUser(ctx context.Context, user *model.User) error
	FindUserByID(ctx context.Context, id string) (*model.User, error)
}

// Store is the complete data access layer. It is the only component
// allowed to issue queries.
type Store interface {
	DB
	MessageRepository
	TagRepository
	TemplateRepository
	PageViewRepository
	UserRepository
	Sessions() SessionRepository
	Close()
}
