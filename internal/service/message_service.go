package service

import (
	"context"
	"io"
	"time"

	"github.com/SnoopySong/nexaweb/internal/model"
)

// MessageService defines the business logic for contact messages and their tags.
type MessageService interface {
	// Submit stores a new contact message. The stored row is always unread
	// with a server-assigned id and timestamp.
	Submit(ctx context.Context, msg model.NewMessage) (*model.Message, error)
	List(ctx context.Context) ([]*model.Message, error)
	// MarkRead returns nil when the id is unknown.
	MarkRead(ctx context.Context, id string) (*model.Message, error)
	Delete(ctx context.Context, id string) (bool, error)

	Tags(ctx context.Context, messageID string) ([]*model.Tag, error)
	TagMap(ctx context.Context) (map[string][]*model.Tag, error)
	AddTag(ctx context.Context, messageID, tagID string) error
	RemoveTag(ctx context.Context, messageID, tagID string) error

	// ExportCSV writes every message as a spreadsheet-friendly CSV document.
	ExportCSV(ctx context.Context, w io.Writer) error
}

// ExportFilename is the attachment name of a CSV export produced at t.
func ExportFilename(t time.Time) string {
	return "messages-" + t.UTC().Format("2006-01-02") + ".csv"
}
