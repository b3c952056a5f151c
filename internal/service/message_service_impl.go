package service

import (
	"context"
	"io"

	"github.com/SnoopySong/nexaweb/internal/model"
	"github.com/SnoopySong/nexaweb/internal/repository"
)

// messageServiceImpl is the production implementation of MessageService.
type messageServiceImpl struct {
	messages repository.MessageRepository
	tags     repository.TagRepository
}

// NewMessageService creates a MessageService backed by the given repositories.
func NewMessageService(messages repository.MessageRepository, tags repository.TagRepository) MessageService {
	return &messageServiceImpl{messages: messages, tags: tags}
}

// nilIfEmpty maps an empty optional field to NULL.
func nilIfEmpty(s *string) *string {
	if s == nil || *s == "" {
		return nil
	}
	return s
}

func (s *messageServiceImpl) Submit(ctx context.Context, msg model.NewMessage) (*model.Message, error) {
	msg.Phone = nilIfEmpty(msg.Phone)
	msg.Budget = nilIfEmpty(msg.Budget)
	msg.ProjectType = nilIfEmpty(msg.ProjectType)
	return s.messages.CreateMessage(ctx, msg)
}

func (s *messageServiceImpl) List(ctx context.Context) ([]*model.Message, error) {
	return s.messages.ListMessages(ctx)
}

func (s *messageServiceImpl) MarkRead(ctx context.Context, id string) (*model.Message, error) {
	return s.messages.MarkMessageRead(ctx, id)
}

func (s *messageServiceImpl) Delete(ctx context.Context, id string) (bool, error) {
	return s.messages.DeleteMessage(ctx, id)
}

func (s *messageServiceImpl) Tags(ctx context.Context, messageID string) ([]*model.Tag, error) {
	return s.tags.GetMessageTags(ctx, messageID)
}

func (s *messageServiceImpl) TagMap(ctx context.Context) (map[string][]*model.Tag, error) {
	return s.tags.TagsByMessage(ctx)
}

func (s *messageServiceImpl) AddTag(ctx context.Context, messageID, tagID string) error {
	return s.tags.AddTagToMessage(ctx, messageID, tagID)
}

func (s *messageServiceImpl) RemoveTag(ctx context.Context, messageID, tagID string) error {
	return s.tags.RemoveTagFromMessage(ctx, messageID, tagID)
}

func (s *messageServiceImpl) ExportCSV(ctx context.Context, w io.Writer) error {
	messages, err := s.messages.ListMessages(ctx)
	if err != nil {
		return err
	}
	return writeMessagesCSV(w, messages)
}
