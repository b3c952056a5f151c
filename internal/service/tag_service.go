package service

import (
	"context"

	"github.com/SnoopySong/nexaweb/internal/model"
	"github.com/SnoopySong/nexaweb/internal/repository"
)

// TagService はタグ管理のビジネスロジックインターフェース
type TagService interface {
	List(ctx context.Context) ([]*model.Tag, error)
	// Create applies model.DefaultTagColor when color is empty.
	// A name already in use yields repository.ErrDuplicate.
	Create(ctx context.Context, name, color string) (*model.Tag, error)
	// Delete also removes the tag from every message.
	Delete(ctx context.Context, id string) (bool, error)
}

type tagServiceImpl struct {
	repo repository.TagRepository
}

// NewTagService は TagService を生成する
func NewTagService(repo repository.TagRepository) TagService {
	return &tagServiceImpl{repo: repo}
}

func (s *tagServiceImpl) List(ctx context.Context) ([]*model.Tag, error) {
	return s.repo.ListTags(ctx)
}

func (s *tagServiceImpl) Create(ctx context.Context, name, color string) (*model.Tag, error) {
	if color == "" {
		color = model.DefaultTagColor
	}
	return s.repo.CreateTag(ctx, name, color)
}

func (s *tagServiceImpl) Delete(ctx context.Context, id string) (bool, error) {
	return s.repo.DeleteTag(ctx, id)
}
