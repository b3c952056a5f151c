package service

import (
	"context"

	"github.com/SnoopySong/nexaweb/internal/model"
	"github.com/SnoopySong/nexaweb/internal/repository"
)

// TemplateService は返信テンプレートのビジネスロジックインターフェース
type TemplateService interface {
	List(ctx context.Context) ([]*model.Template, error)
	// Get returns nil when the id is unknown.
	Get(ctx context.Context, id string) (*model.Template, error)
	Create(ctx context.Context, name, subject, content string) (*model.Template, error)
	// Update returns nil when the id is unknown. An empty patch returns the
	// template unchanged.
	Update(ctx context.Context, id string, patch model.TemplatePatch) (*model.Template, error)
	Delete(ctx context.Context, id string) (bool, error)
}

type templateServiceImpl struct {
	repo repository.TemplateRepository
}

// NewTemplateService は TemplateService を生成する
func NewTemplateService(repo repository.TemplateRepository) TemplateService {
	return &templateServiceImpl{repo: repo}
}

func (s *templateServiceImpl) List(ctx context.Context) ([]*model.Template, error) {
	return s.repo.ListTemplates(ctx)
}

func (s *templateServiceImpl) Get(ctx context.Context, id string) (*model.Template, error) {
	return s.repo.GetTemplate(ctx, id)
}

func (s *templateServiceImpl) Create(ctx context.Context, name, subject, content string) (*model.Template, error) {
	return s.repo.CreateTemplate(ctx, name, subject, content)
}

func (s *templateServiceImpl) Update(ctx context.Context, id string, patch model.TemplatePatch) (*model.Template, error) {
	if patch.IsEmpty() {
		return s.repo.GetTemplate(ctx, id)
	}
	return s.repo.UpdateTemplate(ctx, id, patch)
}

func (s *templateServiceImpl) Delete(ctx context.Context, id string) (bool, error) {
	return s.repo.DeleteTemplate(ctx, id)
}
