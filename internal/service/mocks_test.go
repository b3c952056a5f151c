package service

import (
	"context"

	"github.com/SnoopySong/nexaweb/internal/model"
	"github.com/SnoopySong/nexaweb/pkg/supabase"
)

// ---------------------------------------------------------------------------
// Mock SessionRepository
// ---------------------------------------------------------------------------

type mockSessionRepository struct {
	createFunc        func(ctx context.Context, s *model.Session) error
	findByTokenFunc   func(ctx context.Context, token string) (*model.Session, error)
	setAdminFunc      func(ctx context.Context, token string, isAdmin bool) (bool, error)
	deleteByTokenFunc func(ctx context.Context, token string) error
	deleteExpiredFunc func(ctx context.Context) (int64, error)
}

func (m *mockSessionRepository) Create(ctx context.Context, s *model.Session) error {
	if m.createFunc != nil {
		return m.createFunc(ctx, s)
	}
	return nil
}
func (m *mockSessionRepository) FindByToken(ctx context.Context, token string) (*model.Session, error) {
	if m.findByTokenFunc != nil {
		return m.findByTokenFunc(ctx, token)
	}
	return nil, nil
}
func (m *mockSessionRepository) SetAdmin(ctx context.Context, token string, isAdmin bool) (bool, error) {
	if m.setAdminFunc != nil {
		return m.setAdminFunc(ctx, token, isAdmin)
	}
	return true, nil
}
func (m *mockSessionRepository) DeleteByToken(ctx context.Context, token string) error {
	if m.deleteByTokenFunc != nil {
		return m.deleteByTokenFunc(ctx, token)
	}
	return nil
}
func (m *mockSessionRepository) DeleteExpired(ctx context.Context) (int64, error) {
	if m.deleteExpiredFunc != nil {
		return m.deleteExpiredFunc(ctx)
	}
	return 0, nil
}

// ---------------------------------------------------------------------------
// Mock UserRepository
// ---------------------------------------------------------------------------

type mockUserRepository struct {
	upsertFunc   func(ctx context.Context, user *model.User) error
	findByIDFunc func(ctx context.Context, id string) (*model.User, error)
}

func (m *mockUserRepository) UpsertUser(ctx context.Context, user *model.User) error {
	if m.upsertFunc != nil {
		return m.upsertFunc(ctx, user)
	}
	return nil
}
func (m *mockUserRepository) FindUserByID(ctx context.Context, id string) (*model.User, error) {
	if m.findByIDFunc != nil {
		return m.findByIDFunc(ctx, id)
	}
	return nil, nil
}

// ---------------------------------------------------------------------------
// Mock MessageRepository
// ---------------------------------------------------------------------------

type mockMessageRepository struct {
	createFunc   func(ctx context.Context, msg model.NewMessage) (*model.Message, error)
	listFunc     func(ctx context.Context) ([]*model.Message, error)
	getFunc      func(ctx context.Context, id string) (*model.Message, error)
	markReadFunc func(ctx context.Context, id string) (*model.Message, error)
	deleteFunc   func(ctx context.Context, id string) (bool, error)
}

func (m *mockMessageRepository) CreateMessage(ctx context.Context, msg model.NewMessage) (*model.Message, error) {
	if m.createFunc != nil {
		return m.createFunc(ctx, msg)
	}
	return &model.Message{}, nil
}
func (m *mockMessageRepository) ListMessages(ctx context.Context) ([]*model.Message, error) {
	if m.listFunc != nil {
		return m.listFunc(ctx)
	}
	return nil, nil
}
func (m *mockMessageRepository) GetMessage(ctx context.Context, id string) (*model.Message, error) {
	if m.getFunc != nil {
		return m.getFunc(ctx, id)
	}
	return nil, nil
}
func (m *mockMessageRepository) MarkMessageRead(ctx context.Context, id string) (*model.Message, error) {
	if m.markReadFunc != nil {
		return m.markReadFunc(ctx, id)
	}
	return nil, nil
}
func (m *mockMessageRepository) DeleteMessage(ctx context.Context, id string) (bool, error) {
	if m.deleteFunc != nil {
		return m.deleteFunc(ctx, id)
	}
	return false, nil
}

// ---------------------------------------------------------------------------
// Mock TagRepository
// ---------------------------------------------------------------------------

type mockTagRepository struct {
	listFunc          func(ctx context.Context) ([]*model.Tag, error)
	createFunc        func(ctx context.Context, name, color string) (*model.Tag, error)
	deleteFunc        func(ctx context.Context, id string) (bool, error)
	messageTagsFunc   func(ctx context.Context, messageID string) ([]*model.Tag, error)
	tagsByMessageFunc func(ctx context.Context) (map[string][]*model.Tag, error)
	addFunc           func(ctx context.Context, messageID, tagID string) error
	removeFunc        func(ctx context.Context, messageID, tagID string) error
}

func (m *mockTagRepository) ListTags(ctx context.Context) ([]*model.Tag, error) {
	if m.listFunc != nil {
		return m.listFunc(ctx)
	}
	return nil, nil
}
func (m *mockTagRepository) CreateTag(ctx context.Context, name, color string) (*model.Tag, error) {
	if m.createFunc != nil {
		return m.createFunc(ctx, name, color)
	}
	return &model.Tag{Name: name, Color: color}, nil
}
func (m *mockTagRepository) DeleteTag(ctx context.Context, id string) (bool, error) {
	if m.deleteFunc != nil {
		return m.deleteFunc(ctx, id)
	}
	return false, nil
}
func (m *mockTagRepository) GetMessageTags(ctx context.Context, messageID string) ([]*model.Tag, error) {
	if m.messageTagsFunc != nil {
		return m.messageTagsFunc(ctx, messageID)
	}
	return nil, nil
}
func (m *mockTagRepository) TagsByMessage(ctx context.Context) (map[string][]*model.Tag, error) {
	if m.tagsByMessageFunc != nil {
		return m.tagsByMessageFunc(ctx)
	}
	return map[string][]*model.Tag{}, nil
}
func (m *mockTagRepository) AddTagToMessage(ctx context.Context, messageID, tagID string) error {
	if m.addFunc != nil {
		return m.addFunc(ctx, messageID, tagID)
	}
	return nil
}
func (m *mockTagRepository) RemoveTagFromMessage(ctx context.Context, messageID, tagID string) error {
	if m.removeFunc != nil {
		return m.removeFunc(ctx, messageID, tagID)
	}
	return nil
}

// ---------------------------------------------------------------------------
// Mock TemplateRepository
// ---------------------------------------------------------------------------

type mockTemplateRepository struct {
	listFunc   func(ctx context.Context) ([]*model.Template, error)
	getFunc    func(ctx context.Context, id string) (*model.Template, error)
	createFunc func(ctx context.Context, name, subject, content string) (*model.Template, error)
	updateFunc func(ctx context.Context, id string, patch model.TemplatePatch) (*model.Template, error)
	deleteFunc func(ctx context.Context, id string) (bool, error)
}

func (m *mockTemplateRepository) ListTemplates(ctx context.Context) ([]*model.Template, error) {
	if m.listFunc != nil {
		return m.listFunc(ctx)
	}
	return nil, nil
}
func (m *mockTemplateRepository) GetTemplate(ctx context.Context, id string) (*model.Template, error) {
	if m.getFunc != nil {
		return m.getFunc(ctx, id)
	}
	return nil, nil
}
func (m *mockTemplateRepository) CreateTemplate(ctx context.Context, name, subject, content string) (*model.Template, error) {
	if m.createFunc != nil {
		return m.createFunc(ctx, name, subject, content)
	}
	return &model.Template{Name: name, Subject: subject, Content: content}, nil
}
func (m *mockTemplateRepository) UpdateTemplate(ctx context.Context, id string, patch model.TemplatePatch) (*model.Template, error) {
	if m.updateFunc != nil {
		return m.updateFunc(ctx, id, patch)
	}
	return nil, nil
}
func (m *mockTemplateRepository) DeleteTemplate(ctx context.Context, id string) (bool, error) {
	if m.deleteFunc != nil {
		return m.deleteFunc(ctx, id)
	}
	return false, nil
}

// ---------------------------------------------------------------------------
// Mock PageViewRepository
// ---------------------------------------------------------------------------

type mockPageViewRepository struct {
	recordFunc func(ctx context.Context, path string, userAgent, referrer *string) (*model.PageView, error)
	statsFunc  func(ctx context.Context, windowDays int) (*model.PageViewStats, error)
}

func (m *mockPageViewRepository) RecordPageView(ctx context.Context, path string, userAgent, referrer *string) (*model.PageView, error) {
	if m.recordFunc != nil {
		return m.recordFunc(ctx, path, userAgent, referrer)
	}
	return &model.PageView{Path: path}, nil
}
func (m *mockPageViewRepository) GetPageViewStats(ctx context.Context, windowDays int) (*model.PageViewStats, error) {
	if m.statsFunc != nil {
		return m.statsFunc(ctx, windowDays)
	}
	return &model.PageViewStats{ByPath: []model.PathCount{}}, nil
}

// ---------------------------------------------------------------------------
// Mock IdentityProvider
// ---------------------------------------------------------------------------

type mockIdentityProvider struct {
	signInFunc func(ctx context.Context, email, password string) (*supabase.User, error)
	signUpFunc func(ctx context.Context, email, password string) error
}

func (m *mockIdentityProvider) SignInWithPassword(ctx context.Context, email, password string) (*supabase.User, error) {
	if m.signInFunc != nil {
		return m.signInFunc(ctx, email, password)
	}
	return nil, supabase.ErrInvalidCredentials
}
func (m *mockIdentityProvider) SignUp(ctx context.Context, email, password string) error {
	if m.signUpFunc != nil {
		return m.signUpFunc(ctx, email, password)
	}
	return nil
}

func strPtr(s string) *string { return &s }
