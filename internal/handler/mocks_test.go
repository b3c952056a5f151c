package handler

import (
	"context"
	"io"
	"net/http"

	"github.com/SnoopySong/nexaweb/internal/model"
	"github.com/SnoopySong/nexaweb/pkg/auth"
)

// ---------------------------------------------------------------------------
// Mock MessageService
// ---------------------------------------------------------------------------

type mockMessageService struct {
	submitFunc    func(ctx context.Context, msg model.NewMessage) (*model.Message, error)
	listFunc      func(ctx context.Context) ([]*model.Message, error)
	markReadFunc  func(ctx context.Context, id string) (*model.Message, error)
	deleteFunc    func(ctx context.Context, id string) (bool, error)
	tagsFunc      func(ctx context.Context, messageID string) ([]*model.Tag, error)
	tagMapFunc    func(ctx context.Context) (map[string][]*model.Tag, error)
	addTagFunc    func(ctx context.Context, messageID, tagID string) error
	removeTagFunc func(ctx context.Context, messageID, tagID string) error
	exportFunc    func(ctx context.Context, w io.Writer) error
}

func (m *mockMessageService) Submit(ctx context.Context, msg model.NewMessage) (*model.Message, error) {
	if m.submitFunc != nil {
		return m.submitFunc(ctx, msg)
	}
	return &model.Message{ID: "m-1", Name: msg.Name, Email: msg.Email, Message: msg.Message}, nil
}
func (m *mockMessageService) List(ctx context.Context) ([]*model.Message, error) {
	if m.listFunc != nil {
		return m.listFunc(ctx)
	}
	return nil, nil
}
func (m *mockMessageService) MarkRead(ctx context.Context, id string) (*model.Message, error) {
	if m.markReadFunc != nil {
		return m.markReadFunc(ctx, id)
	}
	return nil, nil
}
func (m *mockMessageService) Delete(ctx context.Context, id string) (bool, error) {
	if m.deleteFunc != nil {
		return m.deleteFunc(ctx, id)
	}
	return false, nil
}
func (m *mockMessageService) Tags(ctx context.Context, messageID string) ([]*model.Tag, error) {
	if m.tagsFunc != nil {
		return m.tagsFunc(ctx, messageID)
	}
	return nil, nil
}
func (m *mockMessageService) TagMap(ctx context.Context) (map[string][]*model.Tag, error) {
	if m.tagMapFunc != nil {
		return m.tagMapFunc(ctx)
	}
	return nil, nil
}
func (m *mockMessageService) AddTag(ctx context.Context, messageID, tagID string) error {
	if m.addTagFunc != nil {
		return m.addTagFunc(ctx, messageID, tagID)
	}
	return nil
}
func (m *mockMessageService) RemoveTag(ctx context.Context, messageID, tagID string) error {
	if m.removeTagFunc != nil {
		return m.removeTagFunc(ctx, messageID, tagID)
	}
	return nil
}
func (m *mockMessageService) ExportCSV(ctx context.Context, w io.Writer) error {
	if m.exportFunc != nil {
		return m.exportFunc(ctx, w)
	}
	return nil
}

// ---------------------------------------------------------------------------
// Mock TagService / TemplateService / AnalyticsService
// ---------------------------------------------------------------------------

type mockTagService struct {
	listFunc   func(ctx context.Context) ([]*model.Tag, error)
	createFunc func(ctx context.Context, name, color string) (*model.Tag, error)
	deleteFunc func(ctx context.Context, id string) (bool, error)
}

func (m *mockTagService) List(ctx context.Context) ([]*model.Tag, error) {
	if m.listFunc != nil {
		return m.listFunc(ctx)
	}
	return nil, nil
}
func (m *mockTagService) Create(ctx context.Context, name, color string) (*model.Tag, error) {
	if m.createFunc != nil {
		return m.createFunc(ctx, name, color)
	}
	return &model.Tag{ID: "t-1", Name: name, Color: color}, nil
}
func (m *mockTagService) Delete(ctx context.Context, id string) (bool, error) {
	if m.deleteFunc != nil {
		return m.deleteFunc(ctx, id)
	}
	return false, nil
}

type mockTemplateService struct {
	listFunc   func(ctx context.Context) ([]*model.Template, error)
	getFunc    func(ctx context.Context, id string) (*model.Template, error)
	createFunc func(ctx context.Context, name, subject, content string) (*model.Template, error)
	updateFunc func(ctx context.Context, id string, patch model.TemplatePatch) (*model.Template, error)
	deleteFunc func(ctx context.Context, id string) (bool, error)
}

func (m *mockTemplateService) List(ctx context.Context) ([]*model.Template, error) {
	if m.listFunc != nil {
		return m.listFunc(ctx)
	}
	return nil, nil
}
func (m *mockTemplateService) Get(ctx context.Context, id string) (*model.Template, error) {
	if m.getFunc != nil {
		return m.getFunc(ctx, id)
	}
	return nil, nil
}
func (m *mockTemplateService) Create(ctx context.Context, name, subject, content string) (*model.Template, error) {
	if m.createFunc != nil {
		return m.createFunc(ctx, name, subject, content)
	}
	return &model.Template{ID: "tpl-1", Name: name, Subject: subject, Content: content}, nil
}
func (m *mockTemplateService) Update(ctx context.Context, id string, patch model.TemplatePatch) (*model.Template, error) {
	if m.updateFunc != nil {
		return m.updateFunc(ctx, id, patch)
	}
	return nil, nil
}
func (m *mockTemplateService) Delete(ctx context.Context, id string) (bool, error) {
	if m.deleteFunc != nil {
		return m.deleteFunc(ctx, id)
	}
	return false, nil
}

type mockAnalyticsService struct {
	recordFunc func(ctx context.Context, path string, userAgent, referrer *string) (*model.PageView, error)
	statsFunc  func(ctx context.Context, windowDays int) (*model.PageViewStats, error)
}

func (m *mockAnalyticsService) RecordPageView(ctx context.Context, path string, userAgent, referrer *string) (*model.PageView, error) {
	if m.recordFunc != nil {
		return m.recordFunc(ctx, path, userAgent, referrer)
	}
	return &model.PageView{Path: path}, nil
}
func (m *mockAnalyticsService) Stats(ctx context.Context, windowDays int) (*model.PageViewStats, error) {
	if m.statsFunc != nil {
		return m.statsFunc(ctx, windowDays)
	}
	return &model.PageViewStats{ByPath: []model.PathCount{}}, nil
}

// ---------------------------------------------------------------------------
// Mock AuthService
// ---------------------------------------------------------------------------

type mockAuthService struct {
	loginFunc       func(ctx context.Context, email, password string) (*model.Session, *model.User, error)
	registerFunc    func(ctx context.Context, email, password string) error
	logoutFunc      func(ctx context.Context, token string) error
	verifyAdminFunc func(ctx context.Context, token, secret string) (bool, error)
	currentUserFunc func(ctx context.Context, userID string) (*model.User, error)
}

func (m *mockAuthService) Login(ctx context.Context, email, password string) (*model.Session, *model.User, error) {
	if m.loginFunc != nil {
		return m.loginFunc(ctx, email, password)
	}
	return nil, nil, nil
}
func (m *mockAuthService) Register(ctx context.Context, email, password string) error {
	if m.registerFunc != nil {
		return m.registerFunc(ctx, email, password)
	}
	return nil
}
func (m *mockAuthService) Logout(ctx context.Context, token string) error {
	if m.logoutFunc != nil {
		return m.logoutFunc(ctx, token)
	}
	return nil
}
func (m *mockAuthService) VerifyAdmin(ctx context.Context, token, secret string) (bool, error) {
	if m.verifyAdminFunc != nil {
		return m.verifyAdminFunc(ctx, token, secret)
	}
	return false, nil
}
func (m *mockAuthService) CurrentUser(ctx context.Context, userID string) (*model.User, error) {
	if m.currentUserFunc != nil {
		return m.currentUserFunc(ctx, userID)
	}
	return nil, nil
}

// withPrincipal attaches an authenticated caller to the request, as RequireAuth would.
func withPrincipal(r *http.Request, isAdmin bool) *http.Request {
	p := &auth.Principal{Token: "tok-1", UserID: "user-1", Email: "admin@example.com", IsAdmin: isAdmin}
	return r.WithContext(auth.WithPrincipal(r.Context(), p))
}
