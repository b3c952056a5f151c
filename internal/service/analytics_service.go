package service

import (
	"context"

	"github.com/SnoopySong/nexaweb/internal/model"
	"github.com/SnoopySong/nexaweb/internal/repository"
)

// MaxStatsWindowDays bounds the "this month" window.
const MaxStatsWindowDays = 365

// AnalyticsService records page views and aggregates them for the dashboard.
type AnalyticsService interface {
	RecordPageView(ctx context.Context, path string, userAgent, referrer *string) (*model.PageView, error)
	// Stats clamps windowDays to [1, MaxStatsWindowDays]; zero means the default.
	Stats(ctx context.Context, windowDays int) (*model.PageViewStats, error)
}

type analyticsServiceImpl struct {
	repo repository.PageViewRepository
}

// NewAnalyticsService creates an AnalyticsService.
func NewAnalyticsService(repo repository.PageViewRepository) AnalyticsService {
	return &analyticsServiceImpl{repo: repo}
}

func (s *analyticsServiceImpl) RecordPageView(ctx context.Context, path string, userAgent, referrer *string) (*model.PageView, error) {
	return s.repo.RecordPageView(ctx, path, nilIfEmpty(userAgent), nilIfEmpty(referrer))
}

// ClampWindowDays normalizes the requested window length.
func ClampWindowDays(days int) int {
	switch {
	case days == 0:
		return model.DefaultStatsWindowDays
	case days < 1:
		return 1
	case days > MaxStatsWindowDays:
		return MaxStatsWindowDays
	}
	return days
}

func (s *analyticsServiceImpl) Stats(ctx context.Context, windowDays int) (*model.PageViewStats, error) {
	return s.repo.GetPageViewStats(ctx, ClampWindowDays(windowDays))
}
