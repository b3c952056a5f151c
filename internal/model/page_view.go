package model

import "time"

// PageView is one recorded visit to a path. Rows are append-only.
type PageView struct {
	ID        string    `json:"id"`
	Path      string    `json:"path"`
	UserAgent *string   `json:"userAgent"`
	Referrer  *string   `json:"referrer"`
	CreatedAt time.Time `json:"createdAt"`
}

// PathCount is the number of views of one path.
type PathCount struct {
	Path  string `json:"path"`
	Count int64  `json:"count"`
}

// PageViewStats is the traffic aggregate shown on the admin dashboard.
type PageViewStats struct {
	Total     int64       `json:"total"`
	Today     int64       `json:"today"`
	ThisWeek  int64       `json:"thisWeek"`
	ThisMonth int64       `json:"thisMonth"`
	ByPath    []PathCount `json:"byPath"`
}

// DefaultStatsWindowDays is the default length of the "this month" window.
const DefaultStatsWindowDays = 30

// StatsWindows are the lower bounds of the counting windows.
type StatsWindows struct {
	Today time.Time
	Week  time.Time
	Month time.Time
}

// WindowsAt computes the counting windows for the given instant.
// Today starts at local midnight of now's date; the week and month
// windows roll back 7 and windowDays days from that midnight.
func WindowsAt(now time.Time, windowDays int) StatsWindows {
	if windowDays <= 0 {
		windowDays = DefaultStatsWindowDays
	}
	today := time.Date(now.Year(), now.Month(), now.Day(), 0, 0, 0, 0, now.Location())
	return StatsWindows{
		Today: today,
		Week:  today.AddDate(0, 0, -7),
		Month: today.AddDate(0, 0, -windowDays),
	}
}
