package model

import "time"

// Template is a canned reply (subject + body) used to compose mailto: links.
type Template struct {
	ID        string    `json:"id"`
	Name      string    `json:"name"`
	Subject   string    `json:"subject"`
	Content   string    `json:"content"`
	CreatedAt time.Time `json:"createdAt"`
}

// TemplatePatch holds the fields that can be updated on a template.
// Nil fields are left untouched.
type TemplatePatch struct {
	Name    *string
	Subject *string
	Content *string
}

// IsEmpty reports whether the patch changes nothing.
func (p TemplatePatch) IsEmpty() bool {
	return p.Name == nil && p.Subject == nil && p.Content == nil
}
