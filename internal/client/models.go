// ABOUTME: Wire types for Pulse API resources
// ABOUTME: Mirrors the analytics and audit record shapes served by the backend

package client

import "time"

// AnalyticsEvent is a single tracked event from the analytics pipeline
type AnalyticsEvent struct {
	ID         string            `json:"id,omitempty"`
	Timestamp  time.Time         `json:"timestamp"`
	UserID     uint64            `json:"user_id"`
	Event      string            `json:"event"`
	Metadata   string            `json:"metadata,omitempty"`
	Properties map[string]string `json:"properties,omitempty"`
}

// Well-known analytics event names
const (
	EventPageView   = "page_view"
	EventUserSignup = "user_signup"
	EventUserLogin  = "user_login"
	EventUserLogout = "user_logout"
)

// AuditLog is a single entry from the audit trail
type AuditLog struct {
	ID         string    `json:"id,omitempty"`
	Timestamp  time.Time `json:"timestamp"`
	UserID     uint64    `json:"user_id"`
	Action     string    `json:"action"`
	Resource   string    `json:"resource"`
	ResourceID string    `json:"resource_id"`
	Details    string    `json:"details,omitempty"`
	IPAddress  string    `json:"ip_address,omitempty"`
	UserAgent  string    `json:"user_agent,omitempty"`
}

// Well-known audit actions
const (
	ActionCreate = "create"
	ActionRead   = "read"
	ActionUpdate = "update"
	ActionDelete = "delete"
	ActionLogin  = "login"
	ActionLogout = "logout"
)
