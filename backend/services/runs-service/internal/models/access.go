package models

import "time"

// Access actions recorded in the access log.
const (
	ActionList     = "list"
	ActionView     = "view"
	ActionChart    = "chart"
	ActionDownload = "download"
)

// AccessEvent is one served request against the run archive.
type AccessEvent struct {
	ID         int64     `json:"id"`
	Action     string    `json:"action"`
	Run        string    `json:"run,omitempty"`
	Subject    string    `json:"subject,omitempty"`
	RemoteAddr string    `json:"remote_addr,omitempty"`
	CreatedAt  time.Time `json:"created_at"`
}
