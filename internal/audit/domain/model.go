// Package domain defines the audit trail of outbound AvaTax calls. One row
// per call, success or failure, so service behavior is diagnosable without
// reproducing it.
package domain

import (
	"context"
	"errors"
	"time"

	"github.com/bwmarrin/snowflake"

	"github.com/smallbiznis/taxgate/pkg/db/pagination"
)

var (
	ErrInvalidPageToken = errors.New("invalid_page_token")
	ErrInvalidTimeRange = errors.New("invalid_time_range")
)

// APILog is one recorded AvaTax call.
type APILog struct {
	ID             snowflake.ID `gorm:"primaryKey" json:"id"`
	RequestID      string       `gorm:"column:request_id;type:text;not null" json:"request_id"`
	Operation      string       `gorm:"type:text;not null;index" json:"operation"`
	RequestURI     string       `gorm:"column:request_uri;type:text;not null" json:"request_uri"`
	RequestBody    string       `gorm:"column:request_body;type:text" json:"request_body"`
	ResponseStatus int          `gorm:"column:response_status" json:"response_status"`
	ResponseBody   string       `gorm:"column:response_body;type:text" json:"response_body"`
	DurationMS     int64        `gorm:"column:duration_ms" json:"duration_ms"`
	Identity       string       `gorm:"type:text" json:"identity"`
	CreatedAt      time.Time    `gorm:"not null;default:CURRENT_TIMESTAMP;index" json:"created_at"`
}

func (APILog) TableName() string { return "avatax_logs" }

// Cursor orders the listing by (created_at, id) descending.
type Cursor struct {
	ID        snowflake.ID
	CreatedAt time.Time
}

type ListFilter struct {
	Operation string
	StartAt   *time.Time
	EndAt     *time.Time
	Cursor    *Cursor
	Limit     int
}

type ListRequest struct {
	pagination.Pagination
	Operation string
	StartAt   *time.Time
	EndAt     *time.Time
}

type ListResponse struct {
	pagination.PageInfo
	Logs []APILog `json:"logs"`
}

type Repository interface {
	Insert(ctx context.Context, entry *APILog) error
	List(ctx context.Context, filter ListFilter) ([]*APILog, error)
}

type Service interface {
	List(ctx context.Context, req ListRequest) (ListResponse, error)
}
