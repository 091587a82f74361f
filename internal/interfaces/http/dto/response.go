package dto

import "github.com/shopspring/decimal"

// Areas and quantities are rendered as JSON numbers
func init() {
	decimal.MarshalJSONWithoutQuotes = true
}

// ErrorResponse is the body of every error response
type ErrorResponse struct {
	Message string `json:"message"`
}

// NewErrorResponse creates an error response
func NewErrorResponse(message string) ErrorResponse {
	return ErrorResponse{Message: message}
}

// HealthResponse is the body of the health endpoint
type HealthResponse struct {
	Status   string             `json:"status"`
	Database string             `json:"database"`
	Pool     *PoolStatsResponse `json:"pool,omitempty"`
}

// PoolStatsResponse reports the database connection pool
type PoolStatsResponse struct {
	MaxOpenConnections int   `json:"maxOpenConnections"`
	OpenConnections    int   `json:"openConnections"`
	InUse              int   `json:"inUse"`
	Idle               int   `json:"idle"`
	WaitCount          int64 `json:"waitCount"`
}
