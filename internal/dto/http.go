package dto

import "net/http"

type BaseResponse struct {
	Code    int         `json:"code"`
	Message string      `json:"message"`
	Data    interface{} `json:"data,omitempty"`
}

func NewBaseResponse(code int, message string, data interface{}) *BaseResponse {
	return &BaseResponse{
		Code:    code,
		Message: message,
		Data:    data,
	}
}

func NewBadRequestResponse(message string) *BaseResponse {
	return NewBaseResponse(http.StatusBadRequest, message, nil)
}

func NewNotFoundResponse(message string) *BaseResponse {
	return NewBaseResponse(http.StatusNotFound, message, nil)
}

func NewSuccessResponse(message string, data interface{}) *BaseResponse {
	return NewBaseResponse(http.StatusOK, message, data)
}

// PositionRequest is the create/update payload for a position.
type PositionRequest struct {
	Ticker       string   `json:"ticker" validate:"required"`
	Type         string   `json:"type" validate:"required,oneof=LONG_PUT LONG_CALL DEBIT_SPREAD_CALL DEBIT_SPREAD_PUT"`
	Expiry       string   `json:"expiry" validate:"required,datetime=2006-01-02"`
	LongStrike   float64  `json:"long_strike" validate:"required,gt=0"`
	ShortStrike  *float64 `json:"short_strike" validate:"omitempty,gt=0"`
	EntryPrice   float64  `json:"entry_price" validate:"required,gt=0"`
	EntryDate    string   `json:"entry_date" validate:"omitempty,datetime=2006-01-02"`
	Quantity     int      `json:"quantity" validate:"omitempty,gte=1"`
	PreviousPeak *float64 `json:"previous_peak" validate:"omitempty,gt=0"`
}

// GetPositionsParam filters position store queries.
type GetPositionsParam struct {
	IDs     []uint
	Tickers []string
	Enabled *bool
}

// SettingsRequest is the update payload for the settings singleton.
type SettingsRequest struct {
	PollMinutes    int  `json:"poll_minutes" validate:"required,gte=1"`
	NotifySlack    bool `json:"notify_slack"`
	NotifyEmail    bool `json:"notify_email"`
	NotifyTelegram bool `json:"notify_telegram"`
}
