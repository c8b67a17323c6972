package http

import "Imperial/internal/shared/transport"

type Response struct {
	Code transport.BizCode `json:"code"`
	Msg  string            `json:"msg"`
	Data any               `json:"data,omitempty"`
}

type StartReq struct {
	Nations []string `json:"nations" binding:"required,min=1"`
}

type MoveReq struct {
	Nation string `json:"nation" binding:"required"`
	Space  string `json:"space" binding:"required"`
}

type PendingDTO struct {
	Space     string `json:"space"`
	BillingID string `json:"billing_id"`
}

type NationDTO struct {
	Nation   string      `json:"nation"`
	Position string      `json:"position"`
	Pending  *PendingDTO `json:"pending,omitempty"`
}

type PositionsDTO struct {
	GameID  string      `json:"game_id"`
	Nations []NationDTO `json:"nations"`
}

type OverviewDTO struct {
	GameID       string   `json:"game_id"`
	Initialized  bool     `json:"initialized"`
	Nations      []string `json:"nations"`
	PendingCount int      `json:"pending_count"`
}
