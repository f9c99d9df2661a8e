package command

import (
	"time"

	"github.com/yndnr/tokclaim-go/internal/infra/buildinfo"
)

// Response payloads of the tokclaim HTTP API.

type claimResponse struct {
	Token   string `json:"token"`
	Result  string `json:"result"`
	Message string `json:"message"`
}

type mutationResponse struct {
	Token   string `json:"token"`
	Result  string `json:"result"`
	Message string `json:"message"`
}

type tokenList struct {
	Set    string   `json:"set"`
	Count  int      `json:"count"`
	Tokens []string `json:"tokens"`
}

type tokenStatus struct {
	Token   string `json:"token"`
	Allowed bool   `json:"allowed"`
	Claimed bool   `json:"claimed"`
}

type statusSummary struct {
	Build         buildinfo.Info `json:"build"`
	Backend       string         `json:"backend"`
	Allowed       int            `json:"allowed"`
	Claimed       int            `json:"claimed"`
	StartedAt     time.Time      `json:"started_at"`
	UptimeSeconds int64          `json:"uptime_seconds"`
}

type healthResponse struct {
	Status string `json:"status"`
	Time   string `json:"time"`
}
