// Copyright (c) 2022 the didpoop authors.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package handlers

import (
	"net/http"
	"time"

	"github.com/dustin/go-humanize"

	"github.com/didpoop/didpoop/cliparse"
	"github.com/didpoop/didpoop/middleware"
	"github.com/didpoop/didpoop/models"
)

type StatusHandler struct {
	cfg     cliparse.Config
	started time.Time
}

func NewStatusHandler(cfg cliparse.Config) *StatusHandler {
	return &StatusHandler{cfg: cfg, started: time.Now()}
}

// Status handles GET /status
func (h *StatusHandler) Status(w http.ResponseWriter, r *http.Request) {
	middleware.JSONResponse(w, http.StatusOK, models.StatusResponse{
		Version: h.cfg.Version,
		Uptime:  humanize.RelTime(h.started, time.Now(), "", ""),
		OK:      "ok",
	})
}
