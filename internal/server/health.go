package server

import (
	"context"
	"net/http"
	"time"

	"github.com/goccy/go-json"
)

const pingTimeout = 2 * time.Second

type healthResponse struct {
	Status   string `json:"status"`
	Mode     string `json:"mode,omitempty"`
	Database string `json:"database,omitempty"`
	Uptime   string `json:"uptime"`
}

func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	resp := healthResponse{
		Status: "ok",
		Mode:   s.opts.Mode,
		Uptime: time.Since(s.started).Round(time.Second).String(),
	}
	code := http.StatusOK

	if s.opts.Database != nil {
		ctx, cancel := context.WithTimeout(r.Context(), pingTimeout)
		defer cancel()
		if err := s.opts.Database.Ping(ctx); err != nil {
			s.logger.WarnContext(ctx, "Health check database ping failed", "error", err)
			resp.Status = "degraded"
			resp.Database = "unavailable"
			code = http.StatusServiceUnavailable
		} else {
			resp.Database = "ok"
		}
	}

	writeJSON(w, code, resp)
}

func writeJSON(w http.ResponseWriter, code int, v any) {
	w.Header().Set("Content-Type", "application/json; charset=utf-8")
	w.WriteHeader(code)
	_ = json.NewEncoder(w).Encode(v)
}
