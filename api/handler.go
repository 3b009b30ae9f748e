/*
 * Copyright 2025 tomoncle.
 * Licensed under the Apache License, Version 2.0 (the "License");
 * you may not use this file except in compliance with the License.
 * You may obtain a copy of the License at
 *
 *     http://www.apache.org/licenses/LICENSE-2.0
 *
 * Unless required by applicable law or agreed to in writing, software
 * distributed under the License is distributed on an "AS IS" BASIS,
 * WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
 * See the License for the specific language governing permissions and
 * limitations under the License.
 */

package api

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
	"github.com/sirupsen/logrus"
	"github.com/tomoncle/roster"
	"github.com/tomoncle/roster/database"
	"github.com/tomoncle/roster/utils"
)

// HealthFunc reports the store's health for GET /health.
type HealthFunc func(ctx context.Context) *database.HealthStatus

type Handler struct {
	Members roster.MemberService
	Health  HealthFunc
	Log     *logrus.Logger
	Origins []string
}

// NewHandler wires the member handlers to svc. Health defaults to the
// global database status.
func NewHandler(svc roster.MemberService, log *logrus.Logger, origins ...string) *Handler {
	if log == nil {
		log = utils.NewLogger("API")
	}
	return &Handler{
		Members: svc,
		Health:  database.GetHealthStatus,
		Log:     log,
		Origins: origins,
	}
}

func (h *Handler) Router() http.Handler {
	r := chi.NewRouter()
	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)
	r.Use(middleware.Recoverer)
	if len(h.Origins) > 0 {
		r.Use(cors.Handler(cors.Options{
			AllowedOrigins: h.Origins,
			AllowedMethods: []string{http.MethodGet, http.MethodOptions},
			AllowedHeaders: []string{"Accept", "Content-Type"},
			MaxAge:         300,
		}))
	}

	r.Get("/hello", h.handleHello)
	r.Get("/health", h.handleHealth)

	r.Get("/v1/members", h.handleSearch)
	r.Get("/v2/members", h.handleSearchPageSimple)
	r.Get("/v3/members", h.handleSearchPageOptimized)
	return r
}

type errorResponse struct {
	Error struct {
		Code    string `json:"code"`
		Message string `json:"message"`
	} `json:"error"`
}

func (h *Handler) writeJSON(w http.ResponseWriter, status int, v interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

// writeError maps invalid input to 400, a missing database to 503 and
// everything else to 500.
func (h *Handler) writeError(w http.ResponseWriter, r *http.Request, handlerName string, err error) {
	status, code, message := http.StatusInternalServerError, "INTERNAL", "internal error"
	switch {
	case errors.Is(err, roster.ErrInvalidArgument):
		status, code, message = http.StatusBadRequest, "BAD_REQUEST", err.Error()
	case errors.Is(err, roster.ErrNotInitialized):
		status, code, message = http.StatusServiceUnavailable, "UNAVAILABLE", err.Error()
	}

	h.Log.WithFields(utils.Fields(
		"handler", handlerName,
		"request_id", middleware.GetReqID(r.Context()),
		"code", code,
	)).WithError(err).Error("handler error")

	resp := errorResponse{}
	resp.Error.Code = code
	resp.Error.Message = message
	h.writeJSON(w, status, resp)
}

func (h *Handler) handleHello(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "text/plain; charset=utf-8")
	_, _ = w.Write([]byte("hello"))
}

func (h *Handler) handleHealth(w http.ResponseWriter, r *http.Request) {
	status := h.Health(r.Context())
	code := http.StatusOK
	if !status.Healthy {
		code = http.StatusServiceUnavailable
	}
	h.writeJSON(w, code, status)
}
