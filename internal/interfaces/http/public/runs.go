package public

import (
	"context"
	"errors"
	"net/http"
	"strings"
	"time"

	"github.com/go-chi/chi/v5"

	"github.com/BrianJCal99/project-bunnings/internal/discovery/application"
	"github.com/BrianJCal99/project-bunnings/internal/discovery/domain"
	"github.com/BrianJCal99/project-bunnings/internal/interfaces/http/common"
)

const maxRunListLimit = 100

func (h *Handler) runListHandler() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		ctx, cancel := context.WithTimeout(r.Context(), 5*time.Second)
		defer cancel()

		limit, _ := common.ParsePositiveInt(r.URL.Query().Get("limit"), 20)
		if limit > maxRunListLimit {
			limit = maxRunListLimit
		}

		runs, err := h.runs.List(ctx, limit)
		if err != nil {
			h.logger.Printf("run list fetch failed: %v", err)
			common.WriteError(h.logger, w, http.StatusInternalServerError, "failed to list runs")
			return
		}

		items := make([]runResponse, 0, len(runs))
		for _, run := range runs {
			items = append(items, buildRunResponse(run))
		}
		common.WriteJSON(h.logger, w, http.StatusOK, runListResponse{Items: items, Limit: limit})
	}
}

func (h *Handler) runDetailHandler() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		ctx, cancel := context.WithTimeout(r.Context(), 5*time.Second)
		defer cancel()

		id := strings.TrimSpace(chi.URLParam(r, "id"))
		run, err := h.runs.Detail(ctx, id)
		if err != nil {
			h.writeRunError(w, id, err)
			return
		}
		common.WriteJSON(h.logger, w, http.StatusOK, buildRunResponse(*run))
	}
}

func (h *Handler) runRowsHandler() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		ctx, cancel := context.WithTimeout(r.Context(), 10*time.Second)
		defer cancel()

		id := strings.TrimSpace(chi.URLParam(r, "id"))
		rows, err := h.runs.Rows(ctx, id, r.URL.Query().Get("state"))
		if err != nil {
			h.writeRunError(w, id, err)
			return
		}

		items := make([]rowResponse, 0, len(rows))
		for _, row := range rows {
			items = append(items, buildRowResponse(row))
		}
		common.WriteJSON(h.logger, w, http.StatusOK, map[string]any{
			"runId": id,
			"items": items,
		})
	}
}

func (h *Handler) runAggregatesHandler() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		ctx, cancel := context.WithTimeout(r.Context(), 10*time.Second)
		defer cancel()

		id := strings.TrimSpace(chi.URLParam(r, "id"))
		by, err := domain.ParseGroupBy(r.URL.Query().Get("by"))
		if err != nil {
			common.WriteError(h.logger, w, http.StatusBadRequest, err.Error())
			return
		}

		aggs, err := h.runs.Aggregates(ctx, id, by)
		if err != nil {
			h.writeRunError(w, id, err)
			return
		}

		items := make([]aggregateResponse, 0, len(aggs))
		for _, agg := range aggs {
			items = append(items, buildAggregateResponse(agg))
		}
		common.WriteJSON(h.logger, w, http.StatusOK, aggregateListResponse{RunID: id, By: by.String(), Items: items})
	}
}

func (h *Handler) writeRunError(w http.ResponseWriter, id string, err error) {
	if errors.Is(err, application.ErrRunNotFound) {
		common.WriteError(h.logger, w, http.StatusNotFound, "run not found")
		return
	}
	h.logger.Printf("run fetch failed id=%q err=%v", id, err)
	common.WriteError(h.logger, w, http.StatusInternalServerError, "failed to load run")
}
