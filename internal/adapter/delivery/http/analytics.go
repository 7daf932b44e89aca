package http

import (
	"context"
	"net/http"
	"net/url"
	"strconv"
	"time"

	"github.com/bitdoze/bitbuddies/internal/entity"
	"github.com/go-chi/render"
)

type analyticsUseCase interface {
	GetStats(ctx context.Context, filter entity.ClickFilter) ([]entity.ClickStat, error)
	GetClicksByDate(ctx context.Context, linkID *int64, days int) ([]entity.DateCount, error)
	GetClicksByReferrer(ctx context.Context, linkID *int64, start, end *time.Time) ([]entity.ReferrerCount, error)
	GetSummary(ctx context.Context) (*entity.ClickSummary, error)
}

type analyticsHandler struct {
	useCase analyticsUseCase
}

func newAnalyticsHandler(useCase analyticsUseCase) *analyticsHandler {
	return &analyticsHandler{useCase: useCase}
}

// clickQuery holds the optional query parameters shared by the click endpoints.
type clickQuery struct {
	linkID *int64
	start  *time.Time
	end    *time.Time
}

func parseClickQuery(q url.Values) (clickQuery, bool) {
	var cq clickQuery

	if v := q.Get("link_id"); v != "" {
		id, err := strconv.ParseInt(v, 10, 64)
		if err != nil || id <= 0 {
			return cq, false
		}
		cq.linkID = &id
	}

	var ok bool
	if cq.start, ok = parseTimeParam(q.Get("start")); !ok {
		return cq, false
	}
	if cq.end, ok = parseTimeParam(q.Get("end")); !ok {
		return cq, false
	}

	return cq, true
}

// parseTimeParam accepts RFC 3339 timestamps. An empty value yields nil.
func parseTimeParam(v string) (*time.Time, bool) {
	if v == "" {
		return nil, true
	}

	t, err := time.Parse(time.RFC3339, v)
	if err != nil {
		return nil, false
	}

	return &t, true
}

func renderInvalidQuery(w http.ResponseWriter, r *http.Request) {
	render.Status(r, http.StatusBadRequest)
	render.JSON(w, r, invalidQueryResponse)
}

func (h *analyticsHandler) getStats(w http.ResponseWriter, r *http.Request) {
	cq, ok := parseClickQuery(r.URL.Query())
	if !ok {
		renderInvalidQuery(w, r)
		return
	}

	stats, err := h.useCase.GetStats(r.Context(), entity.ClickFilter{
		LinkID:   cq.linkID,
		Referrer: r.URL.Query().Get("referrer"),
		Start:    cq.start,
		End:      cq.end,
	})
	if err != nil {
		renderError(w, r, err)
		return
	}

	render.Status(r, http.StatusOK)
	render.JSON(w, r, toClickStatResponses(stats))
}

func (h *analyticsHandler) getClicksByDate(w http.ResponseWriter, r *http.Request) {
	cq, ok := parseClickQuery(r.URL.Query())
	if !ok {
		renderInvalidQuery(w, r)
		return
	}

	var days int
	if v := r.URL.Query().Get("days"); v != "" {
		n, err := strconv.Atoi(v)
		if err != nil || n <= 0 {
			renderInvalidQuery(w, r)
			return
		}
		days = n
	}

	counts, err := h.useCase.GetClicksByDate(r.Context(), cq.linkID, days)
	if err != nil {
		renderError(w, r, err)
		return
	}

	resp := make([]dateCountResponse, 0, len(counts))
	for _, c := range counts {
		resp = append(resp, dateCountResponse{Date: c.Date, Count: c.Count})
	}

	render.Status(r, http.StatusOK)
	render.JSON(w, r, resp)
}

func (h *analyticsHandler) getClicksByReferrer(w http.ResponseWriter, r *http.Request) {
	cq, ok := parseClickQuery(r.URL.Query())
	if !ok {
		renderInvalidQuery(w, r)
		return
	}

	counts, err := h.useCase.GetClicksByReferrer(r.Context(), cq.linkID, cq.start, cq.end)
	if err != nil {
		renderError(w, r, err)
		return
	}

	resp := make([]referrerCountResponse, 0, len(counts))
	for _, c := range counts {
		resp = append(resp, referrerCountResponse{Referrer: c.Referrer, Count: c.Count})
	}

	render.Status(r, http.StatusOK)
	render.JSON(w, r, resp)
}

func (h *analyticsHandler) getSummary(w http.ResponseWriter, r *http.Request) {
	summary, err := h.useCase.GetSummary(r.Context())
	if err != nil {
		renderError(w, r, err)
		return
	}

	render.Status(r, http.StatusOK)
	render.JSON(w, r, summaryResponse{
		TotalLinks:    summary.TotalLinks,
		ActiveLinks:   summary.ActiveLinks,
		TotalClicks:   summary.TotalClicks,
		ClicksLast24h: summary.ClicksLast24h,
		TopLinks:      toLinkResponses(summary.TopLinks),
	})
}
