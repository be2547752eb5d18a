package reports

import (
	"net/http"
	"time"

	"qc_portal_backend/platform/httpkit"

	"github.com/gin-gonic/gin"
)

type Handler struct {
	svc *Service
}

func NewHandler(svc *Service) *Handler {
	return &Handler{svc: svc}
}

func (h *Handler) RegisterRoutes(rg *gin.RouterGroup) {
	rg.GET("/quota", h.Quota)
	rg.GET("/leaderboard", h.Leaderboard)
	rg.GET("/summary", h.Summary)
}

// parseDate reads a YYYY-MM-DD query param, defaulting to now.
func parseDate(c *gin.Context, key string, def time.Time) (time.Time, bool) {
	raw := c.Query(key)
	if raw == "" {
		return def, true
	}
	t, err := time.Parse("2006-01-02", raw)
	if err != nil {
		httpkit.Error(c, http.StatusBadRequest, "invalid "+key+" date, expected YYYY-MM-DD", nil)
		return time.Time{}, false
	}
	return t, true
}

func (h *Handler) Quota(c *gin.Context) {
	ref, ok := parseDate(c, "date", time.Now())
	if !ok {
		return
	}

	report, err := h.svc.Quota(c.Request.Context(), ref)
	if httpkit.HandleError(c, err) {
		return
	}

	httpkit.OK(c, report)
}

func (h *Handler) Leaderboard(c *gin.Context) {
	now := time.Now().UTC()
	defaultFrom := time.Date(now.Year(), now.Month(), 1, 0, 0, 0, 0, time.UTC)

	from, ok := parseDate(c, "from", defaultFrom)
	if !ok {
		return
	}
	to, ok := parseDate(c, "to", now.AddDate(0, 0, 1))
	if !ok {
		return
	}
	if !to.After(from) {
		httpkit.Error(c, http.StatusBadRequest, "to must be after from", nil)
		return
	}

	report, err := h.svc.Leaderboard(c.Request.Context(), from, to)
	if httpkit.HandleError(c, err) {
		return
	}

	httpkit.OK(c, report)
}

// Summary returns the quota report and leaderboard in one payload for the
// dashboard's initial load.
func (h *Handler) Summary(c *gin.Context) {
	ref, ok := parseDate(c, "date", time.Now())
	if !ok {
		return
	}

	quota, err := h.svc.Quota(c.Request.Context(), ref)
	if httpkit.HandleError(c, err) {
		return
	}

	monthStart := time.Date(ref.Year(), ref.Month(), 1, 0, 0, 0, 0, time.UTC)
	board, err := h.svc.Leaderboard(c.Request.Context(), monthStart, ref.AddDate(0, 0, 1))
	if httpkit.HandleError(c, err) {
		return
	}

	httpkit.OK(c, gin.H{
		"quota":       quota,
		"leaderboard": board,
	})
}
