package api

import (
	"log/slog"
	"net/http"
	"strconv"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/dpogorelov/strapi-sitemap/app/database"
	"github.com/dpogorelov/strapi-sitemap/app/sitemap"
)

func NewHandler(holder *sitemap.Holder, runRepo database.RunRepository,
	regenerator Regenerator, version string, feedEnabled bool) *Handler {
	return &Handler{
		holder:      holder,
		runRepo:     runRepo,
		regenerator: regenerator,
		version:     version,
		feedEnabled: feedEnabled,
	}
}

func (h *Handler) GetSitemap(c *gin.Context) {
	artifacts := h.holder.Get()
	if artifacts == nil {
		c.Status(http.StatusServiceUnavailable)
		return
	}

	c.Header("X-Post-Count", strconv.Itoa(artifacts.PostCount))
	c.Header("X-Generated-At", artifacts.GeneratedAt.Format(time.RFC3339))
	c.Data(http.StatusOK, "application/xml; charset=utf-8", []byte(artifacts.Sitemap))
}

func (h *Handler) GetRobots(c *gin.Context) {
	artifacts := h.holder.Get()
	if artifacts == nil {
		c.Status(http.StatusServiceUnavailable)
		return
	}

	c.Data(http.StatusOK, "text/plain; charset=utf-8", []byte(artifacts.Robots))
}

func (h *Handler) GetFeed(c *gin.Context) {
	if !h.feedEnabled {
		c.Status(http.StatusNotFound)
		return
	}

	artifacts := h.holder.Get()
	if artifacts == nil {
		c.Status(http.StatusServiceUnavailable)
		return
	}

	c.Data(http.StatusOK, "application/rss+xml; charset=utf-8", []byte(artifacts.Feed))
}

func (h *Handler) GetHealth(c *gin.Context) {
	health := gin.H{
		"status":    "ok",
		"version":   h.version,
		"timestamp": time.Now().In(time.Local).Format(time.RFC3339),
	}

	if artifacts := h.holder.Get(); artifacts != nil {
		health["last_generated_at"] = artifacts.GeneratedAt.Format(time.RFC3339)
		health["post_count"] = artifacts.PostCount
	} else {
		health["status"] = "starting"
	}

	c.JSON(http.StatusOK, health)
}

func (h *Handler) GetStats(c *gin.Context) {
	if h.runRepo == nil {
		c.JSON(http.StatusOK, gin.H{"run_history": "disabled"})
		return
	}

	stats, err := h.runRepo.GetRunStats()
	if err != nil {
		slog.Error("Database error", "operation", "get_run_stats", "error", err)
		c.Status(http.StatusInternalServerError)
		return
	}

	runs, err := h.runRepo.GetRecentRuns(20)
	if err != nil {
		slog.Error("Database error", "operation", "get_recent_runs", "error", err)
		c.Status(http.StatusInternalServerError)
		return
	}

	recent := make([]gin.H, 0, len(runs))
	for _, run := range runs {
		recent = append(recent, gin.H{
			"started_at":  run.StartedAt.Format(time.RFC3339),
			"duration_ms": run.DurationMs,
			"post_count":  run.PostCount,
			"degraded":    run.Degraded,
			"error":       run.Error,
		})
	}

	response := gin.H{
		"total_runs":    stats.TotalRuns,
		"degraded_runs": stats.DegradedRuns,
		"recent_runs":   recent,
	}
	if stats.LastRunAt != nil {
		response["last_run_at"] = stats.LastRunAt.Format(time.RFC3339)
		response["last_post_count"] = stats.LastPostCount
	}

	c.JSON(http.StatusOK, response)
}

func (h *Handler) Regenerate(c *gin.Context) {
	if h.regenerator == nil {
		c.Status(http.StatusNotFound)
		return
	}

	if err := h.regenerator.TriggerRegenerate(); err != nil {
		slog.Error("Failed to trigger regeneration", "error", err)
		c.JSON(http.StatusServiceUnavailable, gin.H{"error": "regeneration could not be scheduled"})
		return
	}

	c.JSON(http.StatusAccepted, gin.H{"status": "regeneration scheduled"})
}
