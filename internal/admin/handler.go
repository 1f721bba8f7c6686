// AngelaMos | 2026
// handler.go

package admin

import (
	"context"
	"database/sql"
	"net/http"
	"runtime"

	"github.com/go-chi/chi/v5"
	"github.com/redis/go-redis/v9"

	"github.com/carterperez-dev/agency-portal/internal/core"
)

// Purger drops expired session rows. Only the postgres driver has one.
type Purger interface {
	Purge(ctx context.Context) (int64, error)
}

type Handler struct {
	driver      string
	storagePing func(ctx context.Context) error
	backendPing func(ctx context.Context) error
	dbStats     func() sql.DBStats
	redisStats  func() *redis.PoolStats
	purger      Purger
}

type HandlerConfig struct {
	Driver      string
	StoragePing func(ctx context.Context) error
	BackendPing func(ctx context.Context) error
	DBStats     func() sql.DBStats
	RedisStats  func() *redis.PoolStats
	Purger      Purger
}

func NewHandler(cfg HandlerConfig) *Handler {
	return &Handler{
		driver:      cfg.Driver,
		storagePing: cfg.StoragePing,
		backendPing: cfg.BackendPing,
		dbStats:     cfg.DBStats,
		redisStats:  cfg.RedisStats,
		purger:      cfg.Purger,
	}
}

// RegisterRoutes mounts the system pages. The supAdmin guard in front of
// the router protects them.
func (h *Handler) RegisterRoutes(r chi.Router) {
	r.Route("/supAdmin/system", func(r chi.Router) {
		r.Get("/stats", h.GetSystemStats)
		r.Get("/stats/runtime", h.GetRuntimeStats)

		if h.purger != nil {
			r.Post("/sessions/purge", h.PurgeSessions)
		}
	})
}

func (h *Handler) GetSystemStats(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	response := SystemStatsResponse{
		SessionStorage: StorageStatus{
			Driver:   h.driver,
			Healthy:  pingOK(ctx, h.storagePing),
			Database: h.getDBStats(),
			Redis:    h.getRedisStats(),
		},
		Backend: BackendStatus{
			Healthy: pingOK(ctx, h.backendPing),
		},
		Runtime: readRuntimeStats(),
	}

	core.OK(w, response)
}

func (h *Handler) GetRuntimeStats(w http.ResponseWriter, r *http.Request) {
	core.OK(w, readRuntimeStats())
}

func (h *Handler) PurgeSessions(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	removed, err := h.purger.Purge(ctx)
	if err != nil {
		core.InternalServerError(w, err)
		return
	}

	core.Logger(ctx).Info("expired sessions purged", "rows", removed)
	core.OK(w, PurgeResponse{Removed: removed})
}

func pingOK(ctx context.Context, ping func(context.Context) error) bool {
	if ping == nil {
		return false
	}
	return ping(ctx) == nil
}

func readRuntimeStats() RuntimeStats {
	var memStats runtime.MemStats
	runtime.ReadMemStats(&memStats)

	return RuntimeStats{
		GoVersion:    runtime.Version(),
		NumGoroutine: runtime.NumGoroutine(),
		NumCPU:       runtime.NumCPU(),
		MemAlloc:     memStats.Alloc,
		MemSys:       memStats.Sys,
		NumGC:        memStats.NumGC,
	}
}

func (h *Handler) getDBStats() *DBPoolStats {
	if h.dbStats == nil {
		return nil
	}

	stats := h.dbStats()
	return &DBPoolStats{
		MaxOpenConnections: stats.MaxOpenConnections,
		OpenConnections:    stats.OpenConnections,
		InUse:              stats.InUse,
		Idle:               stats.Idle,
		WaitCount:          stats.WaitCount,
		WaitDuration:       stats.WaitDuration.String(),
		MaxIdleClosed:      stats.MaxIdleClosed,
		MaxLifetimeClosed:  stats.MaxLifetimeClosed,
	}
}

func (h *Handler) getRedisStats() *RedisPoolStats {
	if h.redisStats == nil {
		return nil
	}

	stats := h.redisStats()
	return &RedisPoolStats{
		Hits:       stats.Hits,
		Misses:     stats.Misses,
		Timeouts:   stats.Timeouts,
		TotalConns: stats.TotalConns,
		IdleConns:  stats.IdleConns,
		StaleConns: stats.StaleConns,
	}
}

type SystemStatsResponse struct {
	SessionStorage StorageStatus `json:"session_storage"`
	Backend        BackendStatus `json:"backend"`
	Runtime        RuntimeStats  `json:"runtime"`
}

type StorageStatus struct {
	Driver   string          `json:"driver"`
	Healthy  bool            `json:"healthy"`
	Database *DBPoolStats    `json:"database,omitempty"`
	Redis    *RedisPoolStats `json:"redis,omitempty"`
}

type BackendStatus struct {
	Healthy bool `json:"healthy"`
}

type PurgeResponse struct {
	Removed int64 `json:"removed"`
}

type DBPoolStats struct {
	MaxOpenConnections int    `json:"max_open_connections"`
	OpenConnections    int    `json:"open_connections"`
	InUse              int    `json:"in_use"`
	Idle               int    `json:"idle"`
	WaitCount          int64  `json:"wait_count"`
	WaitDuration       string `json:"wait_duration"`
	MaxIdleClosed      int64  `json:"max_idle_closed"`
	MaxLifetimeClosed  int64  `json:"max_lifetime_closed"`
}

type RedisPoolStats struct {
	Hits       uint32 `json:"hits"`
	Misses     uint32 `json:"misses"`
	Timeouts   uint32 `json:"timeouts"`
	TotalConns uint32 `json:"total_conns"`
	IdleConns  uint32 `json:"idle_conns"`
	StaleConns uint32 `json:"stale_conns"`
}

type RuntimeStats struct {
	GoVersion    string `json:"go_version"`
	NumGoroutine int    `json:"num_goroutine"`
	NumCPU       int    `json:"num_cpu"`
	MemAlloc     uint64 `json:"mem_alloc_bytes"`
	MemSys       uint64 `json:"mem_sys_bytes"`
	NumGC        uint32 `json:"num_gc"`
}
