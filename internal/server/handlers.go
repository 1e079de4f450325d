package server

import (
	"context"
	"encoding/json"
	"net/http"
	"runtime"
	"time"

	"github.com/shirou/gopsutil/v3/cpu"
	"github.com/shirou/gopsutil/v3/mem"
)

// handleHealth reports service liveness and database reachability
func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	status := http.StatusOK
	response := map[string]interface{}{
		"status":   "healthy",
		"version":  s.version,
		"service":  "finsight",
		"uptime_s": int64(time.Since(s.started).Seconds()),
		"database": "ok",
	}

	if s.db != nil {
		ctx, cancel := context.WithTimeout(r.Context(), 2*time.Second)
		defer cancel()
		if err := s.db.QuickCheck(ctx); err != nil {
			s.log.Warn().Err(err).Msg("Database health check failed")
			status = http.StatusServiceUnavailable
			response["status"] = "degraded"
			response["database"] = err.Error()
		}
	}

	s.writeJSON(w, status, response)
}

// handleSystemStats reports host CPU and memory usage
func (s *Server) handleSystemStats(w http.ResponseWriter, r *http.Request) {
	// 100ms sample keeps the call responsive
	cpuPercent, err := cpu.Percent(100*time.Millisecond, false)
	if err != nil {
		s.log.Warn().Err(err).Msg("Failed to get CPU percentage")
		cpuPercent = []float64{0}
	}
	cpuAvg := 0.0
	if len(cpuPercent) > 0 {
		cpuAvg = cpuPercent[0]
	}

	memUsed := 0.0
	if memStat, err := mem.VirtualMemory(); err != nil {
		s.log.Warn().Err(err).Msg("Failed to get memory statistics")
	} else {
		memUsed = memStat.UsedPercent
	}

	var ms runtime.MemStats
	runtime.ReadMemStats(&ms)

	s.writeJSON(w, http.StatusOK, map[string]interface{}{
		"cpu_percent":    cpuAvg,
		"memory_percent": memUsed,
		"heap_alloc_mb":  float64(ms.HeapAlloc) / 1024 / 1024,
		"goroutines":     runtime.NumGoroutine(),
	})
}

// writeJSON writes a JSON response
func (s *Server) writeJSON(w http.ResponseWriter, status int, data interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)

	if err := json.NewEncoder(w).Encode(data); err != nil {
		s.log.Error().Err(err).Msg("Failed to encode JSON response")
	}
}
