package api

import (
	"context"
	"encoding/json"
	"net/http"
	"time"

	"yrhacks/hackbot/internal/models/entities"
)

// HealthCheckHandler handles GET /healthCheck
func HealthCheckHandler(infra *Infra, upSince time.Time) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		ctx, cancel := context.WithTimeout(r.Context(), 3*time.Second)
		defer cancel()

		services := make(map[string]entities.ServiceStatus)

		// Check the store
		dbStatus := "ok"
		dbDetails := "Database Connected"
		if err := infra.DB.PingContext(ctx); err != nil {
			dbStatus = "down"
			dbDetails = err.Error()
		}
		services["database"] = entities.ServiceStatus{
			Status:  dbStatus,
			Details: dbDetails,
		}

		if infra.Redis != nil {
			redisStatus := "ok"
			redisDetails := "Redis Connected"
			if err := infra.Redis.Ping(ctx).Err(); err != nil {
				redisStatus = "down"
				redisDetails = err.Error()
			}
			services["redis"] = entities.ServiceStatus{
				Status:  redisStatus,
				Details: redisDetails,
			}
		}

		overallStatus := "ok"
		for _, svc := range services {
			if svc.Status != "ok" {
				overallStatus = "down"
				break
			}
		}

		var backlog int64
		if infra.Queue != nil {
			backlog, _ = infra.Queue.Length(ctx)
		}

		resp := entities.HealthCheckResponse{
			Services:     services,
			Status:       overallStatus,
			UpSince:      upSince.UTC(),
			Uptime:       time.Since(upSince).Round(time.Second).String(),
			Registrants:  infra.Directory.Len(),
			QueueBacklog: backlog,
		}

		w.Header().Set("Content-Type", "application/json")
		if overallStatus != "ok" {
			w.WriteHeader(http.StatusServiceUnavailable)
		}
		_ = json.NewEncoder(w).Encode(resp)
	}
}
