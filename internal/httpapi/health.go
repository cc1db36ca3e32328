package httpapi

import (
	"context"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"doctors_portal/internal/logging"
)

const mongoPingTimeout = 2 * time.Second

type healthResponse struct {
	Status   string `json:"status"`
	Mongo    string `json:"mongo,omitempty"`
	Users    int64  `json:"users"`
	Bookings int64  `json:"bookings"`
	Doctors  int64  `json:"doctors"`
}

// handleHealth reports overall service health for container probes: a mongo
// ping plus collection counts. Any failure degrades the status instead of
// erroring the probe.
func (s *Server) handleHealth(c *gin.Context) {
	resp := healthResponse{Status: "ok"}

	ctx := c.Request.Context()

	if s.deps.Mongo == nil {
		resp.Status = "degraded"
		resp.Mongo = "error"
		s.logger.WithField("event", "health_mongo_missing").Warn("mongo checker is not configured for health endpoint")
	} else {
		pingCtx, cancel := context.WithTimeout(ctx, mongoPingTimeout)
		err := s.deps.Mongo.Ping(pingCtx)
		cancel()

		if err != nil {
			resp.Status = "degraded"
			resp.Mongo = "error"
			s.logger.WithField("event", "health_mongo_error").WithError(err).Warn("mongo ping failed during health check")
		}
	}

	if s.deps.Stats != nil && resp.Status == "ok" {
		counts := []struct {
			name  string
			count func(context.Context) (int64, error)
			dest  *int64
		}{
			{"users", s.deps.Stats.CountUsers, &resp.Users},
			{"bookings", s.deps.Stats.CountBookings, &resp.Bookings},
			{"doctors", s.deps.Stats.CountDoctors, &resp.Doctors},
		}

		for _, item := range counts {
			n, err := item.count(ctx)
			if err != nil {
				resp.Status = "degraded"
				s.logger.WithFields(logging.Fields{
					"event":      "health_count_error",
					"collection": item.name,
				}).WithError(err).Warn("collection count failed during health check")
				continue
			}
			*item.dest = n
		}
	}

	c.JSON(http.StatusOK, resp)
}
