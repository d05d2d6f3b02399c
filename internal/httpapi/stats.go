package httpapi

import (
	"net/http"
	"strconv"

	"go.uber.org/zap"
)

const (
	defaultTop  = 10
	maxTop      = 100
	defaultDays = 7
	maxDays     = 90
)

func (s *Server) enquiryStats(w http.ResponseWriter, r *http.Request) {
	if s.stats == nil {
		writeError(w, r, http.StatusServiceUnavailable, "Enquiry statistics are not configured")
		return
	}

	q := r.URL.Query()
	top := intParam(q.Get("top"), defaultTop, maxTop)
	days := intParam(q.Get("days"), defaultDays, maxDays)

	stats, err := s.stats.Stats(r.Context(), top, days)
	if err != nil {
		s.logger.Error("read enquiry stats", zap.Error(err))
		writeError(w, r, http.StatusBadGateway, "Enquiry statistics are unavailable")
		return
	}
	writeData(w, r, stats)
}

// intParam parses a positive integer query value, falling back to def and
// capping at limit.
func intParam(v string, def, limit int) int {
	n, err := strconv.Atoi(v)
	if err != nil || n <= 0 {
		return def
	}
	if n > limit {
		return limit
	}
	return n
}
