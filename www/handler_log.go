package www

import (
	"log/slog"
	"net/http"
	"strconv"
	"time"

	"github.com/nhaugen/kraftpris-go/database"
)

type logRow struct {
	Timestamp string `json:"timestamp"`
	Level     string `json:"level"`
	Message   string `json:"message"`
	Attrs     string `json:"attrs,omitempty"`
}

// NewLogHandler serves the persisted application log, newest first.
// Supports page and pageSize query params.
func NewLogHandler(logger *slog.Logger, db *database.Database) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if r.Method != http.MethodGet {
			http.Error(w, "Method not allowed", http.StatusMethodNotAllowed)
			return
		}

		page := 1
		if p, err := strconv.Atoi(r.URL.Query().Get("page")); err == nil && p > 0 {
			page = p
		}
		pageSize := 25
		if ps, err := strconv.Atoi(r.URL.Query().Get("pageSize")); err == nil && ps > 0 {
			pageSize = ps
		}

		entries, err := db.GetLogEntries(r.Context(), slog.LevelDebug, page, pageSize)
		if err != nil {
			writeError(w, logger, err)
			return
		}

		rows := make([]logRow, len(entries))
		for i, e := range entries {
			rows[i] = logRow{
				Timestamp: e.Timestamp.Format(time.RFC3339),
				Level:     slog.Level(e.Level).String(),
				Message:   e.Message,
				Attrs:     e.Attrs,
			}
		}

		writeJson(w, http.StatusOK, rows)
	}
}
