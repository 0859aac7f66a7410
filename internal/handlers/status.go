package handlers

import (
	"log/slog"
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/garrisonhq/garrison/internal/db/sqlc"
	"github.com/garrisonhq/garrison/internal/version"
)

// StatusHandler serves /status with build info and datastore counters.
type StatusHandler struct {
	queries *sqlc.Queries
	logger  *slog.Logger
}

// NewStatusHandler creates a status handler.
func NewStatusHandler(log *slog.Logger, queries *sqlc.Queries) *StatusHandler {
	return &StatusHandler{
		queries: queries,
		logger:  log.With(slog.String("handler", "status")),
	}
}

// Register mounts GET /status on the Echo instance.
func (h *StatusHandler) Register(e *echo.Echo) {
	e.GET("/status", h.Status)
}

type statusResponse struct {
	Version         string `json:"version"`
	IdentityLinks   int64  `json:"identity_links"`
	TrackedAccounts int64  `json:"tracked_accounts"`
}

// Status returns the build version and datastore counters.
func (h *StatusHandler) Status(c echo.Context) error {
	ctx := c.Request().Context()

	links, err := h.queries.CountIdentityLinks(ctx)
	if err != nil {
		h.logger.Error("count identity links", slog.Any("error", err))
		return echo.NewHTTPError(http.StatusInternalServerError, "datastore unavailable")
	}
	tracked, err := h.queries.CountTrackedAccounts(ctx)
	if err != nil {
		h.logger.Error("count tracked accounts", slog.Any("error", err))
		return echo.NewHTTPError(http.StatusInternalServerError, "datastore unavailable")
	}

	return c.JSON(http.StatusOK, statusResponse{
		Version:         version.Version,
		IdentityLinks:   links,
		TrackedAccounts: tracked,
	})
}
