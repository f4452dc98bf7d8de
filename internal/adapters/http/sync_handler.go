package http

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/taskmaster/todo/internal/application/services"
	"github.com/taskmaster/todo/internal/infrastructure/logger"
	"github.com/taskmaster/todo/internal/ports"
)

// SyncHandler exposes the simulated sync control
type SyncHandler struct {
	syncService *services.SyncService
	logger      *logger.Logger
}

// NewSyncHandler creates a new sync handler
func NewSyncHandler(syncService *services.SyncService, logger *logger.Logger) *SyncHandler {
	return &SyncHandler{
		syncService: syncService,
		logger:      logger,
	}
}

// StartSync kicks off a simulated sync
// @Summary Start a simulated sync
// @Description Cosmetic only, nothing leaves the machine. Returns 409 while a sync is running.
// @Tags sync
// @Produce json
// @Success 202 {object} ports.SyncStatusResponse
// @Failure 409 {object} ports.SyncStatusResponse
// @Router /sync [post]
func (h *SyncHandler) StartSync(c echo.Context) error {
	started := h.syncService.Start()
	resp := ports.SyncStatusResponse{
		State:   string(h.syncService.State()),
		Started: started,
	}
	if !started {
		return c.JSON(http.StatusConflict, resp)
	}
	return c.JSON(http.StatusAccepted, resp)
}

// GetSyncStatus reports the current sync state
// @Summary Sync state
// @Tags sync
// @Produce json
// @Success 200 {object} ports.SyncStatusResponse
// @Router /sync [get]
func (h *SyncHandler) GetSyncStatus(c echo.Context) error {
	return c.JSON(http.StatusOK, ports.SyncStatusResponse{State: string(h.syncService.State())})
}
