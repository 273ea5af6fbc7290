package http

import (
	"io"
	"net/http"

	"github.com/labstack/echo/v4"
	"go.uber.org/zap"

	"github.com/velorent/rentalsync/internal/domain/feed"
	domainRepo "github.com/velorent/rentalsync/internal/domain/repository"
	"github.com/velorent/rentalsync/internal/middleware/auth"
	"github.com/velorent/rentalsync/internal/usecase"
)

// SyncHandler exposes the manual sync trigger used by operators: it accepts
// a raw feed payload, runs the reconciliation engine, and reports the batch
// counts back so the caller can render them directly.
type SyncHandler struct {
	reconcilers map[string]*usecase.Reconciler
	bookings    domainRepo.BookingRepository
	maxReported int
	logger      *zap.Logger
}

func NewSyncHandler(reconcilers map[string]*usecase.Reconciler, bookings domainRepo.BookingRepository, maxReported int, logger *zap.Logger) *SyncHandler {
	if maxReported <= 0 {
		maxReported = 5
	}
	return &SyncHandler{
		reconcilers: reconcilers,
		bookings:    bookings,
		maxReported: maxReported,
		logger:      logger,
	}
}

// Sync handles POST /api/v1/sync/:source.
func (h *SyncHandler) Sync(c echo.Context) error {
	source := c.Param("source")
	reconciler, ok := h.reconcilers[source]
	if !ok {
		return c.JSON(http.StatusNotFound, echo.Map{
			"error": "Unknown feed source",
			"code":  "UNKNOWN_SOURCE",
		})
	}

	payload, err := io.ReadAll(c.Request().Body)
	if err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{
			"error": "Failed to read request body",
		})
	}

	rows, err := feed.Rows(payload)
	if err != nil {
		h.logger.Warn("Rejected sync payload",
			zap.String("source", source),
			zap.Error(err))
		return c.JSON(http.StatusBadRequest, echo.Map{
			"error": "Payload is not a recognized feed shape",
			"code":  "MALFORMED_PAYLOAD",
		})
	}

	result, syncErr := reconciler.SyncBatch(c.Request().Context(), rows)

	operator := "unknown"
	if user, ok := auth.UserFromContext(c); ok {
		operator = user.Email
	}
	h.logger.Info("Manual sync completed",
		zap.String("source", source),
		zap.String("operator", operator),
		zap.Int("processed", result.Processed),
		zap.Int("skipped", result.Skipped),
		zap.Int("failed", result.Failed))

	// Interactive callers only need the first few error messages.
	if len(result.Errors) > h.maxReported {
		result.Errors = result.Errors[:h.maxReported]
	}

	if syncErr != nil {
		h.logger.Error("Sync aborted",
			zap.String("source", source),
			zap.Error(syncErr))
		return c.JSON(http.StatusInternalServerError, echo.Map{
			"error":  "Sync aborted before completing the batch",
			"code":   "SYNC_ABORTED",
			"result": result,
		})
	}

	return c.JSON(http.StatusOK, result)
}

// GetBooking handles GET /api/v1/bookings/:reference for operators.
func (h *SyncHandler) GetBooking(c echo.Context) error {
	reference := c.Param("reference")

	booking, err := h.bookings.GetByReference(c.Request().Context(), reference)
	if err != nil {
		h.logger.Error("Failed to get booking",
			zap.String("reference", reference),
			zap.Error(err))
		return c.JSON(http.StatusInternalServerError, echo.Map{
			"error": "Failed to load booking",
		})
	}
	if booking == nil {
		return c.JSON(http.StatusNotFound, echo.Map{
			"error": "Booking not found",
		})
	}

	return c.JSON(http.StatusOK, booking)
}
