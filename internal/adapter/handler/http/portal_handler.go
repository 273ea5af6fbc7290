package http

import (
	"net/http"

	"github.com/labstack/echo/v4"
	"go.uber.org/zap"

	domainRepo "github.com/velorent/rentalsync/internal/domain/repository"
)

// PortalHandler serves the customer-facing booking lookup. The portal token
// is the sole capability: whoever holds it may read the booking.
type PortalHandler struct {
	bookings  domainRepo.BookingRepository
	customers domainRepo.CustomerRepository
	payments  domainRepo.PaymentRepository
	logger    *zap.Logger
}

func NewPortalHandler(ds domainRepo.Datastore, logger *zap.Logger) *PortalHandler {
	return &PortalHandler{
		bookings:  ds.Bookings(),
		customers: ds.Customers(),
		payments:  ds.Payments(),
		logger:    logger,
	}
}

// GetBooking handles GET /p/b/:token.
func (h *PortalHandler) GetBooking(c echo.Context) error {
	token := c.Param("token")

	booking, err := h.bookings.GetByPortalToken(c.Request().Context(), token)
	if err != nil {
		h.logger.Error("Failed to look up booking by portal token", zap.Error(err))
		return c.JSON(http.StatusInternalServerError, echo.Map{
			"error": "Failed to load booking",
		})
	}
	if booking == nil {
		return c.JSON(http.StatusNotFound, echo.Map{
			"error": "Booking not found",
		})
	}

	payments, err := h.payments.ListByBooking(c.Request().Context(), booking.ID)
	if err != nil {
		h.logger.Error("Failed to list booking payments",
			zap.String("reference", booking.Reference),
			zap.Error(err))
		return c.JSON(http.StatusInternalServerError, echo.Map{
			"error": "Failed to load booking",
		})
	}
	booking.Payments = payments

	return c.JSON(http.StatusOK, booking)
}
