package http

import (
	"errors"
	"net/http"
	"strings"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/rs/zerolog"

	"github.com/linchh/campus-carpool/internal/eligibility"
	"github.com/linchh/campus-carpool/internal/service"
)

type Handler struct {
	accounts *service.AccountService
	carpools *service.CarpoolService
	fares    *service.FareService
	reviews  *service.ReviewService
	log      zerolog.Logger
}

func NewHandler(
	accounts *service.AccountService,
	carpools *service.CarpoolService,
	fares *service.FareService,
	reviews *service.ReviewService,
	log zerolog.Logger,
) *Handler {
	return &Handler{
		accounts: accounts,
		carpools: carpools,
		fares:    fares,
		reviews:  reviews,
		log:      log,
	}
}

func (h *Handler) Register(router *gin.Engine, authMiddleware, optionalAuth gin.HandlerFunc) {
	router.POST("/auth/register", h.register)
	router.POST("/auth/login", h.login)

	router.GET("/places", h.listPlaces)
	router.GET("/fares", h.listFares)
	router.GET("/fares/export/pdf", h.exportFareSchedule)
	router.GET("/drivers", h.listDrivers)
	router.GET("/drivers/:id/reviews", h.driverReviews)

	listing := router.Group("/")
	listing.Use(optionalAuth)
	listing.GET("/carpools", h.listCarpools)

	protected := router.Group("/")
	protected.Use(authMiddleware)
	protected.GET("/profile", h.profile)
	protected.PUT("/profile", h.updateProfile)
	protected.POST("/carpools", h.createCarpool)
	protected.GET("/carpools/:id", h.getCarpool)
	protected.POST("/carpools/:id/join", h.joinCarpool)
	protected.POST("/carpools/:id/leave", h.leaveCarpool)
	protected.POST("/carpools/:id/status", h.advanceStatus)
	protected.POST("/carpools/:id/reviews", h.addReview)
	protected.PUT("/reviews/:id", h.updateReview)
	protected.DELETE("/reviews/:id", h.deleteReview)
	protected.GET("/history", h.history)
	protected.GET("/history/export", h.exportHistory)
}

func (h *Handler) handleError(c *gin.Context, err error) {
	switch {
	case errors.Is(err, service.ErrInvalidInput):
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
	case errors.Is(err, service.ErrInvalidCredentials):
		c.JSON(http.StatusUnauthorized, gin.H{"error": err.Error()})
	case errors.Is(err, service.ErrPermissionDenied):
		c.JSON(http.StatusForbidden, gin.H{"error": err.Error()})
	case errors.Is(err, service.ErrNotFound):
		c.JSON(http.StatusNotFound, gin.H{"error": err.Error()})
	case eligibility.IsEligibilityError(err):
		c.JSON(http.StatusConflict, gin.H{"error": err.Error(), "reason": reasonCode(err)})
	default:
		h.log.Error().Err(err).Str("path", c.FullPath()).Msg("request failed")
		c.JSON(http.StatusInternalServerError, gin.H{"error": "internal error"})
	}
}

// reasonCode gives eligibility conflicts a stable machine-readable name so
// clients can branch without matching message text.
func reasonCode(err error) string {
	switch {
	case errors.Is(err, eligibility.ErrAlreadyHasDriver):
		return "ALREADY_HAS_DRIVER"
	case errors.Is(err, eligibility.ErrDriverBusy):
		return "DRIVER_BUSY"
	case errors.Is(err, eligibility.ErrVehicleTooSmall):
		return "VEHICLE_TOO_SMALL"
	case errors.Is(err, eligibility.ErrAlreadyJoined):
		return "ALREADY_JOINED"
	case errors.Is(err, eligibility.ErrFull):
		return "FULL"
	case errors.Is(err, eligibility.ErrNotDriver):
		return "NOT_DRIVER"
	case errors.Is(err, eligibility.ErrAlreadyArrived):
		return "ALREADY_ARRIVED"
	case errors.Is(err, eligibility.ErrNotArrived):
		return "NOT_ARRIVED"
	case errors.Is(err, eligibility.ErrNotParticipant):
		return "NOT_PARTICIPANT"
	case errors.Is(err, eligibility.ErrAlreadyReviewed):
		return "ALREADY_REVIEWED"
	default:
		return "CONFLICT"
	}
}

func parseUUIDParam(c *gin.Context, name string) (uuid.UUID, bool) {
	id, err := uuid.Parse(strings.TrimSpace(c.Param(name)))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid " + name})
		return uuid.Nil, false
	}
	return id, true
}

func parseDate(raw string) (time.Time, error) {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return time.Time{}, service.ErrInvalidInput
	}
	layouts := []string{
		time.RFC3339,
		"2006-01-02",
		"2006-01-02T15:04:05",
	}
	for _, layout := range layouts {
		if parsed, err := time.Parse(layout, raw); err == nil {
			return parsed, nil
		}
	}
	return time.Time{}, service.ErrInvalidInput
}
