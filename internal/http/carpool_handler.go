package http

import (
	"net/http"
	"strconv"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"github.com/linchh/campus-carpool/internal/http/middleware"
	"github.com/linchh/campus-carpool/internal/model"
	"github.com/linchh/campus-carpool/internal/service"
)

type createCarpoolRequest struct {
	Date            string `json:"date" binding:"required"`
	Time            string `json:"time" binding:"required"`
	FareEntryID     string `json:"fare_entry_id" binding:"required"`
	LowerPassengers int    `json:"lower_passengers" binding:"required"`
}

func (h *Handler) createCarpool(c *gin.Context) {
	principal, ok := middleware.MustPrincipal(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "missing principal"})
		return
	}

	var req createCarpoolRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	date, err := parseDate(req.Date)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid date"})
		return
	}
	fareEntryID, err := uuid.Parse(strings.TrimSpace(req.FareEntryID))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid fare_entry_id"})
		return
	}

	created, err := h.carpools.Create(c.Request.Context(), principal, service.CreateCarpoolInput{
		Date:            date,
		Time:            req.Time,
		FareEntryID:     fareEntryID,
		LowerPassengers: req.LowerPassengers,
	})
	if err != nil {
		h.handleError(c, err)
		return
	}
	c.JSON(http.StatusCreated, toCarpoolView(*created))
}

// listCarpools serves the browse listing. With ?mine=true it returns the
// caller's current carpool instead; filter params switch the listing from
// the default upcoming feed to a filtered search. Vacancy filtering is
// opt-out: an absent has_vacancy means only carpools with room.
func (h *Handler) listCarpools(c *gin.Context) {
	input := service.ListInput{RequireVacancy: true}

	if parseBoolParam(c.Query("mine")) {
		input.Mine = true
	}

	if raw := c.Query("date"); raw != "" {
		date, err := parseDate(raw)
		if err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "invalid date"})
			return
		}
		input.Date = &date
		input.HasFilters = true
	}
	if raw := c.Query("time"); raw != "" {
		input.Time = &raw
		input.HasFilters = true
	}
	if raw := c.Query("fare_entry_id"); raw != "" {
		id, err := uuid.Parse(strings.TrimSpace(raw))
		if err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "invalid fare_entry_id"})
			return
		}
		input.FareEntryID = &id
		input.HasFilters = true
	}
	if raw := c.Query("already_in"); raw != "" {
		count, err := strconv.Atoi(raw)
		if err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "invalid already_in"})
			return
		}
		input.MinAlreadyIn = count
		input.HasFilters = true
	}
	if raw := c.Query("has_driver"); raw != "" {
		input.RequireDriver = parseBoolParam(raw)
		input.HasFilters = true
	}
	if raw := c.Query("has_vacancy"); raw != "" {
		input.RequireVacancy = parseBoolParam(raw)
		input.HasFilters = true
	}

	var principal *model.Principal
	if p, ok := middleware.MustPrincipal(c); ok {
		principal = &p
	}

	carpools, err := h.carpools.List(c.Request.Context(), principal, input)
	if err != nil {
		h.handleError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"carpools": toCarpoolViews(carpools)})
}

func (h *Handler) getCarpool(c *gin.Context) {
	id, ok := parseUUIDParam(c, "id")
	if !ok {
		return
	}

	cp, err := h.carpools.Get(c.Request.Context(), id)
	if err != nil {
		h.handleError(c, err)
		return
	}
	c.JSON(http.StatusOK, toCarpoolView(*cp))
}

func (h *Handler) joinCarpool(c *gin.Context) {
	principal, ok := middleware.MustPrincipal(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "missing principal"})
		return
	}
	id, ok := parseUUIDParam(c, "id")
	if !ok {
		return
	}

	cp, err := h.carpools.Join(c.Request.Context(), principal, id)
	if err != nil {
		h.handleError(c, err)
		return
	}
	c.JSON(http.StatusOK, toCarpoolView(*cp))
}

func (h *Handler) leaveCarpool(c *gin.Context) {
	principal, ok := middleware.MustPrincipal(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "missing principal"})
		return
	}
	id, ok := parseUUIDParam(c, "id")
	if !ok {
		return
	}

	cp, err := h.carpools.Leave(c.Request.Context(), principal, id)
	if err != nil {
		h.handleError(c, err)
		return
	}
	if cp == nil {
		// Last passenger left; the carpool is gone.
		c.JSON(http.StatusOK, gin.H{"dissolved": true})
		return
	}
	c.JSON(http.StatusOK, toCarpoolView(*cp))
}

func (h *Handler) advanceStatus(c *gin.Context) {
	principal, ok := middleware.MustPrincipal(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "missing principal"})
		return
	}
	id, ok := parseUUIDParam(c, "id")
	if !ok {
		return
	}

	cp, err := h.carpools.AdvanceStatus(c.Request.Context(), principal, id)
	if err != nil {
		h.handleError(c, err)
		return
	}
	c.JSON(http.StatusOK, toCarpoolView(*cp))
}

func (h *Handler) history(c *gin.Context) {
	principal, ok := middleware.MustPrincipal(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "missing principal"})
		return
	}

	carpools, err := h.carpools.History(c.Request.Context(), principal)
	if err != nil {
		h.handleError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"carpools": toCarpoolViews(carpools)})
}

func (h *Handler) exportHistory(c *gin.Context) {
	principal, ok := middleware.MustPrincipal(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "missing principal"})
		return
	}

	result, err := h.carpools.ExportHistory(c.Request.Context(), principal)
	if err != nil {
		h.handleError(c, err)
		return
	}

	c.Header("Content-Type", "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet")
	c.Header("Content-Disposition", "attachment; filename=\""+result.FileName+"\"")
	c.Data(http.StatusOK, "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet", result.Content)
}

func parseBoolParam(raw string) bool {
	switch strings.ToLower(strings.TrimSpace(raw)) {
	case "1", "true", "yes":
		return true
	default:
		return false
	}
}
