package http

import (
	"net/http"

	"github.com/gin-gonic/gin"
)

func (h *Handler) listPlaces(c *gin.Context) {
	places, err := h.fares.Places(c.Request.Context())
	if err != nil {
		h.handleError(c, err)
		return
	}

	views := make([]placeView, 0, len(places))
	for _, place := range places {
		views = append(views, placeView{ID: place.ID.String(), Name: place.Name})
	}
	c.JSON(http.StatusOK, gin.H{"places": views})
}

func (h *Handler) listFares(c *gin.Context) {
	entries, err := h.fares.List(c.Request.Context())
	if err != nil {
		h.handleError(c, err)
		return
	}

	views := make([]fareEntryView, 0, len(entries))
	for _, entry := range entries {
		views = append(views, fareEntryView{
			ID:        entry.ID.String(),
			Departure: entry.Departure,
			Arrival:   entry.Arrival,
			Fare:      entry.Fare,
		})
	}
	c.JSON(http.StatusOK, gin.H{"fares": views})
}

func (h *Handler) exportFareSchedule(c *gin.Context) {
	result, err := h.fares.ExportSchedule(c.Request.Context())
	if err != nil {
		h.handleError(c, err)
		return
	}

	c.Header("Content-Type", "application/pdf")
	c.Header("Content-Disposition", "attachment; filename=\""+result.FileName+"\"")
	c.Data(http.StatusOK, "application/pdf", result.Content)
}
