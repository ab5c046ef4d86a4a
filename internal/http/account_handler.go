package http

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/linchh/campus-carpool/internal/http/middleware"
	"github.com/linchh/campus-carpool/internal/service"
)

type vehicleRequest struct {
	Capacity int    `json:"capacity" binding:"required"`
	Plate    string `json:"plate" binding:"required"`
	Class    string `json:"class"`
}

type registerRequest struct {
	Role       string          `json:"role" binding:"required"`
	Username   string          `json:"username" binding:"required"`
	Password   string          `json:"password" binding:"required"`
	Name       string          `json:"name" binding:"required"`
	Sex        string          `json:"sex"`
	Phone      string          `json:"phone" binding:"required"`
	Company    string          `json:"company"`
	CertCode   string          `json:"cert_code"`
	CertExpiry string          `json:"cert_expiry"`
	Vehicle    *vehicleRequest `json:"vehicle"`
}

func (h *Handler) register(c *gin.Context) {
	var req registerRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	certExpiry, ok := h.optionalDate(c, req.CertExpiry, "cert_expiry")
	if !ok {
		return
	}

	input := service.RegisterInput{
		Role:       req.Role,
		Username:   req.Username,
		Password:   req.Password,
		Name:       req.Name,
		Sex:        req.Sex,
		Phone:      req.Phone,
		Company:    req.Company,
		CertCode:   req.CertCode,
		CertExpiry: certExpiry,
	}
	if req.Vehicle != nil {
		input.Vehicle = &service.VehicleInput{
			Capacity: req.Vehicle.Capacity,
			Plate:    req.Vehicle.Plate,
			Class:    req.Vehicle.Class,
		}
	}

	principal, err := h.accounts.Register(c.Request.Context(), input)
	if err != nil {
		h.handleError(c, err)
		return
	}
	c.JSON(http.StatusCreated, toPrincipalView(*principal))
}

type loginRequest struct {
	Username string `json:"username" binding:"required"`
	Password string `json:"password" binding:"required"`
}

func (h *Handler) login(c *gin.Context) {
	var req loginRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	token, principal, err := h.accounts.Login(c.Request.Context(), req.Username, req.Password)
	if err != nil {
		h.handleError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{
		"token": token,
		"user":  toPrincipalView(*principal),
	})
}

func (h *Handler) profile(c *gin.Context) {
	principal, ok := middleware.MustPrincipal(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "missing principal"})
		return
	}

	full, err := h.accounts.Profile(c.Request.Context(), principal)
	if err != nil {
		h.handleError(c, err)
		return
	}
	c.JSON(http.StatusOK, toPrincipalView(*full))
}

type updateProfileRequest struct {
	Name       string          `json:"name" binding:"required"`
	Sex        string          `json:"sex"`
	Phone      string          `json:"phone" binding:"required"`
	Company    string          `json:"company"`
	CertCode   string          `json:"cert_code"`
	CertExpiry string          `json:"cert_expiry"`
	Vehicle    *vehicleRequest `json:"vehicle"`
}

func (h *Handler) updateProfile(c *gin.Context) {
	principal, ok := middleware.MustPrincipal(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "missing principal"})
		return
	}

	var req updateProfileRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	certExpiry, ok := h.optionalDate(c, req.CertExpiry, "cert_expiry")
	if !ok {
		return
	}

	input := service.ProfileUpdateInput{
		Name:       req.Name,
		Sex:        req.Sex,
		Phone:      req.Phone,
		Company:    req.Company,
		CertCode:   req.CertCode,
		CertExpiry: certExpiry,
	}
	if req.Vehicle != nil {
		input.Vehicle = &service.VehicleInput{
			Capacity: req.Vehicle.Capacity,
			Plate:    req.Vehicle.Plate,
			Class:    req.Vehicle.Class,
		}
	}

	updated, err := h.accounts.UpdateProfile(c.Request.Context(), principal, input)
	if err != nil {
		h.handleError(c, err)
		return
	}
	c.JSON(http.StatusOK, toPrincipalView(*updated))
}

func (h *Handler) optionalDate(c *gin.Context, raw, field string) (*time.Time, bool) {
	if raw == "" {
		return nil, true
	}
	parsed, err := parseDate(raw)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid " + field})
		return nil, false
	}
	return &parsed, true
}
