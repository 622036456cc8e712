package handlers

import (
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"github.com/Nicholas91X/auto2g-backend/internal/middleware"
	"github.com/Nicholas91X/auto2g-backend/internal/service"
)

type registerAdminRequest struct {
	Email   string `json:"email" binding:"required,email"`
	Name    string `json:"name" binding:"required"`
	Surname string `json:"surname" binding:"required"`
}

func (h HandlerSet) RegisterAdmin(c *gin.Context) {
	var req registerAdminRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, err)
		return
	}

	info, err := h.accountService.RegisterAdmin(c.Request.Context(), service.RegisterAdminInput{
		Email:   req.Email,
		Name:    req.Name,
		Surname: req.Surname,
	})
	if err != nil {
		h.respondError(c, err)
		return
	}

	c.JSON(http.StatusCreated, info)
}

func (h HandlerSet) ListAccounts(c *gin.Context) {
	accounts, err := h.accountService.ListAll(c.Request.Context())
	if err != nil {
		h.respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"items": accounts})
}

func (h HandlerSet) ListAccountsByRole(c *gin.Context) {
	accounts, err := h.accountService.ListByRole(c.Request.Context(), c.Param("role"))
	if err != nil {
		h.respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"items": accounts})
}

func (h HandlerSet) ListAccountsByActive(c *gin.Context) {
	active := true
	if value := c.Query("value"); value != "" {
		parsed, err := strconv.ParseBool(value)
		if err != nil {
			badRequest(c, err)
			return
		}
		active = parsed
	}

	accounts, err := h.accountService.ListByActive(c.Request.Context(), active)
	if err != nil {
		h.respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"items": accounts})
}

func (h HandlerSet) ListAccountsByVerified(c *gin.Context) {
	verified := true
	if value := c.Query("value"); value != "" {
		parsed, err := strconv.ParseBool(value)
		if err != nil {
			badRequest(c, err)
			return
		}
		verified = parsed
	}

	accounts, err := h.accountService.ListByVerified(c.Request.Context(), verified)
	if err != nil {
		h.respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"items": accounts})
}

func (h HandlerSet) SearchAccounts(c *gin.Context) {
	accounts, err := h.accountService.SearchAccounts(c.Request.Context(), c.Query("q"))
	if err != nil {
		h.respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"items": accounts})
}

type setActiveRequest struct {
	Active *bool `json:"active" binding:"required"`
}

func (h HandlerSet) SetAccountActive(c *gin.Context) {
	actor, ok := middleware.CurrentAccount(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "unauthorized"})
		return
	}

	var req setActiveRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, err)
		return
	}

	info, err := h.accountService.AdminSetActive(c.Request.Context(), actor, c.Param("id"), *req.Active)
	if err != nil {
		h.respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, info)
}

type inviteOnboardingRequest struct {
	Email          string `json:"email" binding:"required,email"`
	DealershipName string `json:"dealershipName"`
}

func (h HandlerSet) InviteOnboarding(c *gin.Context) {
	var req inviteOnboardingRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, err)
		return
	}

	if err := h.accountService.InviteOnboarding(c.Request.Context(), req.Email, req.DealershipName); err != nil {
		h.respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"status": "ok"})
}

func (h HandlerSet) PurgeAccount(c *gin.Context) {
	if err := h.accountService.HardDeleteAccount(c.Request.Context(), c.Param("id")); err != nil {
		h.respondError(c, err)
		return
	}

	c.Status(http.StatusNoContent)
}
