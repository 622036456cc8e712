package handlers

import (
	"io"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/Nicholas91X/auto2g-backend/internal/middleware"
	"github.com/Nicholas91X/auto2g-backend/internal/service"
)

const maxPictureBytes = 5 << 20

func (h HandlerSet) Me(c *gin.Context) {
	account, ok := middleware.CurrentAccount(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "unauthorized"})
		return
	}
	c.JSON(http.StatusOK, account.Info())
}

type profileUpdateRequest struct {
	Name        *string `json:"name"`
	Surname     *string `json:"surname"`
	PhoneNumber *string `json:"phoneNumber"`
	FiscalCode  *string `json:"fiscalCode"`
}

func (h HandlerSet) UpdateProfile(c *gin.Context) {
	account, ok := middleware.CurrentAccount(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "unauthorized"})
		return
	}

	var req profileUpdateRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, err)
		return
	}

	info, err := h.accountService.UpdateProfile(c.Request.Context(), account.ID, service.ProfileUpdateInput{
		Name:        req.Name,
		Surname:     req.Surname,
		PhoneNumber: req.PhoneNumber,
		FiscalCode:  req.FiscalCode,
	})
	if err != nil {
		h.respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, info)
}

type passwordUpdateRequest struct {
	CurrentPassword string `json:"currentPassword" binding:"required"`
	NewPassword     string `json:"newPassword" binding:"required,min=8"`
}

func (h HandlerSet) UpdatePassword(c *gin.Context) {
	account, ok := middleware.CurrentAccount(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "unauthorized"})
		return
	}

	var req passwordUpdateRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, err)
		return
	}

	if err := h.accountService.UpdatePassword(c.Request.Context(), account.ID, req.CurrentPassword, req.NewPassword); err != nil {
		h.respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"status": "ok"})
}

type emailUpdateRequest struct {
	Email string `json:"email" binding:"required,email"`
}

func (h HandlerSet) UpdateEmail(c *gin.Context) {
	account, ok := middleware.CurrentAccount(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "unauthorized"})
		return
	}

	var req emailUpdateRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, err)
		return
	}

	result, err := h.accountService.UpdateEmail(c.Request.Context(), account.ID, req.Email)
	if err != nil {
		h.respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, sessionResponse{Token: result.Token, Account: result.Account})
}

func (h HandlerSet) DeactivateSelf(c *gin.Context) {
	account, ok := middleware.CurrentAccount(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "unauthorized"})
		return
	}

	if err := h.accountService.DeactivateSelf(c.Request.Context(), account); err != nil {
		h.respondError(c, err)
		return
	}

	c.Status(http.StatusNoContent)
}

// DeleteAccount covers both self-service and administrative deletion; the
// authorization matrix lives in the service.
func (h HandlerSet) DeleteAccount(c *gin.Context) {
	account, ok := middleware.CurrentAccount(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "unauthorized"})
		return
	}

	if err := h.accountService.DeleteAccount(c.Request.Context(), account, c.Param("id")); err != nil {
		h.respondError(c, err)
		return
	}

	c.Status(http.StatusNoContent)
}

func (h HandlerSet) UploadProfilePicture(c *gin.Context) {
	account, ok := middleware.CurrentAccount(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "unauthorized"})
		return
	}

	data, err := readUpload(c)
	if err != nil {
		badRequest(c, err)
		return
	}

	url, err := h.accountService.UploadProfilePicture(c.Request.Context(), account.ID, data)
	if err != nil {
		h.respondError(c, err)
		return
	}

	c.JSON(http.StatusCreated, gin.H{"url": url})
}

func (h HandlerSet) ProfilePicture(c *gin.Context) {
	url, err := h.accountService.ProfilePictureURL(c.Request.Context(), c.Param("id"))
	if err != nil {
		h.respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"url": url})
}

// readUpload pulls the "file" part out of a multipart form, bounded so a
// huge upload cannot exhaust memory.
func readUpload(c *gin.Context) ([]byte, error) {
	fileHeader, err := c.FormFile("file")
	if err != nil {
		return nil, err
	}

	file, err := fileHeader.Open()
	if err != nil {
		return nil, err
	}
	defer file.Close()

	return io.ReadAll(io.LimitReader(file, maxPictureBytes))
}
