package handler

import (
	"encoding/base64"
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	domain "ldap-seeder/internal/domain/directory"
	"ldap-seeder/internal/usecase/directory"
	apperrors "ldap-seeder/pkg/errors"
	"ldap-seeder/pkg/logger"
)

// DirectoryHandler handles HTTP requests for directory user lookups
type DirectoryHandler struct {
	uc  directory.Reader
	log *zap.Logger
}

// NewDirectoryHandler creates a new DirectoryHandler instance
func NewDirectoryHandler(uc directory.Reader, log *zap.Logger) *DirectoryHandler {
	return &DirectoryHandler{
		uc:  uc,
		log: log,
	}
}

// UserResponse represents the HTTP response for a directory user
type UserResponse struct {
	UID            string `json:"uid"`
	CN             string `json:"cn"`
	Email          string `json:"email"`
	FirstName      string `json:"firstName"`
	LastName       string `json:"lastName"`
	DisplayName    string `json:"displayName"`
	Description    string `json:"description,omitempty"`
	Title          string `json:"title,omitempty"`
	Mobile         string `json:"mobile,omitempty"`
	ProfilePicture string `json:"profilePicture,omitempty"`
}

// ListUsersResponse represents the HTTP response for listing users
type ListUsersResponse struct {
	Users []UserResponse `json:"users"`
	Count int            `json:"count"`
}

// ErrorResponse represents an error response
type ErrorResponse struct {
	Error   string `json:"error"`
	Message string `json:"message,omitempty"`
}

// ListUsers handles GET /v1/users
func (h *DirectoryHandler) ListUsers(c *gin.Context) {
	ctx := c.Request.Context()
	log := logger.WithContext(ctx, h.log)
	search := c.DefaultQuery("search", "")

	log.Info("Gin ListUsers request", zap.String("search", search))

	people, err := h.uc.ListUsers(ctx, search)
	if err != nil {
		log.Error("Gin ListUsers failed", zap.Error(err))
		h.handleError(c, err)
		return
	}

	users := make([]UserResponse, len(people))
	for i, p := range people {
		users[i] = toUserResponse(p)
	}

	c.JSON(http.StatusOK, ListUsersResponse{
		Users: users,
		Count: len(users),
	})
}

// GetUser handles GET /v1/users/:uid
func (h *DirectoryHandler) GetUser(c *gin.Context) {
	ctx := c.Request.Context()
	log := logger.WithContext(ctx, h.log)
	uid := c.Param("uid")

	log.Info("Gin GetUser request", zap.String("uid", uid))

	p, err := h.uc.GetUser(ctx, uid)
	if err != nil {
		log.Error("Gin GetUser failed", zap.Error(err))
		h.handleError(c, err)
		return
	}

	c.JSON(http.StatusOK, toUserResponse(*p))
}

// GetPhoto handles GET /v1/users/:uid/photo and streams the raw image.
func (h *DirectoryHandler) GetPhoto(c *gin.Context) {
	ctx := c.Request.Context()
	log := logger.WithContext(ctx, h.log)
	uid := c.Param("uid")

	p, err := h.uc.GetUser(ctx, uid)
	if err != nil {
		log.Error("Gin GetPhoto failed", zap.Error(err))
		h.handleError(c, err)
		return
	}
	if p.Photo == "" {
		h.handleError(c, apperrors.NewNotFoundError("photo", "no photo for uid="+p.UID))
		return
	}

	data, err := base64.StdEncoding.DecodeString(p.Photo)
	if err != nil {
		log.Error("stored photo is not valid base64", zap.String("uid", p.UID), zap.Error(err))
		h.handleError(c, apperrors.NewInternalError("decode photo", err))
		return
	}

	c.Header("Cache-Control", "public, max-age=3600")
	c.Data(http.StatusOK, http.DetectContentType(data), data)
}

func toUserResponse(p domain.Person) UserResponse {
	resp := UserResponse{
		UID:         p.UID,
		CN:          p.CN,
		Email:       p.Email,
		FirstName:   p.FirstName,
		LastName:    p.LastName,
		DisplayName: p.DisplayName(),
		Description: p.Description,
		Title:       p.Title,
		Mobile:      p.Mobile,
	}
	if p.Photo != "" {
		resp.ProfilePicture = "data:" + photoMIME(p.Photo) + ";base64," + p.Photo
	}
	return resp
}

// photoMIME sniffs the image type from the first bytes of the base64 data.
func photoMIME(b64 string) string {
	head := b64
	if len(head) > 64 {
		head = head[:64]
	}
	data, err := base64.StdEncoding.DecodeString(head)
	if err != nil {
		return "image/jpeg"
	}
	mime := http.DetectContentType(data)
	if mime == "application/octet-stream" {
		return "image/jpeg"
	}
	return mime
}

// handleError converts usecase errors to appropriate HTTP responses
func (h *DirectoryHandler) handleError(c *gin.Context, err error) {
	var statuser apperrors.HTTPStatuser
	if !errors.As(err, &statuser) {
		c.JSON(http.StatusInternalServerError, ErrorResponse{
			Error:   "internal_error",
			Message: "An internal error occurred",
		})
		return
	}

	status := statuser.HTTPStatus()
	switch status {
	case http.StatusBadRequest:
		c.JSON(status, ErrorResponse{Error: "invalid_input", Message: err.Error()})
	case http.StatusNotFound:
		c.JSON(status, ErrorResponse{Error: "not_found", Message: err.Error()})
	case http.StatusBadGateway:
		c.JSON(status, ErrorResponse{Error: "directory_unavailable", Message: err.Error()})
	case http.StatusGatewayTimeout:
		c.JSON(status, ErrorResponse{Error: "directory_timeout", Message: err.Error()})
	default:
		c.JSON(http.StatusInternalServerError, ErrorResponse{
			Error:   "internal_error",
			Message: "An internal error occurred",
		})
	}
}
