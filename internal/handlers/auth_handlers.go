package handlers

import (
	"errors"
	"net/http"

	"barberflow_backend/internal/middleware"
	"barberflow_backend/internal/services"
	"barberflow_backend/pkg/utils"

	"github.com/gin-gonic/gin"
)

// AuthHandler holds the auth service.
type AuthHandler struct {
	authService services.AuthService
}

// NewAuthHandler creates a new AuthHandler.
func NewAuthHandler(as services.AuthService) *AuthHandler {
	return &AuthHandler{authService: as}
}

// Login handles POST /auth/login.
func (h *AuthHandler) Login(c *gin.Context) {
	var req services.LoginRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		utils.LogError(err, "Login: Failed to bind JSON")
		utils.RespondWithError(c, utils.NewAPIError(http.StatusBadRequest, utils.ErrCodeValidationFailed, "Invalid request payload: "+err.Error(), err.Error()))
		return
	}

	resp, err := h.authService.LoginUser(req)
	if err != nil {
		if errors.Is(err, services.ErrInvalidCredentials) {
			utils.RespondWithError(c, utils.NewAPIError(http.StatusUnauthorized, utils.ErrCodeUnauthorized, "Invalid email or password.", ""))
		} else {
			utils.LogError(err, "Login: Error from authService.LoginUser")
			utils.RespondWithError(c, utils.NewAPIError(http.StatusInternalServerError, utils.ErrCodeInternalServerError, "Failed to log in.", "Internal error"))
		}
		return
	}
	utils.RespondSuccess(c, http.StatusOK, resp)
}

// Register handles POST /auth/register. Route-guarded to owners and
// super admins.
func (h *AuthHandler) Register(c *gin.Context) {
	var req services.RegisterUserRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		utils.LogError(err, "Register: Failed to bind JSON")
		utils.RespondWithError(c, utils.NewAPIError(http.StatusBadRequest, utils.ErrCodeValidationFailed, "Invalid request payload: "+err.Error(), err.Error()))
		return
	}

	// Owners can only create staff inside their own shop.
	if c.GetString(middleware.ContextUserRoleKey) == utils.RoleOwner {
		shopID, ok := middleware.BarbershopIDFromContext(c)
		if !ok {
			utils.RespondWithError(c, utils.NewAPIError(http.StatusForbidden, utils.ErrCodeForbidden, "Token is not scoped to a barbershop.", ""))
			return
		}
		req.BarbershopID = &shopID
		req.Role = utils.RoleStaff
	}

	user, err := h.authService.RegisterUser(req)
	if err != nil {
		utils.LogError(err, "Register: Error from authService.RegisterUser")
		switch {
		case errors.Is(err, services.ErrEmailExists):
			utils.RespondWithError(c, utils.NewAPIError(http.StatusConflict, utils.ErrCodeConflict, "Email already registered.", err.Error()))
		case errors.Is(err, services.ErrAuthValidation):
			utils.RespondWithError(c, utils.NewAPIError(http.StatusBadRequest, utils.ErrCodeValidationFailed, "Invalid registration data.", err.Error()))
		default:
			utils.RespondWithError(c, utils.NewAPIError(http.StatusInternalServerError, utils.ErrCodeInternalServerError, "Failed to register user.", "Internal error"))
		}
		return
	}
	utils.RespondSuccess(c, http.StatusCreated, user)
}

// RefreshToken handles POST /auth/refresh-token.
func (h *AuthHandler) RefreshToken(c *gin.Context) {
	var req services.RefreshTokenRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		utils.RespondWithError(c, utils.NewAPIError(http.StatusBadRequest, utils.ErrCodeValidationFailed, "Invalid request payload: "+err.Error(), err.Error()))
		return
	}

	resp, err := h.authService.RefreshToken(req)
	if err != nil {
		if errors.Is(err, services.ErrInvalidToken) || errors.Is(err, services.ErrUserNotFound) {
			utils.RespondWithError(c, utils.NewAPIError(http.StatusUnauthorized, utils.ErrCodeUnauthorized, "Invalid or expired refresh token.", ""))
		} else {
			utils.LogError(err, "RefreshToken: Error from authService.RefreshToken")
			utils.RespondWithError(c, utils.NewAPIError(http.StatusInternalServerError, utils.ErrCodeInternalServerError, "Failed to refresh token.", "Internal error"))
		}
		return
	}
	utils.RespondSuccess(c, http.StatusOK, resp)
}

// Me handles GET /auth/me.
func (h *AuthHandler) Me(c *gin.Context) {
	userID := c.GetInt64(middleware.ContextUserIDKey)
	if userID == 0 {
		utils.RespondWithError(c, utils.NewAPIError(http.StatusUnauthorized, utils.ErrCodeUnauthorized, "User not authenticated.", ""))
		return
	}

	user, err := h.authService.GetUserProfile(userID)
	if err != nil {
		utils.LogError(err, "Me: Error from authService.GetUserProfile")
		if errors.Is(err, services.ErrUserNotFound) {
			utils.RespondWithError(c, utils.NewAPIError(http.StatusNotFound, utils.ErrCodeNotFound, "User not found.", err.Error()))
		} else {
			utils.RespondWithError(c, utils.NewAPIError(http.StatusInternalServerError, utils.ErrCodeInternalServerError, "Failed to fetch profile.", "Internal error"))
		}
		return
	}
	utils.RespondSuccess(c, http.StatusOK, user)
}

// Logout handles POST /auth/logout. Tokens are stateless, so the
// server has nothing to invalidate; clients drop their copies.
func (h *AuthHandler) Logout(c *gin.Context) {
	utils.RespondSuccessMessage(c, http.StatusOK, "Logged out successfully")
}
