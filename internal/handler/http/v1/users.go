package v1

import (
	"net/http"

	"github.com/gin-gonic/gin"
)

// @Summary Register a device user
// @Description Create a user and issue a session token. Requires API key.
// @Tags Users
// @Accept json
// @Produce json
// @Security ApiKeyAuth
// @Param user body RegisterUserRequest true "User registration request"
// @Success 201 {object} RegisterUserResponse
// @Failure 400 {object} map[string]string "Invalid request body or validation error"
// @Failure 401 {object} map[string]string "Unauthorized"
// @Failure 409 {object} map[string]string "Email already registered"
// @Failure 500 {object} map[string]string "Internal server error"
// @Router /users [post]
func (h *Handler) registerUser(c *gin.Context) {
	var input RegisterUserRequest
	log := h.logger.WithField("method", "registerUser")

	if !h.bindAndValidate(c, log, &input) {
		return
	}

	user := DTOToUserModel(input)
	session, err := h.userService.Register(c.Request.Context(), user)
	if err != nil {
		h.respondError(c, log, err)
		return
	}

	c.JSON(http.StatusCreated, RegisterUserResponse{
		User:  ModelToUserResponse(user),
		Token: session.Token,
	})
}

// @Summary Get current user
// @Tags Users
// @Produce json
// @Security SessionAuth
// @Success 200 {object} UserResponse
// @Failure 401 {object} map[string]string "Unauthorized"
// @Failure 404 {object} map[string]string "User not found"
// @Router /users/me [get]
func (h *Handler) getMe(c *gin.Context) {
	session, _ := sessionFrom(c)
	log := h.logger.WithField("method", "getMe").WithField("user_id", session.UserID)

	user, err := h.userService.Me(c.Request.Context(), session)
	if err != nil {
		h.respondError(c, log, err)
		return
	}
	c.JSON(http.StatusOK, ModelToUserResponse(user))
}

// @Summary Save device push token
// @Description Store the Expo push token of the current device.
// @Tags Users
// @Accept json
// @Security SessionAuth
// @Param token body UpdatePushTokenRequest true "Push token"
// @Success 204 "No Content"
// @Failure 400 {object} map[string]string "Invalid request body or validation error"
// @Failure 401 {object} map[string]string "Unauthorized"
// @Failure 500 {object} map[string]string "Internal server error"
// @Router /users/me/push-token [put]
func (h *Handler) updatePushToken(c *gin.Context) {
	session, _ := sessionFrom(c)
	log := h.logger.WithField("method", "updatePushToken").WithField("user_id", session.UserID)

	var input UpdatePushTokenRequest
	if !h.bindAndValidate(c, log, &input) {
		return
	}

	if err := h.userService.UpdatePushToken(c.Request.Context(), session, input.PushToken); err != nil {
		h.respondError(c, log, err)
		return
	}
	c.Status(http.StatusNoContent)
}
