package v1

import (
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/shenikar/sos_shield/internal/models"
)

// @Summary Trigger SOS
// @Description Push an SOS alert to every selected contact and record it in their inboxes.
// @Tags SOS
// @Accept json
// @Produce json
// @Security SessionAuth
// @Param telemetry body TriggerSOSRequest true "Current telemetry"
// @Success 200 {object} DispatchResponse
// @Failure 400 {object} map[string]string "Invalid request body or validation error"
// @Failure 401 {object} map[string]string "Unauthorized"
// @Failure 422 {object} map[string]string "No Contacts Selected"
// @Failure 429 {object} map[string]string "Too many requests"
// @Failure 500 {object} map[string]string "Internal server error"
// @Router /sos/trigger [post]
func (h *Handler) triggerSOS(c *gin.Context) {
	session, _ := sessionFrom(c)
	log := h.logger.WithField("method", "triggerSOS").WithField("user_id", session.UserID)

	var input TriggerSOSRequest
	if !h.bindAndValidate(c, log, &input) {
		return
	}

	result, err := h.alertService.Trigger(c.Request.Context(), session, DTOToTelemetry(input))
	if err != nil {
		h.respondError(c, log, err)
		return
	}
	c.JSON(http.StatusOK, ModelToDispatchResponse(result))
}

// @Summary Get active incoming SOS
// @Description Newest active SOS event in the current user's inbox. Event is null when there is none.
// @Tags Incoming
// @Produce json
// @Security SessionAuth
// @Success 200 {object} ActiveSOSResponse
// @Failure 401 {object} map[string]string "Unauthorized"
// @Failure 500 {object} map[string]string "Internal server error"
// @Router /sos/incoming/active [get]
func (h *Handler) getActiveIncoming(c *gin.Context) {
	session, _ := sessionFrom(c)
	log := h.logger.WithField("method", "getActiveIncoming").WithField("user_id", session.UserID)

	event, err := h.inboxService.Active(c.Request.Context(), session)
	if err != nil {
		h.respondError(c, log, err)
		return
	}
	c.JSON(http.StatusOK, ActiveSOSResponse{Event: ModelToSOSEventResponse(event)})
}

// @Summary List incoming SOS history
// @Tags Incoming
// @Produce json
// @Security SessionAuth
// @Param limit query int false "Number of events" default(20)
// @Success 200 {array} SOSEventResponse
// @Failure 401 {object} map[string]string "Unauthorized"
// @Failure 500 {object} map[string]string "Internal server error"
// @Router /sos/incoming [get]
func (h *Handler) listIncoming(c *gin.Context) {
	session, _ := sessionFrom(c)
	log := h.logger.WithField("method", "listIncoming").WithField("user_id", session.UserID)
	limit, _ := strconv.Atoi(c.DefaultQuery("limit", "20"))

	events, err := h.inboxService.History(c.Request.Context(), session, limit)
	if err != nil {
		h.respondError(c, log, err)
		return
	}
	c.JSON(http.StatusOK, ModelsToSOSEventResponses(events))
}

// @Summary Update incoming SOS status
// @Description Move an event forward: active -> acknowledged -> resolved.
// @Tags Incoming
// @Accept json
// @Produce json
// @Security SessionAuth
// @Param id path string true "SOS event ID"
// @Param status body UpdateSOSStatusRequest true "New status"
// @Success 200 {object} SOSEventResponse
// @Failure 400 {object} map[string]string "Invalid event ID or request body"
// @Failure 401 {object} map[string]string "Unauthorized"
// @Failure 404 {object} map[string]string "SOS event not found"
// @Failure 409 {object} map[string]string "Illegal status transition"
// @Failure 500 {object} map[string]string "Internal server error"
// @Router /sos/incoming/{id}/status [patch]
func (h *Handler) updateIncomingStatus(c *gin.Context) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid event ID"})
		return
	}
	session, _ := sessionFrom(c)
	log := h.logger.WithField("method", "updateIncomingStatus").WithField("user_id", session.UserID).WithField("event_id", id)

	var input UpdateSOSStatusRequest
	if !h.bindAndValidate(c, log, &input) {
		return
	}

	event, err := h.inboxService.UpdateStatus(c.Request.Context(), session, id, models.SOSStatus(input.Status))
	if err != nil {
		h.respondError(c, log, err)
		return
	}
	c.JSON(http.StatusOK, ModelToSOSEventResponse(event))
}
