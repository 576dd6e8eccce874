package v1

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
)

// @Summary List contact directory
// @Description All users that can receive push alerts, except the current user.
// @Tags Contacts
// @Produce json
// @Security SessionAuth
// @Success 200 {array} DirectoryEntryResponse
// @Failure 401 {object} map[string]string "Unauthorized"
// @Failure 500 {object} map[string]string "Internal server error"
// @Router /contacts/directory [get]
func (h *Handler) listDirectory(c *gin.Context) {
	session, _ := sessionFrom(c)
	log := h.logger.WithField("method", "listDirectory").WithField("user_id", session.UserID)

	users, err := h.contactService.Directory(c.Request.Context(), session)
	if err != nil {
		h.respondError(c, log, err)
		return
	}
	c.JSON(http.StatusOK, ModelsToDirectoryResponses(users))
}

// @Summary List selected emergency contacts
// @Tags Contacts
// @Produce json
// @Security SessionAuth
// @Success 200 {array} SelectedContactResponse
// @Failure 401 {object} map[string]string "Unauthorized"
// @Failure 500 {object} map[string]string "Internal server error"
// @Router /contacts/selected [get]
func (h *Handler) listSelected(c *gin.Context) {
	session, _ := sessionFrom(c)
	log := h.logger.WithField("method", "listSelected").WithField("user_id", session.UserID)

	contacts, err := h.contactService.Selected(c.Request.Context(), session)
	if err != nil {
		h.respondError(c, log, err)
		return
	}
	c.JSON(http.StatusOK, ModelsToSelectedContactResponses(contacts))
}

// @Summary Toggle emergency contact
// @Description Add the contact to the selection set, or remove it if already selected.
// @Tags Contacts
// @Produce json
// @Security SessionAuth
// @Param id path string true "Contact user ID"
// @Success 200 {object} ToggleContactResponse
// @Failure 400 {object} map[string]string "Invalid contact ID"
// @Failure 401 {object} map[string]string "Unauthorized"
// @Failure 404 {object} map[string]string "Contact not found"
// @Failure 422 {object} map[string]string "Contact has no push token"
// @Failure 500 {object} map[string]string "Internal server error"
// @Router /contacts/{id}/toggle [post]
func (h *Handler) toggleContact(c *gin.Context) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid contact ID"})
		return
	}
	session, _ := sessionFrom(c)
	log := h.logger.WithField("method", "toggleContact").WithField("user_id", session.UserID).WithField("contact_id", id)

	selected, err := h.contactService.Toggle(c.Request.Context(), session, id)
	if err != nil {
		h.respondError(c, log, err)
		return
	}
	c.JSON(http.StatusOK, ToggleContactResponse{ContactID: id, Selected: selected})
}
