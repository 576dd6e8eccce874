package v1

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/go-playground/validator/v10"
	"github.com/shenikar/sos_shield/internal/config"
	"github.com/shenikar/sos_shield/internal/service"
	apperrors "github.com/shenikar/sos_shield/pkg/errors"
	"github.com/sirupsen/logrus"
)

const internalErrorMessage = "something went wrong, please try again"

type Handler struct {
	userService    service.UserService
	contactService service.ContactService
	alertService   service.AlertService
	inboxService   service.InboxService
	logger         *logrus.Logger
	validate       *validator.Validate
	cfg            *config.Config
	triggerLimiter gin.HandlerFunc
}

func NewHandler(
	userService service.UserService,
	contactService service.ContactService,
	alertService service.AlertService,
	inboxService service.InboxService,
	logger *logrus.Logger,
	cfg *config.Config,
) *Handler {
	return &Handler{
		userService:    userService,
		contactService: contactService,
		alertService:   alertService,
		inboxService:   inboxService,
		logger:         logger,
		validate:       validator.New(),
		cfg:            cfg,
		triggerLimiter: RateLimitMiddleware(cfg.TriggerRateLimit, logger),
	}
}

// bindAndValidate читает JSON тело и проверяет теги validate
func (h *Handler) bindAndValidate(c *gin.Context, log *logrus.Entry, input any) bool {
	if err := c.ShouldBindJSON(input); err != nil {
		log.WithError(err).Warn("Failed to bind JSON")
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid request body"})
		return false
	}

	if err := h.validate.Struct(input); err != nil {
		log.WithError(err).Warn("Validation failed")
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return false
	}
	return true
}

// respondError переводит код доменной ошибки в HTTP статус.
// Все неклассифицированные ошибки отдаются как 500 без деталей.
func (h *Handler) respondError(c *gin.Context, log *logrus.Entry, err error) {
	var status int
	switch apperrors.CodeOf(err) {
	case apperrors.CodeInvalidArgument:
		status = http.StatusBadRequest
	case apperrors.CodeUnauthenticated:
		status = http.StatusUnauthorized
	case apperrors.CodeNotFound:
		status = http.StatusNotFound
	case apperrors.CodeConflict:
		status = http.StatusConflict
	case apperrors.CodeFailedPrecondition:
		status = http.StatusUnprocessableEntity
	default:
		log.WithError(err).Error("Request failed")
		c.JSON(http.StatusInternalServerError, gin.H{"error": internalErrorMessage})
		return
	}

	log.WithError(err).Warn("Request rejected")
	c.JSON(status, gin.H{"error": apperrors.MessageOf(err)})
}

// @Summary Get application health status
// @Description Get health status of the application
// @Tags System
// @Accept json
// @Produce json
// @Success 200 {object} map[string]string "Status OK"
// @Router /system/health [get]
func (h *Handler) healthCheck(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"status": "ok"})
}
