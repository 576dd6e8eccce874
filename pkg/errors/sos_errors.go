package errors

var (
	// Domain errors — used in service/repository
	ErrNoRecipients      = FailedPrecondition("No Contacts Selected")
	ErrUserNotFound      = NotFound("user not found")
	ErrContactNotFound   = NotFound("contact not found")
	ErrContactIsSelf     = InvalidArg("cannot select yourself as emergency contact")
	ErrContactNoToken    = FailedPrecondition("contact has no valid push token")
	ErrEventNotFound     = NotFound("sos event not found")
	ErrInvalidStatus     = InvalidArg("unknown sos event status")
	ErrInvalidTransition = Conflict("sos event status can only move forward")
	ErrStatusChanged     = Conflict("sos event status was changed concurrently")
	ErrSessionNotFound   = Unauthorized("session not found or expired")
	ErrEmailTaken        = Conflict("email is already registered")
	ErrInvalidPushToken  = InvalidArg("push token must not be empty")
)

func ErrPushFailed(cause error) error {
	return Unavailable("failed to send push notifications", cause)
}
