package v1

import (
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"
	"github.com/ulule/limiter/v3"
	"github.com/ulule/limiter/v3/drivers/store/memory"
)

const defaultTriggerRate = "5-M"

// RateLimitMiddleware ограничивает частоту запросов по пользователю сессии, а без сессии по IP.
// Формат rate: "<limit>-<S|M|H|D>", например "5-M".
func RateLimitMiddleware(rate string, log *logrus.Logger) gin.HandlerFunc {
	r, err := limiter.NewRateFromFormatted(rate)
	if err != nil {
		log.WithError(err).WithField("rate", rate).Warnf("Invalid rate limit, falling back to %s", defaultTriggerRate)
		r, _ = limiter.NewRateFromFormatted(defaultTriggerRate)
	}
	lim := limiter.New(memory.NewStore(), r)

	return func(c *gin.Context) {
		key := c.ClientIP()
		if session, ok := sessionFrom(c); ok {
			key = session.UserID.String()
		}

		limiterCtx, err := lim.Get(c.Request.Context(), key)
		if err != nil {
			// Лимитер не должен блокировать SOS
			log.WithError(err).Error("Rate limiter failed, letting request through")
			c.Next()
			return
		}

		c.Header("X-RateLimit-Limit", strconv.FormatInt(limiterCtx.Limit, 10))
		c.Header("X-RateLimit-Remaining", strconv.FormatInt(limiterCtx.Remaining, 10))
		c.Header("X-RateLimit-Reset", strconv.FormatInt(limiterCtx.Reset, 10))

		if limiterCtx.Reached {
			log.WithField("key", key).Warn("Rate limit reached")
			c.AbortWithStatusJSON(http.StatusTooManyRequests, gin.H{"error": "too many requests, please wait before retrying"})
			return
		}

		c.Next()
	}
}
