package metrics

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
)

func TestObserveDispatch(t *testing.T) {
	before := testutil.ToFloat64(dispatchTotal.WithLabelValues(DispatchNoRecipients))

	ObserveDispatch(DispatchNoRecipients)

	assert.Equal(t, before+1, testutil.ToFloat64(dispatchTotal.WithLabelValues(DispatchNoRecipients)))
}

func TestSetDeliveryQueueDepth(t *testing.T) {
	SetDeliveryQueueDepth(7)

	assert.Equal(t, float64(7), testutil.ToFloat64(deliveryQueueDepth))
}

func TestMiddleware_CountsRequests(t *testing.T) {
	gin.SetMode(gin.TestMode)
	router := gin.New()
	router.Use(Middleware())
	router.GET("/ping", func(c *gin.Context) { c.Status(http.StatusNoContent) })

	before := testutil.ToFloat64(httpRequestsTotal.WithLabelValues("/ping", http.MethodGet, "204"))

	w := httptest.NewRecorder()
	router.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/ping", nil))

	assert.Equal(t, http.StatusNoContent, w.Code)
	assert.Equal(t, before+1, testutil.ToFloat64(httpRequestsTotal.WithLabelValues("/ping", http.MethodGet, "204")))
}
