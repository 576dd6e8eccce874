package delivery_test

import (
	"bytes"
	"context"
	"errors"
	"testing"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/shenikar/sos_shield/internal/delivery"
	"github.com/shenikar/sos_shield/internal/delivery/mocks"
	"github.com/sirupsen/logrus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/mock/gomock"
)

func queueDepthGauge(t *testing.T) float64 {
	t.Helper()
	families, err := prometheus.DefaultGatherer.Gather()
	require.NoError(t, err)
	for _, mf := range families {
		if mf.GetName() == "sos_shield_delivery_queue_depth" {
			return mf.GetMetric()[0].GetGauge().GetValue()
		}
	}
	t.Fatal("delivery queue depth gauge is not registered")
	return 0
}

func TestQueueGaugeJob(t *testing.T) {
	ctrl := gomock.NewController(t)
	queue := mocks.NewMockTaskQueue(ctrl)
	var logBuffer bytes.Buffer
	logger := logrus.New()
	logger.SetOutput(&logBuffer)
	job := delivery.NewQueueGaugeJob(queue, logger)

	gomock.InOrder(
		queue.EXPECT().Depth(gomock.Any()).Return(int64(12), nil),
		queue.EXPECT().Depth(gomock.Any()).Return(int64(0), errors.New("redis down")),
	)

	job.Run(context.Background())
	assert.Equal(t, float64(12), queueDepthGauge(t))

	// При ошибке последнее значение сохраняется
	job.Run(context.Background())
	assert.Equal(t, float64(12), queueDepthGauge(t))
	assert.Contains(t, logBuffer.String(), "Failed to sample delivery queue depth")
}
