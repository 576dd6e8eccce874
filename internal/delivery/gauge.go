package delivery

import (
	"context"

	"github.com/shenikar/sos_shield/pkg/metrics"
	"github.com/sirupsen/logrus"
)

// QueueGaugeJob снимает длину очереди доставки в метрику delivery_queue_depth
type QueueGaugeJob struct {
	queue  TaskQueue
	logger *logrus.Logger
}

func NewQueueGaugeJob(queue TaskQueue, logger *logrus.Logger) *QueueGaugeJob {
	return &QueueGaugeJob{queue: queue, logger: logger}
}

func (j *QueueGaugeJob) Run(ctx context.Context) {
	depth, err := j.queue.Depth(ctx)
	if err != nil {
		j.logger.WithError(err).Warn("Failed to sample delivery queue depth")
		return
	}
	metrics.SetDeliveryQueueDepth(depth)
	if depth > 0 {
		j.logger.WithField("depth", depth).Debug("Delivery queue depth sampled")
	}
}
