package scheduler

import (
	"bytes"
	"context"
	"errors"
	"sync/atomic"
	"testing"
	"time"

	"github.com/sirupsen/logrus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestCron() (*Cron, *bytes.Buffer) {
	var buf bytes.Buffer
	log := logrus.New()
	log.SetOutput(&buf)
	return NewCron(nil, log), &buf
}

func TestCron_RunsJob(t *testing.T) {
	cr, _ := newTestCron()
	var runs atomic.Int32

	_, err := cr.Add("@every 1s", FuncJob(func(ctx context.Context) { runs.Add(1) }))
	require.NoError(t, err)
	assert.Len(t, cr.Entries(), 1)

	cr.Start()
	defer cr.Stop()

	assert.Eventually(t, func() bool { return runs.Load() > 0 }, 3*time.Second, 50*time.Millisecond)
}

func TestCron_InvalidExpression(t *testing.T) {
	cr, _ := newTestCron()

	_, err := cr.Add("every minute please", FuncJob(func(context.Context) {}))

	assert.Error(t, err)
}

func TestCron_StopCancelsJobContext(t *testing.T) {
	cr, _ := newTestCron()
	started := make(chan struct{})
	var cancelled atomic.Bool

	_, err := cr.Add("@every 1s", FuncJob(func(ctx context.Context) {
		select {
		case started <- struct{}{}:
		default:
			return
		}
		<-ctx.Done()
		cancelled.Store(true)
	}))
	require.NoError(t, err)

	cr.Start()
	select {
	case <-started:
	case <-time.After(3 * time.Second):
		t.Fatal("job did not start")
	}
	cr.Stop()

	assert.True(t, cancelled.Load())
}

func TestCronLogger_Error(t *testing.T) {
	_, buf := newTestCron()
	log := logrus.New()
	log.SetOutput(buf)
	log.SetFormatter(&logrus.JSONFormatter{})

	cronLogger{entry: logrus.NewEntry(log)}.Error(errors.New("boom"), "job failed", "entry", 3)

	assert.Contains(t, buf.String(), `"error":"boom"`)
	assert.Contains(t, buf.String(), `"entry":3`)
}
