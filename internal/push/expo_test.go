package push

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"sync/atomic"
	"testing"
	"time"

	"github.com/sirupsen/logrus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestClient(url string) *ExpoClient {
	logger := logrus.New()
	logger.SetOutput(&bytes.Buffer{})
	return NewExpoClient(url, "expo-token", time.Second, logger)
}

func TestSend_Success(t *testing.T) {
	var received []Message
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, http.MethodPost, r.Method)
		assert.Equal(t, "application/json", r.Header.Get("Content-Type"))
		assert.Equal(t, "Bearer expo-token", r.Header.Get("Authorization"))
		require.NoError(t, json.NewDecoder(r.Body).Decode(&received))

		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{"data":[{"status":"ok","id":"t-1"},{"status":"error","message":"not registered","details":{"error":"DeviceNotRegistered"}}]}`))
	}))
	defer server.Close()

	client := newTestClient(server.URL)
	messages := []Message{
		{To: "ExponentPushToken[a]", Title: "SOS", Body: "help", Sound: "default", Priority: "high"},
		{To: "ExponentPushToken[b]", Title: "SOS", Body: "help", Sound: "default", Priority: "high"},
	}

	tickets, err := client.Send(context.Background(), messages)

	require.NoError(t, err)
	require.Len(t, tickets, 2)
	assert.True(t, tickets[0].OK())
	assert.False(t, tickets[1].OK())
	require.Len(t, received, 2)
	assert.Equal(t, "ExponentPushToken[b]", received[1].To)
	assert.Equal(t, "high", received[1].Priority)
}

func TestSend_ServerError(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusBadGateway)
	}))
	defer server.Close()

	client := newTestClient(server.URL)

	tickets, err := client.Send(context.Background(), []Message{{To: "ExponentPushToken[a]"}})

	require.Error(t, err)
	assert.Nil(t, tickets)
	assert.ErrorContains(t, err, "status 502")
}

func TestSend_Unreachable(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {}))
	url := server.URL
	server.Close()

	client := newTestClient(url)

	_, err := client.Send(context.Background(), []Message{{To: "ExponentPushToken[a]"}})

	require.Error(t, err)
	assert.ErrorContains(t, err, "failed to send push request")
}

func TestSend_Empty(t *testing.T) {
	client := newTestClient("http://127.0.0.1:0")

	_, err := client.Send(context.Background(), nil)

	require.Error(t, err)
}

func TestSend_ChunksLargeBatches(t *testing.T) {
	var requests int32
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		atomic.AddInt32(&requests, 1)
		var batch []Message
		require.NoError(t, json.NewDecoder(r.Body).Decode(&batch))
		assert.LessOrEqual(t, len(batch), maxMessagesPerRequest)

		tickets := make([]Ticket, len(batch))
		for i := range tickets {
			tickets[i] = Ticket{Status: "ok", ID: fmt.Sprintf("t-%d", i)}
		}
		_ = json.NewEncoder(w).Encode(map[string]any{"data": tickets})
	}))
	defer server.Close()

	client := newTestClient(server.URL)
	messages := make([]Message, 150)
	for i := range messages {
		messages[i] = Message{To: fmt.Sprintf("ExponentPushToken[%d]", i)}
	}

	tickets, err := client.Send(context.Background(), messages)

	require.NoError(t, err)
	assert.Len(t, tickets, 150)
	assert.Equal(t, int32(2), atomic.LoadInt32(&requests))
}
