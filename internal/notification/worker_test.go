package notification

import (
	"bytes"
	"context"
	"encoding/json"
	"io"
	"net/http"
	"sync"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/SherClockHolmes/webpush-go"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"
)

// mockSender is a mock implementation of the Sender interface.
type mockSender struct {
	SendFunc func(payload []byte, sub *webpush.Subscription, options *webpush.Options) (*http.Response, error)
}

func (m *mockSender) Send(payload []byte, sub *webpush.Subscription, options *webpush.Options) (*http.Response, error) {
	return m.SendFunc(payload, sub, options)
}

// A helper function to create a mock database connection.
func newTestDB(t *testing.T) (*gorm.DB, sqlmock.Sqlmock) {
	db, mock, err := sqlmock.New()
	require.NoError(t, err)

	gormDB, err := gorm.Open(postgres.New(postgres.Config{
		Conn: db,
	}), &gorm.Config{})
	require.NoError(t, err)

	return gormDB, mock
}

func TestMessageRendering(t *testing.T) {
	opening := Message{Kind: KindWindowOpening, RoomName: "Morning Run", Countdown: "15m 00s"}
	assert.Equal(t, "Morning Run opens soon", opening.Title())
	assert.Equal(t, "The check-in window for Morning Run opens in 15m 00s.", opening.Body())

	closing := Message{Kind: KindWindowClosing, RoomName: "Morning Run", Countdown: "5m 00s", Urgency: "critical"}
	assert.Equal(t, "Morning Run closes soon", closing.Title())
	assert.Equal(t, "Only 5m 00s left to submit proof for Morning Run.", closing.Body())
}

func TestWorkerPool_Dispatch(t *testing.T) {
	db, _ := newTestDB(t)
	wp := NewWorkerPool(1, db, &webpush.Options{})

	wp.Dispatch(Message{Kind: KindWindowOpening, RoomID: 123})

	select {
	case job := <-wp.jobs:
		assert.Equal(t, int64(123), job.RoomID)
	case <-time.After(1 * time.Second):
		t.Fatal("timed out waiting for job to be dispatched")
	}
}

func TestWorkerPool_WorkerLogic(t *testing.T) {
	gormDB, mock := newTestDB(t)
	wp := NewWorkerPool(1, gormDB, &webpush.Options{})

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	wp.Start(ctx)

	t.Run("sends reminder to one subscription", func(t *testing.T) {
		var wg sync.WaitGroup
		wg.Add(1)

		msg := Message{Kind: KindWindowOpening, RoomID: 101, RoomName: "Morning Run", Countdown: "10m 00s"}

		wp.sender = &mockSender{
			SendFunc: func(payload []byte, sub *webpush.Subscription, options *webpush.Options) (*http.Response, error) {
				assert.Equal(t, "https://example.com/push", sub.Endpoint)

				var decoded map[string]string
				assert.NoError(t, json.Unmarshal(payload, &decoded))
				assert.Equal(t, "Morning Run opens soon", decoded["title"])
				assert.Equal(t, "The check-in window for Morning Run opens in 10m 00s.", decoded["body"])
				wg.Done()
				return &http.Response{
					StatusCode: http.StatusCreated,
					Body:       io.NopCloser(bytes.NewBufferString("")),
				}, nil
			},
		}

		mock.ExpectQuery(`SELECT .* FROM "push_subscriptions".*JOIN .*subscription_room_mapping.*WHERE .*srm\.room_id = \$1`).
			WithArgs(msg.RoomID).
			WillReturnRows(sqlmock.NewRows([]string{"endpoint", "p256dh", "auth", "created_at"}).
				AddRow("https://example.com/push", "test_p256dh", "test_auth", time.Now()))

		wp.Dispatch(msg)
		wg.Wait()
		assert.NoError(t, mock.ExpectationsWereMet())
	})

	t.Run("deletes expired subscription", func(t *testing.T) {
		msg := Message{Kind: KindWindowClosing, RoomID: 102, RoomName: "Evening Review", Countdown: "5m 00s"}
		endpoint := "https://example.com/expired"

		wp.sender = &mockSender{
			SendFunc: func(payload []byte, sub *webpush.Subscription, options *webpush.Options) (*http.Response, error) {
				return &http.Response{
					StatusCode: http.StatusGone,
					Body:       io.NopCloser(bytes.NewBufferString("")),
				}, nil
			},
		}

		mock.ExpectQuery(`SELECT .* FROM "push_subscriptions".*JOIN .*subscription_room_mapping.*WHERE .*srm\.room_id = \$1`).
			WithArgs(msg.RoomID).
			WillReturnRows(sqlmock.NewRows([]string{"endpoint", "p256dh", "auth", "created_at"}).
				AddRow(endpoint, "test_p256dh", "test_auth", time.Now()))

		mock.ExpectBegin()
		mock.ExpectExec(`DELETE FROM "push_subscriptions" WHERE "push_subscriptions"."endpoint" = \$1`).
			WithArgs(endpoint).
			WillReturnResult(sqlmock.NewResult(1, 1))
		mock.ExpectCommit()

		wp.Dispatch(msg)

		// A short sleep to allow the worker to process the job.
		time.Sleep(100 * time.Millisecond)

		assert.NoError(t, mock.ExpectationsWereMet())
	})

	t.Run("send failure is swallowed", func(t *testing.T) {
		msg := Message{Kind: KindWindowOpening, RoomID: 103, RoomName: "Gym"}

		wp.sender = &mockSender{
			SendFunc: func(payload []byte, sub *webpush.Subscription, options *webpush.Options) (*http.Response, error) {
				return nil, assert.AnError
			},
		}

		mock.ExpectQuery(`SELECT .* FROM "push_subscriptions".*JOIN .*subscription_room_mapping.*WHERE .*srm\.room_id = \$1`).
			WithArgs(msg.RoomID).
			WillReturnRows(sqlmock.NewRows([]string{"endpoint", "p256dh", "auth", "created_at"}).
				AddRow("https://example.com/fail", "k", "a", time.Now()))

		wp.Dispatch(msg)
		time.Sleep(100 * time.Millisecond)

		assert.NoError(t, mock.ExpectationsWereMet())
	})
}
