package producer

import (
	"context"
	"errors"
	"testing"
	"time"

	"go-payroll/internal/messaging/kafka"
	"go-payroll/internal/messaging/kafka/mock"

	kafkago "github.com/segmentio/kafka-go"
	"github.com/stretchr/testify/assert"
	"go.uber.org/mock/gomock"
	"go.uber.org/zap"
)

type fakeWriter struct {
	sent []kafkago.Message
	fail map[string]bool
}

func (f *fakeWriter) WriteMessages(ctx context.Context, msgs ...kafkago.Message) error {
	for _, m := range msgs {
		if f.fail[string(m.Key)] {
			return errors.New("broker unavailable")
		}
		f.sent = append(f.sent, m)
	}
	return nil
}

func TestProcessPendingEvents(t *testing.T) {
	ctx := context.Background()
	ctrl := gomock.NewController(t)
	repo := mock.NewMockOutboxRepository(ctrl)

	ok := kafka.OutboxEvent{
		ID:            "evt-1",
		RequestID:     "rid-1",
		AggregateType: "payroll",
		AggregateID:   "payroll-1",
		EventType:     "payroll_status_changed",
		Topic:         "payroll.status.changed.v1",
		Payload:       []byte(`{"to":"Paid"}`),
		Status:        kafka.OutboxStatusPending,
	}
	bad := ok
	bad.ID = "evt-2"
	bad.AggregateID = "payroll-2"
	bad.RetryCount = 3

	repo.EXPECT().ListPending(ctx, batchSize).Return([]kafka.OutboxEvent{ok, bad}, nil)
	repo.EXPECT().MarkSent(ctx, "evt-1").Return(nil)
	repo.EXPECT().MarkFailed(ctx, "evt-2", bad.RetryCount, "broker unavailable").Return(nil)

	writer := &fakeWriter{fail: map[string]bool{"payroll-2": true}}

	err := processPendingEvents(ctx, repo, writer, zap.NewNop())

	assert.NoError(t, err)
	if assert.Len(t, writer.sent, 1) {
		msg := writer.sent[0]
		assert.Equal(t, "payroll.status.changed.v1", msg.Topic)
		assert.Equal(t, []byte("payroll-1"), msg.Key)

		headers := map[string]string{}
		for _, h := range msg.Headers {
			headers[h.Key] = string(h.Value)
		}
		assert.Equal(t, "rid-1", headers["request_id"])
		assert.Equal(t, "payroll_status_changed", headers["event_type"])
	}
}

func TestProcessPendingEvents_ListError(t *testing.T) {
	ctrl := gomock.NewController(t)
	repo := mock.NewMockOutboxRepository(ctrl)
	repo.EXPECT().ListPending(gomock.Any(), batchSize).Return(nil, errors.New("db down"))

	err := processPendingEvents(context.Background(), repo, &fakeWriter{}, zap.NewNop())

	assert.EqualError(t, err, "db down")
}

func TestPurgeSentEvents(t *testing.T) {
	ctrl := gomock.NewController(t)
	repo := mock.NewMockOutboxRepository(ctrl)

	cutoff := time.Date(2026, time.April, 1, 0, 0, 0, 0, time.UTC)
	repo.EXPECT().PurgeSent(gomock.Any(), cutoff).Return(int64(5), nil)
	purgeSentEvents(context.Background(), repo, zap.NewNop(), cutoff)

	repo.EXPECT().PurgeSent(gomock.Any(), cutoff).Return(int64(0), errors.New("db down"))
	assert.NotPanics(t, func() { purgeSentEvents(context.Background(), repo, zap.NewNop(), cutoff) })
}
