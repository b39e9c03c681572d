package events

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDispatcherDeliversToSubscribers(t *testing.T) {
	dispatcher := NewInMemoryDispatcher()
	var got []Event
	dispatcher.Subscribe(EventTicketIssued, func(ctx context.Context, event Event) error {
		got = append(got, event)
		return nil
	})

	err := dispatcher.Publish(context.Background(), Event{Type: EventTicketIssued, UserID: 42})
	require.NoError(t, err)
	require.Len(t, got, 1)
	assert.Equal(t, int64(42), got[0].UserID)
}

func TestDispatcherIgnoresUnsubscribedTypes(t *testing.T) {
	dispatcher := NewInMemoryDispatcher()
	called := false
	dispatcher.Subscribe(EventTicketIssued, func(ctx context.Context, event Event) error {
		called = true
		return nil
	})

	err := dispatcher.Publish(context.Background(), Event{Type: EventUserRegistered})
	require.NoError(t, err)
	assert.False(t, called)
}

func TestDispatcherContinuesPastFailingHandler(t *testing.T) {
	dispatcher := NewInMemoryDispatcher()
	secondCalled := false
	dispatcher.Subscribe(EventUserRegistered, func(ctx context.Context, event Event) error {
		return errors.New("handler failed")
	})
	dispatcher.Subscribe(EventUserRegistered, func(ctx context.Context, event Event) error {
		secondCalled = true
		return nil
	})

	err := dispatcher.Publish(context.Background(), Event{Type: EventUserRegistered})
	require.NoError(t, err)
	assert.True(t, secondCalled)
}
