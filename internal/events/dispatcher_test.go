package events

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestDispatcherDeliversToSubscribers(t *testing.T) {
	d := NewInMemoryDispatcher()
	var got []string
	d.Subscribe(EventGiftCardCreated, func(_ context.Context, e Event) error {
		got = append(got, "first:"+e.GiftCardID)
		return nil
	})
	d.Subscribe(EventGiftCardCreated, func(_ context.Context, e Event) error {
		got = append(got, "second:"+e.GiftCardID)
		return nil
	})
	d.Subscribe(EventGiftCardUpdated, func(context.Context, Event) error {
		t.Fatal("unexpected delivery")
		return nil
	})

	err := d.Publish(context.Background(), Event{Type: EventGiftCardCreated, GiftCardID: "c1"})

	assert.NoError(t, err)
	assert.Equal(t, []string{"first:c1", "second:c1"}, got)
}

func TestDispatcherContinuesAfterHandlerError(t *testing.T) {
	d := NewInMemoryDispatcher()
	boom := errors.New("boom")
	called := false
	d.Subscribe(EventGiftCardStatusChanged, func(context.Context, Event) error { return boom })
	d.Subscribe(EventGiftCardStatusChanged, func(context.Context, Event) error {
		called = true
		return nil
	})

	err := d.Publish(context.Background(), Event{Type: EventGiftCardStatusChanged})

	assert.ErrorIs(t, err, boom)
	assert.True(t, called)
}

func TestDispatcherWithoutSubscribers(t *testing.T) {
	assert.NoError(t, NewInMemoryDispatcher().Publish(context.Background(), Event{Type: EventGiftCardUpdated}))
}
