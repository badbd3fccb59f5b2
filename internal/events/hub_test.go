package events

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestHubFanOut(t *testing.T) {
	h := NewHub()

	a := h.Subscribe()
	b := h.Subscribe()
	defer h.Unsubscribe(a)
	defer h.Unsubscribe(b)

	h.Publish(`{"type":"coupons_ingested"}`)

	assert.Equal(t, `{"type":"coupons_ingested"}`, <-a)
	assert.Equal(t, `{"type":"coupons_ingested"}`, <-b)
}

func TestHubDropsWhenSubscriberIsSlow(t *testing.T) {
	h := NewHub()
	ch := h.Subscribe()
	defer h.Unsubscribe(ch)

	// fill the buffer and then some; Publish must never block
	for i := 0; i < 100; i++ {
		h.Publish("evt")
	}
	assert.Equal(t, cap(ch), len(ch))
}

func TestUnsubscribeClosesChannel(t *testing.T) {
	h := NewHub()
	ch := h.Subscribe()
	h.Unsubscribe(ch)

	_, open := <-ch
	assert.False(t, open)

	// publishing after unsubscribe must not panic
	h.Publish("evt")
}

func TestMakeEvent(t *testing.T) {
	raw := MakeEvent("req-1", TypeCouponsIngested, map[string]any{"count": 3})

	var ev Event
	require.NoError(t, json.Unmarshal([]byte(raw), &ev))
	assert.Equal(t, TypeCouponsIngested, ev.Type)
	assert.Equal(t, "req-1", ev.RequestID)
	assert.False(t, ev.At.IsZero())

	var data map[string]int
	require.NoError(t, json.Unmarshal(ev.Data, &data))
	assert.Equal(t, 3, data["count"])
}
