package monitor

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestTeeFanOut(t *testing.T) {
	tee := NewTee()
	a, cancelA := tee.Subscribe(4)
	b, cancelB := tee.Subscribe(4)
	defer cancelB()

	tee.Publish("one")
	require.Equal(t, "one", <-a)
	require.Equal(t, "one", <-b)

	cancelA()
	_, ok := <-a
	require.False(t, ok)

	tee.Publish("two")
	require.Equal(t, "two", <-b)
}

func TestTeeDropsWhenFull(t *testing.T) {
	tee := NewTee()
	ch, cancel := tee.Subscribe(1)
	defer cancel()

	// Publishing past the channel depth must not block.
	tee.Publish("kept")
	tee.Publish("dropped")
	require.Equal(t, "kept", <-ch)
	select {
	case line := <-ch:
		t.Fatalf("unexpected line %q", line)
	default:
	}
}

func TestTeeCancelTwice(t *testing.T) {
	tee := NewTee()
	_, cancel := tee.Subscribe(1)
	cancel()
	cancel()
}
