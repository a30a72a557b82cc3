package timeline

import (
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/xiaot623/gogo/panel/internal/domain"
)

func steps(offsets ...time.Duration) []Step {
	out := make([]Step, 0, len(offsets))
	for i, off := range offsets {
		out = append(out, Step{Title: string(rune('a' + i)), Offset: off})
	}
	return out
}

func titles(events []domain.TimelineEvent) string {
	var b []byte
	for _, ev := range events {
		b = append(b, ev.Title...)
	}
	return string(b)
}

func TestStartEmitsFirstStepSynchronously(t *testing.T) {
	s := NewScheduler(nil)
	s.Start(time.Now(), steps(0, time.Hour, time.Hour, time.Hour))
	defer s.Cancel()

	require.Equal(t, "a", titles(s.Events()))
	require.True(t, s.Running())
}

func TestStepsEmitInScheduleOrder(t *testing.T) {
	var mu sync.Mutex
	var seen []string
	s := NewScheduler(func(ev domain.TimelineEvent) {
		mu.Lock()
		seen = append(seen, ev.Title)
		mu.Unlock()
	})

	s.Start(time.Now(), steps(0, 5*time.Millisecond, 10*time.Millisecond, 15*time.Millisecond))

	require.Eventually(t, func() bool { return len(s.Events()) == 4 }, time.Second, 2*time.Millisecond)
	require.Equal(t, "abcd", titles(s.Events()))
	require.False(t, s.Running())

	mu.Lock()
	require.Equal(t, []string{"a", "b", "c", "d"}, seen)
	mu.Unlock()
}

func TestEqualAndPastOffsetsKeepOrder(t *testing.T) {
	s := NewScheduler(nil)
	s.Start(time.Now().Add(-time.Hour), steps(0, 0, 0, 0, 0, 0))

	require.Eventually(t, func() bool { return len(s.Events()) == 6 }, time.Second, time.Millisecond)
	require.Equal(t, "abcdef", titles(s.Events()))
}

func TestCancelStopsPendingEmissions(t *testing.T) {
	s := NewScheduler(nil)
	s.Start(time.Now(), steps(0, 20*time.Millisecond, 40*time.Millisecond, 60*time.Millisecond))
	s.Cancel()

	time.Sleep(100 * time.Millisecond)
	require.Equal(t, "a", titles(s.Events()), "emitted events survive cancel, pending ones never land")
	require.False(t, s.Running())

	s.Cancel()
	require.Equal(t, "a", titles(s.Events()))
}

func TestCancelRacingDueTimers(t *testing.T) {
	for i := 0; i < 200; i++ {
		var mu sync.Mutex
		sinkCount := 0
		s := NewScheduler(func(domain.TimelineEvent) {
			mu.Lock()
			sinkCount++
			mu.Unlock()
		})

		s.Start(time.Now(), steps(0, 0, 0, 0))
		s.Cancel()
		after := len(s.Events())

		time.Sleep(time.Millisecond)
		require.Equal(t, after, len(s.Events()), "iteration %d", i)
		mu.Lock()
		require.Equal(t, after, sinkCount, "iteration %d", i)
		mu.Unlock()
	}
}

func TestStartSupersedesRunningSchedule(t *testing.T) {
	s := NewScheduler(nil)
	s.Start(time.Now(), steps(0, 30*time.Millisecond, 30*time.Millisecond, 30*time.Millisecond))

	second := []Step{{Title: "x"}, {Title: "y", Offset: time.Hour}}
	s.Start(time.Now(), second)
	defer s.Cancel()

	time.Sleep(60 * time.Millisecond)
	require.Equal(t, "x", titles(s.Events()))
}

func TestClearDropsEvents(t *testing.T) {
	s := NewScheduler(nil)
	s.Start(time.Now(), steps(0, time.Hour))
	s.Clear()

	require.Empty(t, s.Events())
	require.False(t, s.Running())
}

func TestStartWithNoSteps(t *testing.T) {
	s := NewScheduler(nil)
	s.Start(time.Now(), nil)
	require.Empty(t, s.Events())
	require.False(t, s.Running())
}
