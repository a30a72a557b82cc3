package history

import (
	"context"
	"fmt"
	"testing"

	"github.com/pkg/errors"
	"github.com/stretchr/testify/require"

	"github.com/xiaot623/gogo/panel/internal/domain"
	"github.com/xiaot623/gogo/panel/internal/repository"
	"github.com/xiaot623/gogo/panel/tests/helpers"
)

type item struct {
	ID string `json:"id"`
	N  int    `json:"n"`
}

type failingSlots struct {
	getErr error
	putErr error
}

func (f failingSlots) Get(context.Context, string) ([]byte, error) { return nil, f.getErr }
func (f failingSlots) Put(context.Context, string, []byte) error   { return f.putErr }
func (f failingSlots) Delete(context.Context, string) error        { return nil }
func (f failingSlots) Close() error                                { return nil }

func TestInsertFrontKeepsMostRecentWithinCapacity(t *testing.T) {
	ctx := context.Background()
	for _, capacity := range []int{1, 3, 20, 100} {
		t.Run(fmt.Sprintf("capacity=%d", capacity), func(t *testing.T) {
			s := New[item]("slot", capacity, nil)
			n := capacity*2 + 3
			for i := 0; i < n; i++ {
				require.NoError(t, s.InsertFront(ctx, item{ID: fmt.Sprint(i), N: i}))
				require.LessOrEqual(t, s.Len(), capacity)
			}

			all := s.All()
			require.Len(t, all, capacity)
			for i, it := range all {
				require.Equal(t, n-1-i, it.N, "newest first")
			}
		})
	}
}

func TestAllReturnsCopy(t *testing.T) {
	ctx := context.Background()
	s := New[item]("slot", 5, nil)
	require.NoError(t, s.InsertFront(ctx, item{ID: "a"}))

	all := s.All()
	all[0].ID = "mutated"
	require.Equal(t, "a", s.All()[0].ID)
}

func TestFind(t *testing.T) {
	ctx := context.Background()
	s := New[item]("slot", 5, nil)
	require.NoError(t, s.InsertFront(ctx, item{ID: "a", N: 1}))
	require.NoError(t, s.InsertFront(ctx, item{ID: "b", N: 2}))

	got, ok := s.Find(func(it item) bool { return it.ID == "a" })
	require.True(t, ok)
	require.Equal(t, 1, got.N)

	_, ok = s.Find(func(it item) bool { return it.ID == "zzz" })
	require.False(t, ok)
}

func TestPersistLoadRoundTrip(t *testing.T) {
	ctx := context.Background()
	slots := repository.NewMemoryStore()

	s := New[item](repository.SlotSessions, 3, slots)
	for i := 0; i < 5; i++ {
		require.NoError(t, s.InsertFront(ctx, item{ID: fmt.Sprint(i), N: i}))
	}

	loaded := New[item](repository.SlotSessions, 3, slots)
	require.NoError(t, loaded.Load(ctx))
	require.Equal(t, s.All(), loaded.All())
}

func TestPersistLoadRoundTripSQLite(t *testing.T) {
	ctx := context.Background()
	slots := helpers.NewTestSQLiteStore(t)

	s := New[domain.FeedbackEntry](repository.SlotFeedback, 100, slots)
	require.NoError(t, s.InsertFront(ctx, domain.FeedbackEntry{ID: "f1", ParticipantID: "Model A", Text: "good"}))
	require.NoError(t, s.InsertFront(ctx, domain.FeedbackEntry{ID: "f2", ParticipantID: "Model B", Text: "meh"}))

	loaded := New[domain.FeedbackEntry](repository.SlotFeedback, 100, slots)
	require.NoError(t, loaded.Load(ctx))
	require.Equal(t, s.All(), loaded.All())
}

func TestLoadMissingSlotIsEmpty(t *testing.T) {
	s := New[item]("slot", 3, repository.NewMemoryStore())
	require.NoError(t, s.Load(context.Background()))
	require.Empty(t, s.All())
}

func TestLoadCorruptedDataDegradesToEmpty(t *testing.T) {
	ctx := context.Background()
	cases := map[string]string{
		"not json":        "{{{",
		"wrong version":   `{"version":99,"items":[{"id":"x"}]}`,
		"wrong shape":     `{"version":1,"items":{"id":"x"}}`,
		"bare array":      `[{"id":"x"}]`,
		"wrong item type": `{"version":1,"items":[42]}`,
	}
	for name, raw := range cases {
		t.Run(name, func(t *testing.T) {
			slots := repository.NewMemoryStore()
			require.NoError(t, slots.Put(ctx, "slot", []byte(raw)))

			s := New[item]("slot", 3, slots)
			require.NoError(t, s.InsertFront(ctx, item{ID: "stale"}))
			require.NoError(t, slots.Put(ctx, "slot", []byte(raw)))

			err := s.Load(ctx)
			require.Error(t, err)
			require.True(t, domain.IsRecoverable(err))
			require.Empty(t, s.All())
		})
	}
}

func TestLoadStorageFailureIsRecoverable(t *testing.T) {
	s := New[item]("slot", 3, failingSlots{getErr: errors.New("disk gone")})
	err := s.Load(context.Background())
	require.True(t, domain.IsRecoverable(err))
	require.Empty(t, s.All())
}

func TestLoadTruncatesOversizedHistory(t *testing.T) {
	ctx := context.Background()
	slots := repository.NewMemoryStore()

	big := New[item]("slot", 10, slots)
	for i := 0; i < 10; i++ {
		require.NoError(t, big.InsertFront(ctx, item{N: i}))
	}

	small := New[item]("slot", 4, slots)
	require.NoError(t, small.Load(ctx))
	require.Len(t, small.All(), 4)
	require.Equal(t, 9, small.All()[0].N)
}

func TestInsertFrontReportsPersistFailureButKeepsItem(t *testing.T) {
	s := New[item]("slot", 3, failingSlots{putErr: errors.New("read-only")})
	err := s.InsertFront(context.Background(), item{ID: "a"})
	require.Error(t, err)
	require.Len(t, s.All(), 1)
}

func TestPrependDefersStorageUntilPersist(t *testing.T) {
	ctx := context.Background()
	slots := repository.NewMemoryStore()
	s := New[item]("slot", 2, slots)

	s.Prepend(item{ID: "a"})
	s.Prepend(item{ID: "b"})
	s.Prepend(item{ID: "c"})
	require.Equal(t, []item{{ID: "c"}, {ID: "b"}}, s.All())

	data, err := slots.Get(ctx, "slot")
	require.NoError(t, err)
	require.Nil(t, data)

	require.NoError(t, s.Persist(ctx))
	loaded := New[item]("slot", 2, slots)
	require.NoError(t, loaded.Load(ctx))
	require.Equal(t, s.All(), loaded.All())
}
