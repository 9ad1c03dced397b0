package matching

import (
	"testing"
	"time"

	"spark/internal/domain/entity"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
)

func TestIsMatch(t *testing.T) {
	t.Parallel()

	a, b, c := uuid.New(), uuid.New(), uuid.New()
	like := func(from, to uuid.UUID, liked bool) *entity.Swipe {
		return &entity.Swipe{ID: uuid.New(), SwiperID: from, SwipedID: to, Liked: liked}
	}

	tests := []struct {
		name     string
		forward  *entity.Swipe
		backward *entity.Swipe
		want     bool
	}{
		{name: "mutual like", forward: like(a, b, true), backward: like(b, a, true), want: true},
		{name: "one side disliked", forward: like(a, b, true), backward: like(b, a, false), want: false},
		{name: "other side missing", forward: like(a, b, true), backward: nil, want: false},
		{name: "unrelated pair", forward: like(a, b, true), backward: like(c, a, true), want: false},
		{name: "same direction twice", forward: like(a, b, true), backward: like(a, b, true), want: false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			assert.Equal(t, tt.want, IsMatch(tt.forward, tt.backward))
			assert.Equal(t, tt.want, IsMatch(tt.backward, tt.forward), "match must be symmetric")
		})
	}
}

func TestCanParticipate(t *testing.T) {
	t.Parallel()

	a, b := uuid.New(), uuid.New()
	chat := &entity.Chat{ID: uuid.New(), User1ID: a, User2ID: b}

	assert.True(t, CanParticipate(a, chat))
	assert.True(t, CanParticipate(b, chat))
	assert.False(t, CanParticipate(uuid.New(), chat))
	assert.False(t, CanParticipate(a, nil))
}

func TestProfilePairIsOrderIndependent(t *testing.T) {
	t.Parallel()

	a, b := uuid.New(), uuid.New()

	assert.Equal(t, entity.NewProfilePair(a, b), entity.NewProfilePair(b, a))
}

func TestDayWindow(t *testing.T) {
	t.Parallel()

	taipei := time.FixedZone("UTC+8", 8*60*60)
	now := time.Date(2024, 3, 10, 17, 30, 0, 0, time.UTC) // 01:30 next day in UTC+8

	start, end := DayWindow(now, time.UTC)
	assert.Equal(t, time.Date(2024, 3, 10, 0, 0, 0, 0, time.UTC), start)
	assert.Equal(t, time.Date(2024, 3, 11, 0, 0, 0, 0, time.UTC), end)

	start, end = DayWindow(now, taipei)
	assert.True(t, start.Equal(time.Date(2024, 3, 11, 0, 0, 0, 0, taipei)))
	assert.True(t, end.Equal(time.Date(2024, 3, 12, 0, 0, 0, 0, taipei)))
	assert.False(t, now.Before(start))
	assert.True(t, now.Before(end))

	start, _ = DayWindow(now, nil)
	assert.Equal(t, time.UTC, start.Location())
}

func TestRemaining(t *testing.T) {
	t.Parallel()

	last := time.Date(2024, 1, 1, 10, 0, 0, 0, time.UTC)

	assert.Equal(t, 90*time.Minute, Remaining(last, last.Add(30*time.Minute), 2*time.Hour))
	assert.Zero(t, Remaining(last, last.Add(2*time.Hour), 2*time.Hour))
	assert.Zero(t, Remaining(last, last.Add(5*time.Hour), 2*time.Hour))
}
