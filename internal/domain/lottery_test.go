package domain

import (
	"fmt"
	"math/rand/v2"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func pendingReservations(n int) []*Reservation {
	out := make([]*Reservation, 0, n)
	for i := 1; i <= n; i++ {
		out = append(out, &Reservation{
			ID:            int64(i),
			RequesterName: fmt.Sprintf("user%d", i),
			Status:        StatusPending,
		})
	}
	return out
}

func TestAllocate_FivePendingNoConfirmed(t *testing.T) {
	reservations := pendingReservations(5)

	plan := Allocate(reservations, DefaultLimits(), rand.New(rand.NewPCG(1, 2)))

	assert.Equal(t, 3, plan.AvailableSlots)
	assert.Len(t, plan.Confirmed, 3)
	assert.Len(t, plan.Rejected, 2)
	assert.Len(t, plan.Results(), 5)

	seen := make(map[int64]bool)
	for _, r := range append(plan.Confirmed, plan.Rejected...) {
		assert.False(t, seen[r.ID], "reservation %d allocated twice", r.ID)
		seen[r.ID] = true
		assert.Equal(t, StatusPending, r.Status, "input must not be mutated")
	}
}

func TestAllocate_RespectsExistingConfirmed(t *testing.T) {
	reservations := append(pendingReservations(4),
		&Reservation{ID: 100, Status: StatusConfirmed, IsSubscriber: true},
		&Reservation{ID: 101, Status: StatusConfirmed, IsSubscriber: true},
		&Reservation{ID: 102, Status: StatusRejected},
	)

	plan := Allocate(reservations, DefaultLimits(), rand.New(rand.NewPCG(3, 4)))

	assert.Equal(t, 1, plan.AvailableSlots)
	assert.Len(t, plan.Confirmed, 1)
	assert.Len(t, plan.Rejected, 3)
}

func TestAllocate_NoOp(t *testing.T) {
	full := append(pendingReservations(2),
		&Reservation{ID: 100, Status: StatusConfirmed},
		&Reservation{ID: 101, Status: StatusConfirmed},
		&Reservation{ID: 102, Status: StatusConfirmed},
	)
	plan := Allocate(full, DefaultLimits(), rand.New(rand.NewPCG(5, 6)))
	assert.True(t, plan.IsEmpty())
	assert.Equal(t, 0, plan.AvailableSlots)

	nothingPending := []*Reservation{{ID: 1, Status: StatusConfirmed}}
	plan = Allocate(nothingPending, DefaultLimits(), rand.New(rand.NewPCG(5, 6)))
	assert.True(t, plan.IsEmpty())
}

func TestAllocate_PendingSubscriberWithinQuota(t *testing.T) {
	reservations := []*Reservation{
		{ID: 1, Status: StatusConfirmed, IsSubscriber: true},
		{ID: 2, Status: StatusConfirmed, IsSubscriber: true},
		{ID: 3, Status: StatusPending, IsSubscriber: true},
	}

	plan := Allocate(reservations, DefaultLimits(), rand.New(rand.NewPCG(7, 8)))

	require.Len(t, plan.Rejected, 1)
	assert.Equal(t, int64(3), plan.Rejected[0].ID)
	assert.Empty(t, plan.Confirmed)
}

func TestAllocate_DeterministicForSameSeed(t *testing.T) {
	first := Allocate(pendingReservations(6), DefaultLimits(), rand.New(rand.NewPCG(42, 42)))
	second := Allocate(pendingReservations(6), DefaultLimits(), rand.New(rand.NewPCG(42, 42)))

	assert.Equal(t, first.Results(), second.Results())
}

func TestAllocate_UniformPermutations(t *testing.T) {
	const runs = 60000
	rng := rand.New(rand.NewPCG(2026, 10))
	limits := Limits{DailyCapacity: 3, SubscriberQuota: 2}

	counts := make(map[string]int)
	for i := 0; i < runs; i++ {
		plan := Allocate(pendingReservations(3), limits, rng)
		var order []string
		for _, r := range plan.Confirmed {
			order = append(order, r.RequesterName)
		}
		counts[strings.Join(order, ",")]++
	}

	// 3! перестановок, каждая с вероятностью 1/6
	require.Len(t, counts, 6)
	expected := float64(runs) / 6
	for perm, c := range counts {
		assert.InDelta(t, expected, float64(c), expected*0.05, "permutation %s", perm)
	}
}

func TestAllocate_EachRequesterEquallyLikely(t *testing.T) {
	const runs = 50000
	rng := rand.New(rand.NewPCG(99, 1))

	wins := make(map[int64]int)
	for i := 0; i < runs; i++ {
		plan := Allocate(pendingReservations(5), DefaultLimits(), rng)
		for _, r := range plan.Confirmed {
			wins[r.ID]++
		}
	}

	// 3 места на 5 заявок: вероятность выигрыша 0.6
	for id := int64(1); id <= 5; id++ {
		assert.InDelta(t, 0.6, float64(wins[id])/runs, 0.02, "reservation %d", id)
	}
}
