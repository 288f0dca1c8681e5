package model

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestVestingUnlockBoundaries(t *testing.T) {
	schedule := VestingSchedule{
		StartTime:       1000,
		CliffSeconds:    100,
		DurationSeconds: 1000,
		TotalLocked:     NewAmount(500),
	}
	require.NoError(t, schedule.Validate())

	tests := []struct {
		at       uint64
		unlocked uint64
	}{
		{0, 0},
		{1000, 0},
		{1050, 0},
		{1099, 0},
		{1100, 50},
		{1500, 250},
		{1999, 499},
		{2000, 500},
		{5000, 500},
	}
	for _, tt := range tests {
		assert.Equal(t, NewAmount(tt.unlocked), schedule.UnlockedAt(tt.at), "t=%d", tt.at)
		assert.Equal(t, NewAmount(500-tt.unlocked), schedule.LockedAt(tt.at), "t=%d", tt.at)
	}
}

func TestVestingMonotonic(t *testing.T) {
	schedule := VestingSchedule{
		StartTime:       10,
		CliffSeconds:    7,
		DurationSeconds: 97,
		TotalLocked:     NewAmount(1000003),
	}
	prev := Amount{}
	for ts := uint64(0); ts < 200; ts++ {
		unlocked := schedule.UnlockedAt(ts)
		assert.False(t, unlocked.Lt(prev), "t=%d", ts)
		assert.False(t, schedule.TotalLocked.Lt(unlocked), "t=%d", ts)
		prev = unlocked
	}
}

func TestVestingNearMaxTime(t *testing.T) {
	schedule := VestingSchedule{
		StartTime:       math.MaxUint64 - 10,
		CliffSeconds:    100,
		DurationSeconds: 200,
		TotalLocked:     NewAmount(1000),
	}
	assert.True(t, schedule.UnlockedAt(math.MaxUint64-1).IsZero())
	assert.True(t, schedule.UnlockedAt(math.MaxUint64).IsZero())
	assert.Equal(t, NewAmount(1000), schedule.LockedAt(math.MaxUint64))

	schedule.CliffSeconds = 5
	assert.Equal(t, NewAmount(50), schedule.UnlockedAt(math.MaxUint64))
}

func TestVestingValidate(t *testing.T) {
	err := VestingSchedule{DurationSeconds: 0}.Validate()
	require.Error(t, err)
	assert.Equal(t, CodeVestingScheduleInvalid, CodeOf(err))

	err = VestingSchedule{CliffSeconds: 11, DurationSeconds: 10}.Validate()
	require.Error(t, err)
	assert.Equal(t, CodeVestingScheduleInvalid, CodeOf(err))

	assert.NoError(t, VestingSchedule{CliffSeconds: 10, DurationSeconds: 10}.Validate())
}

func TestAccountAvailableBalance(t *testing.T) {
	flat := &AccountState{Balance: NewAmount(100), LockedBalance: NewAmount(30)}
	assert.Equal(t, NewAmount(70), flat.AvailableBalance(0))

	over := &AccountState{Balance: NewAmount(10), LockedBalance: NewAmount(30)}
	assert.True(t, over.AvailableBalance(0).IsZero())

	vested := &AccountState{Balance: NewAmount(600)}
	require.NoError(t, vested.ApplyVesting(VestingSchedule{
		StartTime:       1000,
		CliffSeconds:    100,
		DurationSeconds: 1000,
		TotalLocked:     NewAmount(500),
	}))
	assert.Equal(t, NewAmount(500), vested.LockedBalance)
	assert.Equal(t, NewAmount(100), vested.AvailableBalance(1050))
	assert.Equal(t, NewAmount(150), vested.AvailableBalance(1100))
	assert.Equal(t, NewAmount(600), vested.AvailableBalance(2000))

	for ts := uint64(0); ts < 2500; ts += 50 {
		assert.False(t, vested.Balance.Lt(vested.AvailableBalance(ts)))
	}
}

func TestAccountApplyVesting(t *testing.T) {
	curve := VestingSchedule{StartTime: 1, CliffSeconds: 2, DurationSeconds: 3, TotalLocked: NewAmount(40)}
	account := &AccountState{Balance: NewAmount(100)}

	require.NoError(t, account.ApplyVesting(curve))
	require.NoError(t, account.ApplyVesting(curve))
	assert.Equal(t, NewAmount(80), account.LockedBalance)
	assert.Equal(t, NewAmount(80), account.Vesting.TotalLocked)

	before := *account.Clone()
	conflicting := curve
	conflicting.DurationSeconds = 4
	err := account.ApplyVesting(conflicting)
	require.Error(t, err)
	assert.Equal(t, CodeVestingScheduleInvalid, CodeOf(err))
	assert.Equal(t, before, *account)
}

func TestAccountCloneIsDeep(t *testing.T) {
	account := &AccountState{Vesting: &VestingSchedule{DurationSeconds: 1}}
	c := account.Clone()
	c.Vesting.DurationSeconds = 2
	assert.Equal(t, uint64(1), account.Vesting.DurationSeconds)
}
