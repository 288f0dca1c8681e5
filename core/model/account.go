package model

type AccountState struct {
	Balance       Amount           `json:"balance"`
	LockedBalance Amount           `json:"locked_balance"`
	Vesting       *VestingSchedule `json:"vesting,omitempty"`
}

// AvailableBalance is the spendable part of Balance at timestamp. An attached
// vesting schedule takes precedence over the flat LockedBalance.
func (a *AccountState) AvailableBalance(timestamp uint64) Amount {
	locked := a.LockedBalance
	if a.Vesting != nil {
		locked = a.Vesting.LockedAt(timestamp)
	}
	return a.Balance.SaturatingSub(locked)
}

// CheckVesting reports whether ApplyVesting would accept schedule.
func (a *AccountState) CheckVesting(schedule VestingSchedule) error {
	if err := schedule.Validate(); err != nil {
		return err
	}
	if a.Vesting != nil && !a.Vesting.SameCurve(schedule) {
		return &VestingScheduleInvalidError{Reason: "conflicting vesting schedule"}
	}
	return nil
}

// ApplyVesting merges a grant into the account. Only top-ups of the curve
// already attached are accepted.
func (a *AccountState) ApplyVesting(schedule VestingSchedule) error {
	if err := a.CheckVesting(schedule); err != nil {
		return err
	}
	a.LockedBalance = a.LockedBalance.SaturatingAdd(schedule.TotalLocked)
	if a.Vesting == nil {
		merged := schedule
		a.Vesting = &merged
		return nil
	}
	merged := *a.Vesting
	merged.TotalLocked = merged.TotalLocked.SaturatingAdd(schedule.TotalLocked)
	a.Vesting = &merged
	return nil
}

func (a *AccountState) Clone() *AccountState {
	c := *a
	if a.Vesting != nil {
		v := *a.Vesting
		c.Vesting = &v
	}
	return &c
}
