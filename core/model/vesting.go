package model

// VestingSchedule unlocks TotalLocked linearly over DurationSeconds counted
// from StartTime. Nothing unlocks before the cliff; at the cliff instant the
// pro-rated amount becomes available at once.
type VestingSchedule struct {
	StartTime       uint64 `json:"start"`
	CliffSeconds    uint64 `json:"cliff"`
	DurationSeconds uint64 `json:"duration"`
	TotalLocked     Amount `json:"total_locked"`
}

func (v VestingSchedule) Validate() error {
	if v.DurationSeconds == 0 {
		return &VestingScheduleInvalidError{Reason: "duration_seconds must be positive"}
	}
	if v.CliffSeconds > v.DurationSeconds {
		return &VestingScheduleInvalidError{Reason: "cliff_seconds cannot exceed duration_seconds"}
	}
	return nil
}

// SameCurve reports whether both schedules share start, cliff and duration.
func (v VestingSchedule) SameCurve(other VestingSchedule) bool {
	return v.StartTime == other.StartTime &&
		v.CliffSeconds == other.CliffSeconds &&
		v.DurationSeconds == other.DurationSeconds
}

func (v VestingSchedule) UnlockedAt(timestamp uint64) Amount {
	if timestamp < v.StartTime {
		return Amount{}
	}
	elapsed := timestamp - v.StartTime
	if elapsed < v.CliffSeconds {
		return Amount{}
	}
	if elapsed >= v.DurationSeconds {
		return v.TotalLocked
	}
	return v.TotalLocked.MulDiv(elapsed, v.DurationSeconds).Min(v.TotalLocked)
}

func (v VestingSchedule) LockedAt(timestamp uint64) Amount {
	return v.TotalLocked.SaturatingSub(v.UnlockedAt(timestamp))
}
