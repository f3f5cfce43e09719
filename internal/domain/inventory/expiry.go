package inventory

import (
	"math"
	"time"
)

// ExpiringSoonWindowDays is the inclusive warning window: an active item
// expiring within this many days counts as "expiring soon".
const ExpiringSoonWindowDays = 3

// ExpiryStatus labels an item's position relative to its expiry date.
type ExpiryStatus string

const (
	ExpiryStatusExpired  ExpiryStatus = "expired"
	ExpiryStatusToday    ExpiryStatus = "expires_today"
	ExpiryStatusTomorrow ExpiryStatus = "expires_tomorrow"
	ExpiryStatusInDays   ExpiryStatus = "expires_in_days"
)

// DaysUntilExpiry returns the whole-day distance from now to expiry,
// rounding partial days up. An expiry earlier than now yields a negative
// count.
func DaysUntilExpiry(expiry, now time.Time) int {
	diff := expiry.Sub(now)
	return int(math.Ceil(diff.Hours() / 24))
}

// ClassifyExpiry maps a day count onto a status label. Zero days means the
// item expires today, not that it has expired.
func ClassifyExpiry(days int) ExpiryStatus {
	switch {
	case days < 0:
		return ExpiryStatusExpired
	case days == 0:
		return ExpiryStatusToday
	case days == 1:
		return ExpiryStatusTomorrow
	default:
		return ExpiryStatusInDays
	}
}

// DaysUntilExpiry returns the whole-day distance from now to this item's expiry.
func (f *FoodItem) DaysUntilExpiry(now time.Time) int {
	return DaysUntilExpiry(f.expiryDate, now)
}

// ExpiryStatus returns the status label for this item relative to now.
func (f *FoodItem) ExpiryStatus(now time.Time) ExpiryStatus {
	return ClassifyExpiry(f.DaysUntilExpiry(now))
}

// IsExpiringSoon reports whether an active item falls inside the warning
// window. Used items are never expiring soon regardless of date.
func (f *FoodItem) IsExpiringSoon(now time.Time) bool {
	if f.used {
		return false
	}
	return f.DaysUntilExpiry(now) <= ExpiringSoonWindowDays
}
