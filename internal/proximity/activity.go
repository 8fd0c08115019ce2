package proximity

import "time"

// ActiveWindow is how recently a user must have been seen to count as online.
const ActiveWindow = 15 * time.Minute

// IsOnline reports whether lastActive falls strictly inside the window ending at now.
// A user seen exactly ActiveWindow ago is offline.
func IsOnline(lastActive, now time.Time) bool {
	return lastActive.After(now.Add(-ActiveWindow))
}

// IsOnlineUnix is IsOnline for a unix-seconds timestamp.
func IsOnlineUnix(lastActive int64, now time.Time) bool {
	return IsOnline(time.Unix(lastActive, 0), now)
}

// OnlineCutoff is the instant a last-active timestamp must be after to count as online.
// Stores use it to express the same predicate in a query.
func OnlineCutoff(now time.Time) time.Time {
	return now.Add(-ActiveWindow)
}
