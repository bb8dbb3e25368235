package model

import (
	"sort"
	"time"
)

// Session records one authenticated login instance. It lives embedded in its
// User document and is never persisted on its own.
type Session struct {
	SessionID string    `json:"sessionId" bson:"sessionId"`
	LoginTime time.Time `json:"loginTime" bson:"loginTime"`
	Device    string    `json:"device" bson:"device"`
	IP        string    `json:"ip" bson:"ip"`
}

// AppendBounded appends s to sessions and trims the oldest entries from the
// front so the result never exceeds max. Entries are kept in insertion order,
// which is also loginTime order for a single user.
func AppendBounded(sessions []Session, s Session, max int) []Session {
	sessions = append(sessions, s)
	if max > 0 && len(sessions) > max {
		sessions = sessions[len(sessions)-max:]
	}
	return sessions
}

// NewestFirst returns a copy of sessions sorted by loginTime, newest first.
func NewestFirst(sessions []Session) []Session {
	out := make([]Session, len(sessions))
	copy(out, sessions)
	sort.SliceStable(out, func(i, j int) bool {
		return out[i].LoginTime.After(out[j].LoginTime)
	})
	return out
}
