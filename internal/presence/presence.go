// Package presence holds the presence model for tracked Steam accounts: the
// per-account [State], the [Snapshot] of last-observed states, the [Store]
// that guards it, and [Diff], which classifies what changed between two
// observations of the same account.
package presence

import (
	"strconv"
	"time"
)

// ///////////////////////////////////////////////
// Status
// ///////////////////////////////////////////////

// Status is the presence level reported for an account. The numeric values
// follow Steam's personastate field.
type Status int

const (
	Offline Status = iota
	Online
	Busy
	Away
	Snoozed
	LookingToTrade
	LookingToPlay
)

var statusNames = [...]string{
	Offline:        "Offline",
	Online:         "Online",
	Busy:           "Busy",
	Away:           "Away",
	Snoozed:        "Snoozed",
	LookingToTrade: "LookingToTrade",
	LookingToPlay:  "LookingToPlay",
}

// String returns the enum name, e.g. "LookingToPlay".
func (s Status) String() string {
	if s >= 0 && int(s) < len(statusNames) {
		return statusNames[s]
	}
	return "Status(" + strconv.Itoa(int(s)) + ")"
}

// StatusFromPersonaState maps Steam's personastate value to a [Status].
// Unknown values are treated as Offline.
func StatusFromPersonaState(v int) Status {
	if v < 0 || v >= len(statusNames) {
		return Offline
	}
	return Status(v)
}

// MarshalText encodes the status by name so JSON output stays readable.
func (s Status) MarshalText() ([]byte, error) {
	return []byte(s.String()), nil
}

// ///////////////////////////////////////////////
// State and Snapshot
// ///////////////////////////////////////////////

// State is one observation of a tracked account.
type State struct {
	// ProfileName is the account's display name.
	ProfileName string `json:"profile_name"`
	// Activity is the game being played; empty means idle.
	Activity string `json:"activity,omitempty"`
	// Status is the presence level.
	Status Status `json:"status"`
}

// Snapshot maps a SteamID64 to the last state observed for it. A missing
// key means the account has not been observed yet.
type Snapshot map[uint64]State

// Clone returns a shallow copy of s. States are values, so the copy shares
// nothing mutable with s.
func (s Snapshot) Clone() Snapshot {
	out := make(Snapshot, len(s))
	for id, st := range s {
		out[id] = st
	}
	return out
}

// ///////////////////////////////////////////////
// Change Events
// ///////////////////////////////////////////////

// Kind identifies the type of a [Change].
type Kind int

const (
	ActivityStarted Kind = iota
	ActivityStopped
	StatusChanged
	NameChanged
)

func (k Kind) String() string {
	switch k {
	case ActivityStarted:
		return "activity_started"
	case ActivityStopped:
		return "activity_stopped"
	case StatusChanged:
		return "status_changed"
	case NameChanged:
		return "name_changed"
	default:
		return "unknown"
	}
}

// MarshalText encodes the kind by name.
func (k Kind) MarshalText() ([]byte, error) {
	return []byte(k.String()), nil
}

// Change is a single classified difference between two observations.
//
// Which fields are set depends on Kind:
//   - ActivityStarted / ActivityStopped: Activity
//   - StatusChanged: From, To, Label, Color
//   - NameChanged: OldName, NewName
type Change struct {
	Kind Kind `json:"kind"`
	// SteamID is the account the change concerns. Set by the caller of [Diff].
	SteamID uint64 `json:"steam_id,string"`
	// At is when the change was observed. Set by the caller of [Diff].
	At time.Time `json:"at"`
	// Name is the account's current display name.
	Name string `json:"name"`

	Activity string `json:"activity,omitempty"`

	From  Status `json:"from"`
	To    Status `json:"to"`
	Label string `json:"label,omitempty"`
	Color int    `json:"color,omitempty"`

	OldName string `json:"old_name,omitempty"`
	NewName string `json:"new_name,omitempty"`
}

// Message is a rendered notification: an embed title, body, and color.
type Message struct {
	Title string
	Body  string
	Color int
}
