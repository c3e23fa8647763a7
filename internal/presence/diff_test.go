package presence

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDiffIdenticalStates(t *testing.T) {
	states := []State{
		{},
		{ProfileName: "Alice", Status: Online},
		{ProfileName: "Bob", Activity: "Chess", Status: LookingToPlay},
	}
	for _, s := range states {
		assert.Empty(t, Diff(s, s), "Diff(%+v, same)", s)
	}
}

func TestDiffActivity(t *testing.T) {
	idle := State{ProfileName: "Alice", Status: Online}
	playing := State{ProfileName: "Alice", Status: Online, Activity: "Chess"}

	started := Diff(idle, playing)
	require.Len(t, started, 1)
	assert.Equal(t, ActivityStarted, started[0].Kind)
	assert.Equal(t, "Chess", started[0].Activity)

	stopped := Diff(playing, idle)
	require.Len(t, stopped, 1)
	assert.Equal(t, ActivityStopped, stopped[0].Kind)
	assert.Equal(t, "Chess", stopped[0].Activity)
}

func TestDiffActivitySwitchReportsNewGame(t *testing.T) {
	prev := State{ProfileName: "Alice", Activity: "Chess"}
	cur := State{ProfileName: "Alice", Activity: "Go"}

	changes := Diff(prev, cur)
	require.Len(t, changes, 1)
	assert.Equal(t, ActivityStarted, changes[0].Kind)
	assert.Equal(t, "Go", changes[0].Activity)
}

func TestStatusLabel(t *testing.T) {
	tests := []struct {
		from, to  Status
		wantLabel string
		wantColor int
	}{
		{Online, Offline, "Offline", ColorGray},
		{Offline, Online, "Back", ColorLightBlue},
		{Away, Online, "Online", ColorLightBlue},
		{Busy, Online, "Online", ColorLightBlue},
		{Online, Busy, "Busy", ColorOrange},
		{Offline, Busy, "Busy", ColorOrange},
		{Snoozed, Away, "Away", ColorYellow},
		{Online, Away, "Away", ColorYellow},
		{Away, Snoozed, "Snooze", ColorAmber},
		{Busy, Offline, "Offline", ColorWhite},
		{Online, LookingToPlay, "LookingToPlay", ColorWhite},
		{Away, LookingToTrade, "LookingToTrade", ColorWhite},
	}
	for _, tt := range tests {
		t.Run(tt.from.String()+"->"+tt.to.String(), func(t *testing.T) {
			lbl, color := StatusLabel(tt.from, tt.to)
			assert.Equal(t, tt.wantLabel, lbl)
			assert.Equal(t, tt.wantColor, color)
		})
	}
}

func TestDiffOrderActivityStatusName(t *testing.T) {
	prev := State{ProfileName: "Alice", Status: Away}
	cur := State{ProfileName: "Alicia", Status: Online, Activity: "Tetris"}

	changes := Diff(prev, cur)
	require.Len(t, changes, 3)
	assert.Equal(t, ActivityStarted, changes[0].Kind)
	assert.Equal(t, StatusChanged, changes[1].Kind)
	assert.Equal(t, "Online", changes[1].Label)
	assert.Equal(t, NameChanged, changes[2].Kind)
	assert.Equal(t, "Alice", changes[2].OldName)
	assert.Equal(t, "Alicia", changes[2].NewName)
}

func TestDiffScenarioBackWithGame(t *testing.T) {
	prev := State{ProfileName: "Alice", Status: Offline}
	cur := State{ProfileName: "Alice", Status: Online, Activity: "Tetris"}

	changes := Diff(prev, cur)
	require.Len(t, changes, 2)
	assert.Equal(t, ActivityStarted, changes[0].Kind)
	assert.Equal(t, "Tetris", changes[0].Activity)
	assert.Equal(t, StatusChanged, changes[1].Kind)
	assert.Equal(t, "Back", changes[1].Label)
	assert.Equal(t, Offline, changes[1].From)
	assert.Equal(t, Online, changes[1].To)
}

func TestStatusFromPersonaState(t *testing.T) {
	assert.Equal(t, Offline, StatusFromPersonaState(0))
	assert.Equal(t, Snoozed, StatusFromPersonaState(4))
	assert.Equal(t, LookingToPlay, StatusFromPersonaState(6))
	assert.Equal(t, Offline, StatusFromPersonaState(7))
	assert.Equal(t, Offline, StatusFromPersonaState(-1))
}

func TestStatusString(t *testing.T) {
	assert.Equal(t, "LookingToTrade", LookingToTrade.String())
	assert.Equal(t, "Status(9)", Status(9).String())
}
