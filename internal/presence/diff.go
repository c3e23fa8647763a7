package presence

// Embed colors.
const (
	ColorGray      = 0x95A5A6
	ColorLightBlue = 0x87CEEB
	ColorOrange    = 0xFFA500
	ColorYellow    = 0xFFD700
	ColorAmber     = 0xFFBF00
	ColorWhite     = 0xFFFFFF
	ColorGreen     = 0x32CD32
	ColorRed       = 0xD92121
)

// ///////////////////////////////////////////////
// Status Override Chain
// ///////////////////////////////////////////////

// statusRule labels a status transition. Every rule whose match returns true
// overwrites the label chosen by earlier rules.
type statusRule struct {
	match func(from, to Status) bool
	label func(from, to Status) string
	color int
}

func label(s string) func(Status, Status) string {
	return func(Status, Status) string { return s }
}

func becomes(target Status) func(Status, Status) bool {
	return func(_, to Status) bool { return to == target }
}

// statusRules is evaluated top to bottom; the last match wins. The order is
// part of the output contract and must not be rearranged.
var statusRules = []statusRule{
	{
		match: func(from, to Status) bool { return from == Online && to == Offline },
		label: label("Offline"),
		color: ColorGray,
	},
	{
		match: becomes(Online),
		label: func(from, _ Status) string {
			if from == Offline {
				return "Back"
			}
			return "Online"
		},
		color: ColorLightBlue,
	},
	{match: becomes(Busy), label: label("Busy"), color: ColorOrange},
	{match: becomes(Away), label: label("Away"), color: ColorYellow},
	{match: becomes(Snoozed), label: label("Snooze"), color: ColorAmber},
}

// StatusLabel returns the display label and color for a transition between
// two different statuses. Transitions no rule covers use the target status
// name in white.
func StatusLabel(from, to Status) (string, int) {
	lbl, color := "", ColorWhite
	for _, r := range statusRules {
		if r.match(from, to) {
			lbl, color = r.label(from, to), r.color
		}
	}
	if lbl == "" {
		return to.String(), ColorWhite
	}
	return lbl, color
}

// ///////////////////////////////////////////////
// Diff
// ///////////////////////////////////////////////

// Diff classifies the differences between two observations of one account.
// Changes are returned in a fixed order: activity, status, name. Identical
// states produce no changes. SteamID and At are left for the caller.
func Diff(prev, cur State) []Change {
	var changes []Change

	if prev.Activity != cur.Activity {
		if cur.Activity != "" {
			changes = append(changes, Change{
				Kind:     ActivityStarted,
				Name:     cur.ProfileName,
				Activity: cur.Activity,
			})
		} else {
			changes = append(changes, Change{
				Kind:     ActivityStopped,
				Name:     cur.ProfileName,
				Activity: prev.Activity,
			})
		}
	}

	if prev.Status != cur.Status {
		lbl, color := StatusLabel(prev.Status, cur.Status)
		changes = append(changes, Change{
			Kind:  StatusChanged,
			Name:  cur.ProfileName,
			From:  prev.Status,
			To:    cur.Status,
			Label: lbl,
			Color: color,
		})
	}

	if prev.ProfileName != cur.ProfileName {
		changes = append(changes, Change{
			Kind:    NameChanged,
			Name:    cur.ProfileName,
			OldName: prev.ProfileName,
			NewName: cur.ProfileName,
		})
	}

	return changes
}
