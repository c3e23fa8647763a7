package tracker

import (
	"time"

	"tools.zach/dev/presencecord/internal/presence"
)

// TimeLayout is the timestamp format used in notification bodies.
const TimeLayout = "2006-01-02 15:04"

// Render turns a change into a notification with times shown in loc.
func Render(c presence.Change, loc *time.Location) presence.Message {
	ts := c.At.In(loc).Format(TimeLayout)

	switch c.Kind {
	case presence.ActivityStarted:
		return presence.Message{
			Title: c.Name + " | " + c.Activity,
			Body:  "Started Playing\n" + ts,
			Color: presence.ColorGreen,
		}
	case presence.ActivityStopped:
		return presence.Message{
			Title: c.Name + " | " + c.Activity,
			Body:  "Stopped Playing\n" + ts,
			Color: presence.ColorRed,
		}
	case presence.NameChanged:
		return presence.Message{
			Title: c.OldName + " | Name Change",
			Body:  c.OldName + " -> " + c.NewName + "\n" + ts,
			Color: presence.ColorWhite,
		}
	default:
		return presence.Message{
			Title: c.Name + " | " + c.Label,
			Body:  ts,
			Color: c.Color,
		}
	}
}
