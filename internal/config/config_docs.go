package config

// ///////////////////////////////////////////////
// Documentation Types
// ///////////////////////////////////////////////

// FieldDoc holds documentation and alternative examples for a single config field.
// The genconfig tool uses [FieldDoc] values to annotate the generated config.default.toml.
type FieldDoc struct {
	// Comment is shown as a header comment above the field in the example config.
	Comment string

	// Alternatives are shown as commented-out lines below the active value.
	Alternatives []string
}

// ///////////////////////////////////////////////
// Field Documentation Map
// ///////////////////////////////////////////////

// ConfigDocs maps TOML field paths (dot-separated, e.g. "tracker.time_zone")
// to their [FieldDoc] entries.
var ConfigDocs = map[string]FieldDoc{
	// ── Root ──────────────────────────────────────────────────────
	"version": {
		Comment: "Config schema version. Do not edit.",
	},

	// ── Discord ──────────────────────────────────────────────────
	"discord": {
		Comment: "Bot that posts presence changes. The bot needs Send Messages and\nEmbed Links in the target channel.",
	},
	"discord.token": {
		Comment: "Bot token from the Discord developer portal.",
	},
	"discord.channel_id": {
		Comment: "Channel that receives notifications (right click > Copy Channel ID).",
		Alternatives: []string{
			`channel_id = "123456789012345678"`,
		},
	},

	// ── Steam ────────────────────────────────────────────────────
	"steam": {
		Comment: "Steam Web API access. Get a key at https://steamcommunity.com/dev/apikey",
	},
	"steam.api_keys": {
		Comment: "Web API keys. Only the first key is used; keep spares here for rotation.",
		Alternatives: []string{
			`api_keys = ["XXXXXXXXXXXXXXXXXXXXXXXXXXXXXXXX"]`,
		},
	},
	"steam.ids": {
		Comment: "SteamID64 values to track. Edit here or use `presencecord track add`.\nChanges apply on the next poll without a restart.",
		Alternatives: []string{
			`ids = [76561197960287930]`,
		},
	},
	"steam.base_url": {
		Comment: "Override the Steam Web API endpoint (for proxies and tests).",
		Alternatives: []string{
			`base_url = "https://api.steampowered.com"`,
		},
	},
	"steam.timeout_seconds": {
		Comment: "Upper bound for one poll's fetch, including retries.",
	},

	// ── Tracker ──────────────────────────────────────────────────
	"tracker.refresh_interval_seconds": {
		Comment: "Seconds between polls. Requires a restart to change.",
	},
	"tracker.time_zone": {
		Comment: "IANA time zone for timestamps in notifications. Requires a restart to change.",
		Alternatives: []string{
			`time_zone = "America/New_York"`,
			`time_zone = "Asia/Tokyo"`,
		},
	},

	// ── Notify ───────────────────────────────────────────────────
	"notify.muted_activities": {
		Comment: "Games whose start/stop is never announced. Glob patterns supported.\nStatus and name changes are still sent.",
		Alternatives: []string{
			`muted_activities = ["Wallpaper Engine", "Steamworks*"]`,
		},
	},
	"notify.queue_size": {
		Comment: "Notifications waiting for delivery. Extra ones are dropped and logged.",
	},

	// ── HTTP ─────────────────────────────────────────────────────
	"http.listen": {
		Comment: "Address for the status server (/presence, /events, /metrics, /healthz).\nEmpty disables it.",
		Alternatives: []string{
			`listen = ""`,
			`listen = "0.0.0.0:8787"`,
		},
	},

	// ── Log ──────────────────────────────────────────────────────
	"log": {
		Comment: "Logging configuration",
	},
	"log.level": {
		Comment: "Minimum log level. Options: \"trace\", \"debug\", \"info\", \"warn\", \"error\"",
		Alternatives: []string{
			`level = "debug"`,
			`level = "warn"`,
		},
	},
	"log.max_size_mb": {
		Comment: "Maximum log file size in megabytes before rotation.",
	},
}
