// Package presencecord embeds the default configuration shipped with the
// daemon.
package presencecord

import _ "embed"

// DefaultConfigTOML holds config.default.toml. The daemon writes it to the
// data directory on first run and `presencecord config init` writes it on
// request.
//
//go:embed config.default.toml
var DefaultConfigTOML []byte
