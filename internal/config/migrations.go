package config

import (
	"bytes"
	"fmt"

	"github.com/BurntSushi/toml"
	"tools.zach/dev/presencecord/internal/migrate"
)

func init() {
	migrate.Config.Register(migrate.Migration{
		Version:     2,
		Description: "steam.api_key string to steam.api_keys list",
		Upgrade:     upgradeAPIKeyList,
	})
}

// upgradeAPIKeyList moves a v1 single steam.api_key into the v2 api_keys list.
// An existing api_keys list wins; the single key is prepended if it is not
// already in it.
func upgradeAPIKeyList(data []byte) ([]byte, error) {
	var doc map[string]any
	if err := toml.Unmarshal(data, &doc); err != nil {
		return nil, fmt.Errorf("parse v1 config: %w", err)
	}

	if steam, ok := doc["steam"].(map[string]any); ok {
		if key, ok := steam["api_key"].(string); ok {
			keys := []string{}
			if key != "" {
				keys = append(keys, key)
			}
			if existing, ok := steam["api_keys"].([]any); ok {
				for _, k := range existing {
					if s, ok := k.(string); ok && s != key {
						keys = append(keys, s)
					}
				}
			}
			steam["api_keys"] = keys
			delete(steam, "api_key")
		}
	}
	doc["version"] = 2

	var buf bytes.Buffer
	if err := toml.NewEncoder(&buf).Encode(doc); err != nil {
		return nil, fmt.Errorf("encode v2 config: %w", err)
	}
	return buf.Bytes(), nil
}
