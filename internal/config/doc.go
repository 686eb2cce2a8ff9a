// Package config provides loading, validation and live storage of the plugin
// configuration.
//
// The configuration group "exposebankstate" has two keys:
//
//   - enableHttp (bool, default true): whether the status server runs at all
//   - port (int, default 8337): loopback port, valid range 1024-65535
//
// # Loading
//
// Load merges defaults, an optional file and environment variables. Files may be
// JSON, JSONC (comments stripped with tidwall/jsonc) or YAML:
//
//	{
//	  // overlay polls this port
//	  "enableHttp": true,
//	  "port": 8337,
//	}
//
// BANKSTATE_ENABLE_HTTP and BANKSTATE_PORT override the file. BANKSTATE_CONFIG
// overrides the default file location ($XDG_CONFIG_HOME/bankstate/config.json).
//
// # Live configuration
//
// Store is the in-process key-value store the plugin reads from. Set and Replace
// publish one event.ConfigChanged per key whose value actually changed. Watcher
// uses fsnotify to reload the file into a Store on every write.
package config
