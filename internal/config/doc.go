// Package config loads and validates the logrelay YAML configuration.
//
// Secrets (the ingestion API key, the metrics bearer token) are never stored
// in the file itself; the file names an environment variable (key_env,
// token_env) and the value is resolved at read time.
//
// Shipper settings are resolved once at startup and stay fixed for the
// process lifetime. Watch() re-applies only the sources list on file change.
package config
