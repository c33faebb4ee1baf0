// Package source feeds the shipping pipeline from local log files.
//
// A follower tails one configured file (following rotation) and converts
// each line into an entry: JSON-object lines contribute their
// level/time/pid/msg fields with the remainder as meta, plain lines ship
// as-is at info level. Static per-source meta from the config is merged in
// without overriding the line's own keys.
//
// The Manager reconciles running followers against the config on every
// reload, so sources can be added and removed without a restart.
package source
