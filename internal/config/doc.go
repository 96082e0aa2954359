// Package config loads and watches the pingline configuration file.
//
// Top-level types:
//   - Config{Probe, History, Render, Server} — full config tree parsed from YAML
//   - ProbeConfig — target, method (icmp|tcp), port, interval, timeout, privileged
//   - HistoryConfig — size, prefill, baseline
//   - RenderConfig — scale_min, scale_max, tiers
//   - ServerConfig — enabled, addr
//
// Load(path) reads the YAML file, applies defaults (google.com, 1s interval,
// 2s timeout, 60-sample history, 0–100ms scale, 8 tiers), then validates
// required fields and enums. Load("") returns the defaults directly so the
// binary runs without a config file.
//
// Watch(ctx, path, onChange) uses fsnotify to detect file changes and calls
// onChange with the newly parsed Config. It handles the rename→create pattern
// used by atomic-save editors (vim, VS Code) by re-adding the watch after
// a rename event.
package config
