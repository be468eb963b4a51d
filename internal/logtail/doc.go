// Package logtail reads the tail of plantel's own log file for the in-app log
// overlay.
//
// # Reading Log Files
//
// Read walks backwards from the end of the file in fixed chunks and stops as
// soon as it has maxLines lines, so the cost follows the tail, not the file:
//
//	lines, err := logtail.Read(cfg.LogFile, 400)
//
// Read returns nil, nil for a missing file. Other errors are wrapped.
//
// # Parsing
//
// The log is written by slog.TextHandler. Parse splits a line into time,
// level, message and the remaining attributes, unquoting quoted values.
// Lines that are not key=value records (a panic trace, say) are kept as INFO
// entries carrying the raw text. Tail combines Read, ParseLines and a
// minimum-level Filter.
package logtail
