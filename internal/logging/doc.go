// Package logging constructs the slog loggers used across photosift. The
// console format targets interactive runs; json is for collecting logs from
// scheduled runs.
package logging
