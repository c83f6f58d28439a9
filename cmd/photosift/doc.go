// Command photosift reconciles a local photo/video backup tree against an
// Immich library and triages the files the library is missing.
package main
