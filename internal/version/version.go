// Package version contains information on the current version of the program.
// It is split from the main program for easy use.
package version

// Current is the string representing the current version of ChatMacro.
const Current = "0.4.0"

// ServerCurrent is the string representing the current version of the
// ChatMacro expansion server.
const ServerCurrent = "0.4.0"

// HostName is the default name of the host program reported by the "blish"
// macro when no other host label is configured.
const HostName = "ChatMacro"
