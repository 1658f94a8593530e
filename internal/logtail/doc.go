// Package logtail reads the end of pipedeck's log file and pretty-prints it.
//
// Read keeps a ring buffer of maxLines entries while scanning the file once,
// so memory stays at O(maxLines) regardless of file size, and returns the
// lines oldest first. A non-positive maxLines returns the whole file. Missing
// files yield nil, nil; other I/O errors are wrapped.
//
// Render feeds JSON lines through zerolog.ConsoleWriter, producing the same
// "time LVL message key=value" layout zerolog prints to a terminal. Anything
// that does not decode as an event (a panic trace, a truncated write) is
// printed verbatim.
package logtail
