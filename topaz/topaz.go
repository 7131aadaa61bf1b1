// Package topaz is the core of the topaz live-wallpaper supervisor. It keeps
// exactly one renderer process alive for the media file named in the
// configuration file, and replaces it whenever that file changes.
//
// Mechanism of Operation
//
// The components work independently and communicate over channels. The
// Watcher translates filesystem notifications on the configuration file into
// WatchEvents, and the SignalListener translates SIGINT and SIGTERM into a
// single ShutdownSignal. Neither touches the renderer.
//
// The Supervisor is the only owner of the ProcessHandle. Its control loop
// picks one notification at a time and runs the matching handler to
// completion before picking the next one, so a stop and the following start
// can never interleave with another stop or start:
//
//    Starting -> Running -> ReloadingConfig -> Running -> ... -> ShuttingDown -> Stopped
//
// A pending ShutdownSignal always takes precedence over pending WatchEvents.
//
// Everything worth knowing about is written into a Journaler as a typed Event.
package topaz
