/*
Package log provides structured logging for rosmaster using zerolog.

A single package-level Logger is initialized once via Init and shared by
every other package. Context loggers (WithComponent, WithMethod) attach a
field without repeating it at every call site — the RPC dispatch layer
uses WithMethod on every inbound call, and the notifier uses WithComponent
when logging a dropped push.
*/
package log
