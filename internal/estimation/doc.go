// Package estimation defines a pluggable fire-safety equipment estimation engine.
//
// Quantity resolution for each building type is encapsulated in one specific Policy, and the Engine prices and
// aggregates the quantities it returns into a Result.
package estimation
