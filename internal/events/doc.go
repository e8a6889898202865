// Package events provides types and interfaces for an event-driven architecture.
//
// Game engines publish lifecycle events, such as a finished game, without
// knowing who consumes them. The result persistence pipeline in package task
// registers a handler that turns those events into background work.
//
// The primary components are:
// - Event: a typed envelope with a JSON payload
// - EventHandler: Interface for components that can handle events
// - EventEmitter: Interface for components that can emit events
package events
