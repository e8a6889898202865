// Package api exposes decks and live games over JSON/HTTP. Requests are
// authenticated with bearer tokens, routed with chi, and translated into
// calls on the deck service and the play registry. Live game snapshots are
// also pushed over WebSocket.
//
// Errors are mapped to status codes in one place (MapErrorToStatusCode) and
// clients only ever see the sanitized message from GetSafeErrorMessage.
package api
