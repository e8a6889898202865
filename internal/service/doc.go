// Package service contains the application use cases that sit between the
// HTTP layer and the stores: deck management, deck creation from freeform
// text, and transactional persistence of finished games.
//
// Services receive their dependencies through constructor injection and
// depend only on the store and generation interfaces, never on a concrete
// database or model provider.
package service
