// Package redis provides Redis-backed infrastructure: the client factory and
// the cache that remembers LLM-generated distractors per answer.
package redis
