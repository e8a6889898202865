// Package play hosts the live games behind the HTTP surface. Each user owns
// at most one single-player session and one friend game; starting another
// closes the previous one. Snapshots from the engines are fanned out to any
// number of stream subscribers.
package play
