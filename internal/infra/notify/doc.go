// Package notify delivers engine events to users. Every sink is
// fire-and-forget: failures are logged and never reach the engine.
package notify
