// Package services implements the driving port interfaces.
// Services contain the core logic and orchestrate calls to driven ports
// (adapters). They perform no filesystem or database I/O of their own.
package services
