// Package ws streams monitor updates to WebSocket clients. The hub consumes
// the monitor's update channel and fans each tick out to all connected
// clients; slow clients are disconnected rather than allowed to stall the
// broadcast.
package ws
