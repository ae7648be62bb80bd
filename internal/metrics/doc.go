// Package metrics holds the Prometheus collectors of a session.
package metrics
