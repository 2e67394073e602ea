// Package preview serves a live render session over HTTP.
//
// Routes:
//
//	GET  /                      page with the rendered tree and a small client
//	GET  /snapshot              current markup
//	POST /dispatch/{id}/{event} run the on<event> handler of the element with id
//	POST /export                store a snapshot through the configured exporter
//	GET  /ws                    WebSocket; one message per completed pass
//	GET  /metrics               Prometheus metrics (when a registry is set)
package preview
