// Package http exposes the query pipeline as a JSON REST API.
//
// Routes:
//
//	GET  /         service info
//	GET  /health   index and backend readiness
//	POST /query    retrieval-augmented answer
//	GET  /search   retrieval only
//
// Index unavailability maps to 503, invalid input to 400 and anything
// else to 500. Error bodies are {"detail": "..."}.
package http
