// Package http contains the chi HTTP handlers for the dashboard API.
//
// Handlers are thin: they parse and validate the request, call one service
// method, and render the result with go-chi/render. Service sentinel errors
// are mapped to RFC 7807 problem responses through the shared ErrorHandler.
package http
