// Package api holds the HTTP handlers of the punishcards service. Handlers
// decode and validate requests, call the services in internal/service and
// translate their errors into status codes and client-safe messages.
package api
