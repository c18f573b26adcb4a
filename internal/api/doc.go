// Package api handles incoming HTTP requests, routing, request validation,
// and response formatting. It acts as an adapter between browser clients
// and the study service, translating HTTP concerns to session operations.
package api
