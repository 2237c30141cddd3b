// Package gemini provides embedding and generation backends backed by the
// Google Generative Language REST API.
//
// Requests go through an API-key client from google.golang.org/api/transport/http
// and non-2xx responses surface as *googleapi.Error. Each backend wraps a single
// model. Backends built without an API key never create an HTTP client; every
// call fails with domain.ErrProviderUnavailable so that the provider chain moves
// on to the next backend.
package gemini
