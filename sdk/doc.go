// Package sdk is a Go client for the Quill blogging API.
//
// A Client performs unauthenticated calls (register, login, token refresh)
// and produces a Session once credentials are established. The Session
// attaches the access token to every request, transparently refreshes it
// when the server rejects it, and can restore itself from a TokenStore
// across process restarts.
package sdk
