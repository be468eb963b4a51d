// Package api provides an HTTP client for the club management API.
//
// # Overview
//
// The package is split into two files:
//
//   - client.go: authenticated JSON requests and failure classification
//   - types.go: the generic Resource gateway and the club's resources
//
// # Client Usage
//
//	client, err := api.NewClient("http://127.0.0.1:3000", sess,
//		api.WithTimeout(10*time.Second), api.WithRateLimit(10))
//	if err != nil {
//		return err
//	}
//	gw := api.NewGateways(client)
//	items, err := gw.Inventory.List(ctx)
//
// # API Endpoints
//
// Every resource exposes the same four calls:
//
//   - GET /api/{resource}: JSON array of records
//   - POST /api/{resource}: create, returns the stored record
//   - PUT /api/{resource}/{id}: update, returns the stored record
//   - DELETE /api/{resource}/{id}: delete, empty body
//
// # Request Handling
//
// All requests:
//   - Ask the TokenSource first; a missing token fails as auth without a request
//   - Wait on the rate limiter when one is configured
//   - Send Authorization: Bearer, Accept and User-Agent headers
//   - Return *fault.FetchError on failure
//
// # Error Handling
//
// Status codes map through fault.ClassifyStatus: 401 and 403 are auth, other
// 4xx are validation, 5xx are server. The server's {"message": "..."} or
// {"error": "..."} body becomes the error message; otherwise a generic one
// derived from the status is used. A 2xx body that does not decode is a
// server failure. Transport failures (refused, timeout, DNS) are network.
//
// # Thread Safety
//
// Client and Resource are safe for concurrent use.
package api
