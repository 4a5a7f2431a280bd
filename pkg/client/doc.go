// Package client talks to the key-value store's JSON HTTP API.
//
// Every store route is a POST without query parameters: /keys, /get/{key},
// /set/{key}, /del/{key}, /ping and /purge. Keys are path-escaped. The client
// never retries; the only deadline is the one carried by the context or the
// injected *http.Client.
//
// An OpenAPI description of the store API is embedded (storeapi.yaml). When a
// client is built WithContract, every decoded response body is checked
// against the documented response schema and mismatches surface as
// ErrContract.
package client
