// Package shared holds the request decoding, response writing and trace id
// helpers used by every HTTP handler of the gateway.
package shared
