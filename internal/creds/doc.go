// Package creds resolves the timeline access token for each operation.
package creds
