// Package timeline is the HTTP client for the remote watch-timeline pin API.
// It does request/response glue only: authentication headers, status mapping,
// and nothing else. Retries and local mirroring belong to callers.
package timeline
