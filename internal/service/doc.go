// Package service exposes the three pin operations — add, delete, list —
// combining the remote timeline client, credential resolution, and the local
// pin mirror. It is the layer automation flows and the CLI call into.
package service
