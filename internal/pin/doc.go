// Package pin defines the Pin type and the normalization boundary where
// caller-supplied pin objects are coerced into well-formed values before
// entering the local store.
package pin
