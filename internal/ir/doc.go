// Package ir provides the canonical literal value model used to encode
// predicate trees for hashing and comparison.
//
// This package imports nothing internal. Packages that need a stable,
// byte-exact encoding convert their data to IRValue and call
// MarshalCanonical or Fingerprint.
//
// Key design constraints:
//   - NO float types - floats are rendered by callers as decimal strings
//   - NO null - absence is expressed by omitting a key
//   - Object keys are NFC normalized; string values are kept byte-exact
//     because consumers compare them byte for byte
//   - Object keys are ordered by UTF-16 code units (RFC 8785)
package ir
