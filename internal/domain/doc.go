// Package domain contains the core domain model for Lectern.
//
// The domain is format- and filesystem-agnostic: it does not depend on
// markdown parsing, YAML, or the filesystem. Infra/adapters map into/from
// these types.
package domain
