// Package resolver turns a manifest's dependency groups into a concrete
// install set. Available versions come from YAML package catalogs under
// one or more prioritized sources; resolution accumulates every
// constraint that reaches a package (direct and transitive) and selects
// the highest catalog version satisfying all of them.
package resolver
