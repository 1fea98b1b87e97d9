// Package manifest handles parsing, validation, and serialization of
// pyproject manifests. It models the [tool.poetry] project tables,
// dependency groups, the [build-system] table, and the free-form
// [tool.X] settings namespaces consumed by external tools.
package manifest
