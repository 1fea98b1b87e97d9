// Package scaffold generates a fresh pyproject manifest (and companion
// files) for a new project from embedded templates.
package scaffold
