// Package constraint implements the version-range grammar used by
// pyproject dependency declarations: caret, tilde, wildcard, comparison
// operators, comma-joined conjunctions, and "||" unions.
package constraint
