// Package toolcfg exposes typed views over the free-form [tool.X]
// settings namespaces of a manifest. Each consuming tool reads only its
// own namespace; unknown keys inside a recognized namespace are retained
// rather than rejected, and a missing namespace yields the tool's
// defaults together with an UnknownToolSectionError.
package toolcfg
