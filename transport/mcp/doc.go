// Package mcp exposes the observer REST API as Model Context Protocol
// tools, so an assistant can inspect the live table without speaking the
// game protocol. The client is a thin proxy: every tool is one GET against
// the REST surface, returned verbatim as tool output.
package mcp
