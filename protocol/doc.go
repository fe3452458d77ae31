// Package protocol defines the wire protocol between the Monopoly companion
// server and its clients.
//
// Every message is a JSON envelope {type, data} preceded by a 4-byte
// little-endian length prefix, so a message survives being split across
// network reads and multiple messages arriving in one read. The data
// payload is decoded into a kind-specific struct after routing on type.
package protocol
