// Package protocol encodes the byte-oriented memory access command set spoken to the target.
//
// Every command is a one byte opcode optionally followed by a 4-byte payload:
//
//	a ADDR   set the target cursor
//	w WORD   store WORD at the cursor, cursor += 4
//	R        return 8 raw bytes from the cursor, cursor += 8
//	r        return 4 raw bytes from the cursor, cursor += 4
//
// There is no acknowledgement, checksum or sequence number. Read responses are raw bytes
// delivered in request order, so the host must remember the size of every burst it has
// requested (see Pending).
package protocol
