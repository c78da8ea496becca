/*
Package board lays a message board out over a store that offers nothing
but get and set of a value by name.  There are no range scans, no
transactions and no secondary indexes; every list and set the board
needs is derived from hashed keys and counter cells.

# Uses

- Public broadcast feed, readable most-recent-first

- Private threads between any two identities

- Friend lists, grown automatically as people message each other

# Layout

Three fixed cells hold the board's char limit, its creator, and the
number of broadcasts.  Everything else lives at a key derived by hashing
a tag, the creator's identity, and the participants:

	broadcast i       H("message_key" | owner | LE32(i))
	thread a,b        H("message_key" | owner | lo | hi)
	message i in a,b  H("message_key" | owner | lo | hi | LE32(i))
	friends of p      H("messaging_friends_key" | owner | p)

where lo and hi are a and b in byte order, so both directions of a
conversation share a thread, and LE32(i) is i as 32 little-endian bytes.
Each form hashes a different number of bytes, so no two of them
share hash input.  Keccak-256 is the default hash, matching boards
laid out by other implementations; Blake2b can be selected for new
boards.

# Appends

A record is written to its slot before its counter advances.  A
failure between the two leaves a slot nobody can see, which the next
append overwrites.  Readers trust the counter, so a slot missing below
it is reported as ErrMissingRecord rather than skipped.

# Concurrency

A Board does not lock.  Callers serialize operations on one board, as
a contract runtime would; reads of immutable records are safe to
share through a RecordCache.

# Storage

Persist implementations for the local filesystem, S3, LevelDB and
Pebble live under persist/.  The endpoint package wraps a Board with
the string- and JSON-returning interface existing clients expect, and
cmd/msgboard drives it from the command line.
*/
package board
