// Copyright (c) 2022 the didpoop authors.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

/*
Package idgen allocates the 64-bit primary-key identifiers used by every
table in the schema.

# Layout

An identifier is composed with bit arithmetic:

	id = (nowMillis - EpochMillis) << 20 | sequence

  - High 44 bits: milliseconds since EpochMillis.
  - Low 20 bits: a per-process counter value modulo 2^20.

Because the timestamp occupies the high bits, sorting rows by primary key
sorts them by creation time; list queries rely on this in addition to the
explicit created columns.

# Usage

Create one Generator at startup and share it:

	gen := idgen.New()
	id := gen.NextID()

The application assigns IDs explicitly before each INSERT; they are never
produced by a database default.

# Limitations

The design accepts two documented gaps rather than guarding them:
requesting more than 2^20 IDs in one millisecond silently reuses sequence
values, and a wall clock stepping backward breaks monotonicity. Both hold
only per process; running two processes against one primary-key space can
also collide.
*/
package idgen
