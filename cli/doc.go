// Package cli implements the exchange command line.
//
// Every command builds a client from the global flags (optionally merged with a
// YAML options file), so a session started by `login` is reused by later
// invocations through the configured credential store:
//
//	exchange mock -n zorp -p 'Secret#123' &
//	exchange login -n zorp -p 'Secret#123'
//	exchange fruits --rarity 5
//	exchange trade --from 1 --to 2 -f 3 -q 4 -t sell --alien
package cli
