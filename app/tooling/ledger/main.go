// This program builds, replays, and inspects a chain of block files on disk.
package main

import "github.com/ardanlabs/utxochain/app/tooling/ledger/cmd"

func main() {
	cmd.Execute()
}
