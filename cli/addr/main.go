package main

import (
	"encoding/hex"
	"fmt"
	"os"

	stellar "github.com/alexdcox/stellar-go"
)

func main() {
	if len(os.Args) != 2 {
		fmt.Fprintln(os.Stderr, "usage: addr <G.../C... address>")
		os.Exit(1)
	}

	in := os.Args[1]

	if key, err := stellar.DecodeStrkey(stellar.StrkeyVersionAccount, in); err == nil {
		fmt.Printf("account ed25519 public key: %s\n", hex.EncodeToString(key))
		return
	}

	if hash, err := stellar.DecodeStrkey(stellar.StrkeyVersionContract, in); err == nil {
		fmt.Printf("contract id: %s\n", hex.EncodeToString(hash))
		return
	}

	fmt.Fprintf(os.Stderr, "not a valid account or contract strkey: %s\n", in)
	os.Exit(1)
}
