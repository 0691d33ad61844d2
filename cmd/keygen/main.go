// The keygen binary generates a secp256k1 keypair for the resolution
// gateway. The private key stays with the gateway process; the public key is
// the one the resolver contract must be deployed with.
package main

import (
	"fmt"
	"log"
	"os"

	"github.com/ethereum/go-ethereum/common/hexutil"
	"github.com/ethereum/go-ethereum/crypto"
	"github.com/urfave/cli/v2"
)

func main() {
	app := &cli.App{
		Name:  "keygen",
		Usage: "Generate a gateway attestation signing keypair",
		Action: func(cCtx *cli.Context) error {
			key, err := crypto.GenerateKey()
			if err != nil {
				return fmt.Errorf("key generation failed: %w", err)
			}

			fmt.Printf("private key: %s\n", hexutil.Encode(crypto.FromECDSA(key)))
			fmt.Printf("public key:  %s\n", hexutil.Encode(crypto.FromECDSAPub(&key.PublicKey)))
			return nil
		},
	}

	if err := app.Run(os.Args); err != nil {
		log.Fatal(err)
	}
}
