// Command exchange is the command line client of the fruit exchange.
package main

import (
	"log"
	"os"

	"github.com/viant/exchange/cli"
	_ "github.com/viant/scy/kms/blowfish"
)

func main() {
	if err := cli.Run(os.Args[1:]); err != nil {
		log.Fatal(err)
	}
}
