// chatmill - Chat Export Parser and Generator
//
// chatmill parses WhatsApp-style chat exports into structured message
// records and generates synthetic exports for testing.
package main

import (
	"os"

	"github.com/chatmill/chatmill/internal/cli"
)

func main() {
	os.Exit(cli.Execute())
}
