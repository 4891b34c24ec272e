// Command cborecho serves an endpoint that echoes CBOR request bodies, using
// the size and content-type policy of package cborbody.
package main

import (
	"os"
)

func main() {
	if err := newRootCmd().Execute(); err != nil {
		os.Exit(1)
	}
}
