// Command reqslots sends HTTP requests through the cache, share and retry
// engines.
package main

import "os"

func main() {
	if err := newRootCmd().Execute(); err != nil {
		os.Exit(1)
	}
}
