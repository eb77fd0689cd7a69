// Command apigend serves versioned API modules over HTTP.
//
//	apigend serve --config /etc/apigen.yaml
//	apigend call json 1 users list
package main

import (
	"fmt"
	"os"
)

func main() {
	if err := newRootCmd().Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}
