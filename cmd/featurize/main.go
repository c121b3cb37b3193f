// Command featurize streams newline-delimited values through a fill imputer.
//
//	printf '\n\n2\n\n3\n' | featurize transform --type int64
//	featurize transform --type string --null-token NA --input data.txt --save state.bin
//	featurize inspect state.bin --type string
package main

import (
	"fmt"
	"os"
)

func main() {
	if err := newRootCmd().Execute(); err != nil {
		fmt.Fprintln(os.Stderr, "featurize:", err)
		os.Exit(1)
	}
}
