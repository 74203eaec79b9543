// Command cartool inspects, converts and evaluates CART trees.
//
//	cartool parse '10|~20&30'
//	cartool dump trees/duration.cart --json
//	cartool convert in.cart out.cart --set-type auto --compression zstd
//	cartool classify --model s3://voices/en-US --tree duration --vector Tone=high,Stress=1
package main

import (
	"os"
)

func main() {
	if err := newRootCmd().Execute(); err != nil {
		os.Exit(1)
	}
}
