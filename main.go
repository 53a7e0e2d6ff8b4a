package main

import (
	cmd "github.com/correonano/apollo/cmd/payctx"
)

func main() {
	cmd.Execute()
}
