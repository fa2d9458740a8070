package main

import "github.com/simaogato/stockwalk/internal/cli"

func main() {
	cli.Execute()
}
