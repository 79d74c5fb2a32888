package main

import "github.com/periview/gazefilter/pkg/cli"

func main() {
	cli.RunCLI()
}
