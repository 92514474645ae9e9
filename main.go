package main

import "github.com/fedmcp/fmcpx/cmd"

func main() {
	cmd.Execute()
}
