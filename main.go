package main

import "github.com/notargets/nekprobe/cmd"

func main() {
	cmd.Execute()
}
