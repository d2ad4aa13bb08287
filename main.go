package main

import "github.com/brogergvhs/baotang/cmd"

func main() {
	cmd.Execute()
}
