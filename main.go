package main

import "github.com/Andrei15193/CodeMap-sub002/cmd"

func main() {
	cmd.Execute()
}
