package main

import "github.com/KaramelBytes/bpvar-cli/cmd"

func main() {
	cmd.Execute()
}
