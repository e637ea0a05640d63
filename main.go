package main

import "github.com/croftbox/hsworker/cmd"

func main() {
	cmd.Execute()
}
