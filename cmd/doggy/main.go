package main

import "github.com/doggydelights/service/cmd/doggy/cmd"

func main() {
	cmd.Execute()
}
