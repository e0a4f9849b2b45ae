package main

import "github.com/miyata-dev/github-dormant/cmd"

func main() {
	cmd.Execute()
}
