package main

import "github.com/robalobadob/jeopardy/apps/go-server/cmd"

func main() {
	cmd.Execute()
}
