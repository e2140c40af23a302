package main

import "github.com/m3hr4nn/logboss/internal/cmd"

func main() {
	cmd.Execute()
}
