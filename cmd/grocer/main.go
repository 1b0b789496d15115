package main

import "github.com/mohammad-safakhou/grocer/cmd"

func main() {
	cmd.Execute()
}
