package main

import "github.com/jspires/wordduel/internal/cli"

func main() {
	cli.Execute()
}
