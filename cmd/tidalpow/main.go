package main

import (
	_ "time/tzdata"

	"github.com/tidalpow/backend-go/internal/cli"
)

func main() {
	cli.Execute()
}
