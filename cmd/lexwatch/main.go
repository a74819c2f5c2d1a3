package main

import (
	"os"

	"horse.fit/lexwatch/internal/app"
)

func main() {
	os.Exit(app.Run(os.Args[1:]))
}
