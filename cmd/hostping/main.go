// Package main enables hostping to execute as a CLI tool
package main

import (
	"context"
	"os"

	"github.com/pouriyajamshidi/hostping/internal/app"
)

func main() {
	os.Exit(app.Run(context.Background(), os.Args[1:], os.Stdout, os.Stderr))
}
