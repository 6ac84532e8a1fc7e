package main

import (
	"os"
	"runtime"

	"github.com/spf13/viper"
)

// GLFW must be driven from the main thread.
func init() {
	runtime.LockOSThread()
}

func main() {
	if err := newRootCommand(viper.New()).Execute(); err != nil {
		os.Exit(1)
	}
}
