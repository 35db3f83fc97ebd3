package logger

import (
	"io"
	"log"
	"os"
)

const defaultFlags = log.Ldate | log.Ltime | log.Lshortfile

// Initialized at declaration so logging is safe from any package init or
// test, with or without Setup.
var (
	Info    = log.New(os.Stdout, "INFO: ", defaultFlags)
	Warning = log.New(os.Stdout, "WARNING: ", defaultFlags)
	Error   = log.New(os.Stderr, "ERROR: ", defaultFlags)
	Debug   = log.New(io.Discard, "DEBUG: ", defaultFlags)
	HTTP    = log.New(os.Stdout, "HTTP: ", log.Ldate|log.Ltime)
)

// Setup applies environment-dependent tuning. Call once at process start.
func Setup() {
	if os.Getenv("APP_DEBUG") == "true" {
		Debug.SetOutput(os.Stdout)
	}
}
