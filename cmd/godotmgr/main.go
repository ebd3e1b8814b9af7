package main

import (
	"fmt"
	"os"
)

// Version will be set at build time via -ldflags
var Version = "v0.1.0"

func main() {
	if len(os.Args) > 1 {
		var err error
		switch os.Args[1] {
		case "--version", "version":
			fmt.Printf("GodotManager %s\n", Version)
			return
		case "list":
			err = runList(os.Args[2:], os.Stdout)
		case "install":
			err = runInstall(os.Args[2:], os.Stdout)
		case "platform":
			err = runPlatform(os.Args[2:], os.Stdout)
		case "config":
			err = runConfig(os.Args[2:], os.Stdout)
		case "help", "--help", "-h":
			printHelp()
			return
		default:
			fmt.Fprintf(os.Stderr, "Error: unknown command: %s\n", os.Args[1])
			printHelp()
			os.Exit(1)
		}
		if err != nil {
			fmt.Fprintf(os.Stderr, "Error: %s\n", describeError(err))
			os.Exit(1)
		}
		return
	}

	printHelp()
}

func printHelp() {
	fmt.Println("GodotManager - install Godot editor builds")
	fmt.Println()
	fmt.Println("Usage:")
	fmt.Println("  godotmgr --version              Show version information")
	fmt.Println("  godotmgr list                   List the latest releases")
	fmt.Println("  godotmgr install <tag> [--mono] Download and extract a release")
	fmt.Println("  godotmgr platform               Show the detected platform")
	fmt.Println("  godotmgr config [show|path]     Show the effective configuration")
	fmt.Println()
	fmt.Println("Global options:")
	fmt.Println("  --config <file>  Lua config file (default: $GODOTMGR_CONFIG or the user config dir)")
	fmt.Println("  --root <dir>     Install root")
	fmt.Println("  --debug          Debug logging (also GODOTMGR_DEBUG=1)")
}
