package main

import (
	"fmt"
	"os"
	"runtime/debug"
)

func main() {
	cli := parseArgs(os.Args[1:])

	switch cli.mode {
	case gamesMode:
		checkf(listGames(os.Stdout, cli.Games.JSON), "failed to list games")
	case romInfosMode:
		checkf(romInfos(os.Stdout, cli.RomInfos.RomPath), "failed to check rom set")
	case versionMode:
		printVersion()
	case runMode:
		runMain(cli.Run)
	}
}

func printVersion() {
	version := "(devel)"
	if bi, ok := debug.ReadBuildInfo(); ok && bi.Main.Version != "" {
		version = bi.Main.Version
	}
	fmt.Println("atarihw", version)
}
