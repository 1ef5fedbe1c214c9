package main

import (
	"fmt"
	"os"
	"strings"

	"github.com/alecthomas/kong"

	"atarihw/emu/log"
)

type mode byte

const (
	runMode      mode = iota // Run a game
	gamesMode                // List supported games
	romInfosMode             // Check a ROM set
	versionMode              // Show atarihw version
)

type (
	CLI struct {
		Run      Run      `cmd:"" help:"Run a game without display."`
		Games    Games    `cmd:"" help:"List supported games."`
		RomInfos RomInfos `cmd:"" help:"Check a ROM set against its manifest." name:"rom-infos"`
		Version  Version  `cmd:"" help:"Show atarihw version."`

		Log logModMask `help:"${log_help}" placeholder:"mod0,mod1,..."`

		mode mode
	}

	Run struct {
		Game    string `arg:"" help:"Name of the game, see the games command."`
		RomPath string `arg:"" name:"/path/to/romset" help:"${rompath_help}" optional:"" type:"path"`

		Frames     int    `name:"frames" help:"Number of frames to run (0 uses the config)."`
		Screenshot string `name:"screenshot" help:"Write the last frame as PNG." type:"path" placeholder:"FILE"`
		Scale      int    `name:"scale" help:"Screenshot scale factor (0 uses the config)."`
		State      string `name:"state" help:"Load a save state before running." type:"existingfile" placeholder:"FILE"`
		SaveState  string `name:"save-state" help:"Write a save state after running." type:"path" placeholder:"FILE"`
		NoAudio    bool   `name:"no-audio" help:"Disable audio."`
		CPUProfile string `name:"cpuprofile" help:"${cpuprofile_help}" type:"path"`
	}

	Games struct {
		JSON bool `name:"json" help:"Print as JSON."`
	}

	RomInfos struct {
		RomPath string `arg:"" name:"/path/to/romset" type:"path"`
	}

	Version struct{}
)

var vars = kong.Vars{
	"rompath_help":    "Directory or zip archive of the ROM set. Defaults to <rom_dir>/<game>.",
	"cpuprofile_help": "Write CPU profile to file.",
	"log_help":        "Enable logging for specified modules.",
}

func parseArgs(args []string) CLI {
	var cfg CLI
	parser, err := kong.New(&cfg,
		kong.Name("atarihw"),
		kong.Description("Atari raster games hardware emulator."),
		kong.UsageOnError(),
		kong.Help(printHelp),
		vars)
	if err != nil {
		panic(err)
	}

	ctx, err := parser.Parse(args)
	checkf(err, "failed to parse command line")
	checkf(ctx.Error, "failed to parse command line")

	switch strings.Fields(ctx.Command())[0] {
	case "games":
		cfg.mode = gamesMode
	case "rom-infos":
		cfg.mode = romInfosMode
	case "version":
		cfg.mode = versionMode
	default:
		cfg.mode = runMode
	}
	return cfg
}

func printHelp(options kong.HelpOptions, ctx *kong.Context) error {
	if err := kong.DefaultHelpPrinter(options, ctx); err != nil {
		return err
	}
	if strings.HasPrefix(ctx.Command(), "run") {
		loggingHelp := `
Log modules:
  The --log flag accepts a comma-separated list of modules.

  Valid log modules are:
%s

  As a special case, the following values are accepted:
    - no                     Disable all logging.
    - all                    Enable all logs.
`
		var strs []string
		for _, m := range log.ModuleNames() {
			strs = append(strs, "    - "+m)
		}

		fmt.Fprintf(os.Stderr, loggingHelp, strings.Join(strs, "\n"))
	}

	return nil
}

type logModMask log.ModuleMask

// Decode decodes a comma-separated list of log modules and enables them.
//
// Implements kong.MapperValue interface.
func (lm logModMask) Decode(ctx *kong.DecodeContext) error {
	tok := ctx.Scan.Pop()
	list := tok.Value.(string)
	if list == "no" {
		log.Disable()
		return nil
	}
	for _, v := range strings.Split(list, ",") {
		if v == "no" {
			return fmt.Errorf("cannot combine 'no' with other log modules")
		}
	}
	mask, err := log.ParseModules(list)
	if err != nil {
		return err
	}
	log.EnableDebugModules(mask | log.ModuleMask(lm))
	return nil
}

func checkf(err error, format string, args ...any) {
	if err == nil {
		return
	}
	fatalf(format+".\n"+err.Error(), args...)
}

func fatalf(format string, args ...any) {
	fmt.Fprintf(os.Stderr, "fatal error:")
	fmt.Fprintf(os.Stderr, "\n\t%s\n", fmt.Sprintf(format, args...))
	os.Exit(1)
}
