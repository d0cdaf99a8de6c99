package main

import (
	"context"
	"flag"
	"fmt"
	"os"
	"os/signal"
	"strings"
	"syscall"

	"github.com/hbomb79/castmirror/internal"
	"github.com/hbomb79/castmirror/internal/config"
	"github.com/hbomb79/castmirror/pkg/logger"
)

const version = "0.1"

var (
	log = logger.Get("Bootstrap")

	logLevelFlag = flag.String("log-level", "info", "Define logging level from one of [verbose, debug, info, important, warning, error]")
	helpFlag     = flag.Bool("help", false, "Whether to display help information")
	versionFlag  = flag.Bool("version", false, "Print the version and exit")
	configFlag   = flag.String("config", "", "Path to the policy configuration file (required)")
	dryrunFlag   = flag.Bool("dryrun", false, "Perform only the bootstrap reconciliation pass, then exit")
)

func main() {
	flag.Parse()

	if *helpFlag {
		flag.Usage()
		return
	}
	if *versionFlag {
		fmt.Printf("castmirror %s\n", version)
		return
	}

	level, err := parseLogLevelFromString(*logLevelFlag)
	if err != nil {
		fmt.Println(err.Error())
		flag.Usage()
		os.Exit(1)
	}
	logger.SetMinLoggingLevel(level)

	if *configFlag == "" {
		fmt.Println("--config is required")
		flag.Usage()
		os.Exit(1)
	}

	pairs, err := config.ParseWatchPairs(flag.Args())
	if err != nil {
		fmt.Println(err.Error())
		os.Exit(1)
	}
	if len(pairs) == 0 {
		fmt.Println("at least one WatchPair (SRC<sep>DST) must be given")
		flag.Usage()
		os.Exit(1)
	}

	startCastmirror(internal.New(*configFlag, *dryrunFlag, pairs))
}

func startCastmirror(app *internal.App) {
	log.Emit(logger.INFO, " --- Starting castmirror (version %s) ---\n", version)

	ctx, cancel := context.WithCancel(context.Background())
	go listenForInterrupt(cancel)

	if err := app.Run(ctx); err != nil {
		log.Emit(logger.FATAL, "castmirror failed: %v\n", err)
		os.Exit(1)
	}

	log.Emit(logger.STOP, "castmirror shutdown complete\n")
}

func listenForInterrupt(cancel context.CancelFunc) {
	exitChannel := make(chan os.Signal, 1)
	signal.Notify(exitChannel, os.Interrupt, syscall.SIGTERM)

	<-exitChannel
	cancel()
}

func parseLogLevelFromString(l string) (logger.LogLevel, error) {
	switch strings.ToLower(l) {
	case "verbose":
		return logger.VERBOSE.Level(), nil
	case "debug":
		return logger.DEBUG.Level(), nil
	case "info":
		return logger.INFO.Level(), nil
	case "important":
		return logger.SUCCESS.Level(), nil
	case "warning":
		return logger.WARNING.Level(), nil
	case "error":
		return logger.ERROR.Level(), nil
	default:
		return logger.INFO.Level(), fmt.Errorf("logging level %s is not recognized", l)
	}
}
