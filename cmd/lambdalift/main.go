/*
lambdalift runs the Lambda Lift planner against a single map file (or
stdin) and prints the winning move string to stdout. It exists so the
simulation core and planner can be driven end to end from a shell,
not as a product in its own right: map authoring, visualisation and
batch scoring all live outside this module.
*/
package main

import (
	"flag"
	"fmt"
	"os"
	"os/signal"

	"lambdalift/internal/cave"
	"lambdalift/internal/driver"
	"lambdalift/internal/planner"
)

var (
	mapFile    *string
	configFile *string
	logLevel   *int
)

func init() {
	mapFile = flag.String("file", "", "path to a Lambda Lift map file (default: read stdin)")
	configFile = flag.String("config", "", "path to a planner tuning YAML file (default: built-in tuning)")
	logLevel = flag.Int("log", 0, "diagnostic log verbosity (0 disables; higher is noisier)")
	flag.Parse()
}

func runApp() (string, error) {
	src := os.Stdin
	if *mapFile != "" {
		f, err := os.Open(*mapFile)
		if err != nil {
			return "", err
		}
		defer f.Close()
		src = f
	}

	c, err := cave.Parse(src)
	if err != nil {
		return "", err
	}

	var tuning *planner.Config
	if *configFile != "" {
		cfg, err := planner.FromYaml(*configFile)
		if err != nil {
			return "", err
		}
		tuning = &cfg
		logf(1, "loaded planner tuning from %s", *configFile)
	}

	cancel := make(chan struct{})
	sig := make(chan os.Signal, 1)
	signal.Notify(sig, os.Interrupt)
	go func() {
		if _, ok := <-sig; ok {
			logf(1, "interrupt received, aborting run")
			close(cancel)
		}
	}()
	defer signal.Stop(sig)

	result := driver.Run(c, cancel, tuning)
	logf(1, "variant from_below=%v end=%s score=%d", result.FromBelow, result.End, result.Score)

	return result.Moves, nil
}

func logf(level int, format string, args ...interface{}) {
	if *logLevel >= level {
		fmt.Fprintf(os.Stderr, format+"\n", args...)
	}
}

func main() {
	moves, err := runApp()
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
	fmt.Println(moves)
}
