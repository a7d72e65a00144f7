// Command traylauncher puts a categorized application menu into the system
// tray. Applications are collected from the configuration file and from the
// installed .desktop files.
package main

import (
	"flag"
	"fmt"
	"io"
	"os"
	"os/signal"
	"path/filepath"
	"syscall"

	"github.com/sirupsen/logrus"

	"github.com/shelepuginivan/traylauncher/app"
	"github.com/shelepuginivan/traylauncher/config"
)

func main() {
	var (
		configPath = flag.String("config", config.DefaultPath(), "path to the configuration file")
		regenerate = flag.Bool("regenerate", false, "import installed applications into the configuration and exit")
		debug      = flag.Bool("debug", false, "enable debug logging")
	)
	flag.Parse()

	setupLogging(*debug)

	store, err := config.Open(*configPath)
	if err != nil {
		logrus.WithError(err).Fatal("failed to open configuration")
	}

	launcher := app.New(store)

	if *regenerate {
		added, err := launcher.Regenerate()
		if err != nil {
			logrus.WithError(err).Fatal("regenerate failed")
		}

		fmt.Printf("imported %d new applications\n", added)
		return
	}

	signals := make(chan os.Signal, 1)
	signal.Notify(signals, syscall.SIGINT, syscall.SIGTERM)

	go func() {
		sig := <-signals
		logrus.WithField("signal", sig).Info("received signal, shutting down")
		launcher.Quit()
	}()

	if err := launcher.Run(); err != nil {
		logrus.WithError(err).Fatal("tray launcher failed")
	}
}

// setupLogging writes logs both to stderr and to the launcher log file
// under the data directory. A failing log file is not fatal.
func setupLogging(debug bool) {
	logrus.SetFormatter(&logrus.TextFormatter{FullTimestamp: true})

	if debug {
		logrus.SetLevel(logrus.DebugLevel)
	}

	dir := config.DataDir()
	if err := os.MkdirAll(dir, 0o755); err != nil {
		logrus.WithError(err).Warn("failed to create data directory, logging to stderr only")
		return
	}

	path := filepath.Join(dir, "traylauncher.log")
	file, err := os.OpenFile(path, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0o644)
	if err != nil {
		logrus.WithError(err).Warn("failed to open log file, logging to stderr only")
		return
	}

	logrus.SetOutput(io.MultiWriter(os.Stderr, file))
}
