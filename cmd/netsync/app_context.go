package main

import (
	"github.com/incus-tools/netsync/internal/config"
	"github.com/incus-tools/netsync/internal/incus"
	"github.com/incus-tools/netsync/internal/logger"
)

// newIncusClient builds an Incus client from the manifest's connection
// settings.
func newIncusClient(settings config.Settings, verbose bool, log *logger.Logger) (*incus.Client, error) {
	return incus.New(incus.Options{
		Socket:             settings.Remote.Socket,
		Remote:             settings.Remote.URL,
		ClientCert:         settings.Remote.ClientCert,
		ClientKey:          settings.Remote.ClientKey,
		InsecureSkipVerify: settings.Remote.InsecureSkipVerify,
		Project:            settings.Project,
		Debug:              verbose,
		Logger:             log,
	})
}

func newLogger(verbose bool) (*logger.Logger, error) {
	level := "info"
	if verbose {
		level = "debug"
	}
	return logger.New(logger.Options{Level: level, HumanReadable: true})
}
