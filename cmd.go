// Copyright (C) The Lightning Authors. All rights reserved.
//
// SPDX-License-Identifier: AGPL-3.0

package longseq

import (
	"os"

	"git.arvados.org/arvados.git/lib/cmd"
	"github.com/mattn/go-isatty"
	"github.com/sirupsen/logrus"
)

var (
	handler = cmd.Multi(map[string]cmd.Handler{
		"version":   cmd.Version,
		"-version":  cmd.Version,
		"--version": cmd.Version,

		"lis":      &longestcmd{direction: "increasing"},
		"lds":      &longestcmd{direction: "decreasing"},
		"longest":  &longestcmd{},
		"trace":    &tracecmd{},
		"batch":    &batchcmd{},
		"generate": &generatecmd{},
		"bench":    &benchcmd{},
	})
)

func Main() {
	if !isatty.IsTerminal(os.Stderr.Fd()) {
		logrus.StandardLogger().Formatter = &logrus.TextFormatter{DisableTimestamp: true}
	}
	os.Exit(handler.RunCommand(os.Args[0], os.Args[1:], os.Stdin, os.Stdout, os.Stderr))
}

func setLogLevel(level string) error {
	lvl, err := logrus.ParseLevel(level)
	if err != nil {
		return err
	}
	logrus.SetLevel(lvl)
	return nil
}
