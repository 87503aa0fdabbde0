package main

import (
	"encoding/hex"
	"fmt"
	"strings"

	kingpin "gopkg.in/alecthomas/kingpin.v2"
	"www.velocidex.com/golang/undelete/parser"
)

var (
	runs_command = app.Command(
		"runs", "Decode a hex encoded NTFS run list.")

	runs_command_hex_arg = runs_command.Arg(
		"hex", "The run list bytes as hex (e.g. 211834560078).",
	).Required().String()
)

func doRuns() {
	cleaned := strings.NewReplacer(" ", "", ":", "").
		Replace(*runs_command_hex_arg)
	buffer, err := hex.DecodeString(cleaned)
	kingpin.FatalIfError(err, "Decoding hex")

	runs := parser.DecodeRunList(buffer, 0)
	for idx, run := range runs {
		fmt.Printf("%d: %v\n", idx, run)
	}
	fmt.Printf("Total %d clusters in %d runs\n",
		parser.TotalClusters(runs), len(runs))
}

func init() {
	command_handlers = append(command_handlers, func(command string) bool {
		switch command {
		case runs_command.FullCommand():
			doRuns()
		default:
			return false
		}
		return true
	})
}
