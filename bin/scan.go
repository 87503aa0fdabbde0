package main

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"time"

	"github.com/olekukonko/tablewriter"
	kingpin "gopkg.in/alecthomas/kingpin.v2"
	"www.velocidex.com/golang/undelete/parser"
)

var (
	scan_command = app.Command(
		"scan", "Scan a drive for deleted file candidates.")

	scan_command_drive_arg = scan_command.Arg(
		"drive", "The drive letter to scan (e.g. C).",
	).Required().String()

	scan_command_json = scan_command.Flag(
		"json", "Emit candidates as JSON.").Bool()
)

func doScan() {
	options := parser.GetDefaultOptions()
	options.Progress = func(phase string, bytes int64) {
		fmt.Fprintf(os.Stderr, "\r%s: %d bytes enumerated", phase, bytes)
	}

	candidates, err := parser.Scan(
		context.Background(), *scan_command_drive_arg, options)
	fmt.Fprintf(os.Stderr, "\n")
	kingpin.FatalIfError(err, "Scanning drive")

	if *scan_command_json {
		for _, candidate := range candidates {
			serialized, err := json.Marshal(candidate.Describe())
			if err != nil {
				continue
			}
			fmt.Println(string(serialized))
		}
		return
	}

	table := tablewriter.NewWriter(os.Stdout)
	table.SetHeader([]string{
		"Source",
		"Confidence",
		"Deleted",
		"Size",
		"Path",
	})
	table.SetCaption(true, fmt.Sprintf(
		"%d deleted file candidates on %s:",
		len(candidates), *scan_command_drive_arg))
	defer table.Render()

	for _, candidate := range candidates {
		deleted := ""
		if candidate.DeletedMs != 0 {
			deleted = time.UnixMilli(candidate.DeletedMs).
				UTC().Format(time.RFC3339)
		}

		table.Append([]string{
			candidate.Source,
			fmt.Sprintf("%d", candidate.Confidence),
			deleted,
			fmt.Sprintf("%d", candidate.Size),
			candidate.FullPath,
		})
	}
}

func init() {
	command_handlers = append(command_handlers, func(command string) bool {
		switch command {
		case scan_command.FullCommand():
			doScan()
		default:
			return false
		}
		return true
	})
}
