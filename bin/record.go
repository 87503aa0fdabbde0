package main

import (
	"encoding/json"
	"fmt"

	kingpin "gopkg.in/alecthomas/kingpin.v2"
	"www.velocidex.com/golang/undelete/parser"
)

var (
	record_command = app.Command(
		"record", "Fetch and parse the MFT record of a file reference.")

	record_command_drive_arg = record_command.Arg(
		"drive", "The drive letter to read from.",
	).Required().String()

	record_command_ref_arg = record_command.Arg(
		"ref", "The file reference number (decimal).",
	).Required().String()
)

func doRecord() {
	file_ref, err := parser.ParseU64String(*record_command_ref_arg)
	kingpin.FatalIfError(err, "File reference")

	details, err := parser.GetFileRecord(
		*record_command_drive_arg, file_ref)
	kingpin.FatalIfError(err, "Fetching file record")

	serialized, err := json.MarshalIndent(details.Describe(), "", " ")
	kingpin.FatalIfError(err, "Serializing")

	fmt.Println(string(serialized))
}

func init() {
	command_handlers = append(command_handlers, func(command string) bool {
		switch command {
		case record_command.FullCommand():
			doRecord()
		default:
			return false
		}
		return true
	})
}
