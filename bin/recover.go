package main

import (
	"fmt"

	kingpin "gopkg.in/alecthomas/kingpin.v2"
	"www.velocidex.com/golang/undelete/parser"
)

var (
	recover_command = app.Command(
		"recover", "Recover a deleted file by file reference number.")

	recover_command_drive_arg = recover_command.Arg(
		"drive", "The drive letter to read from.",
	).Required().String()

	recover_command_ref_arg = recover_command.Arg(
		"ref", "The file reference number (decimal).",
	).Required().String()

	recover_command_output_arg = recover_command.Arg(
		"output", "Path of the reconstructed file.",
	).Required().String()

	recycle_command = app.Command(
		"recycle", "Recover a recycle bin entry from its $R payload.")

	recycle_command_data_arg = recycle_command.Arg(
		"data", "Path of the $R payload file.",
	).Required().String()

	recycle_command_output_arg = recycle_command.Arg(
		"output", "Path of the reconstructed file.",
	).Required().String()

	recycle_command_size = recycle_command.Flag(
		"size", "Logical size from the $I header (decimal).",
	).Default("0").String()
)

func doRecover() {
	file_ref, err := parser.ParseU64String(*recover_command_ref_arg)
	kingpin.FatalIfError(err, "File reference")

	err = parser.RecoverFile(*recover_command_drive_arg, file_ref,
		*recover_command_output_arg)
	kingpin.FatalIfError(err, "Recovering")

	fmt.Printf("Recovered file reference %d to %s\n",
		file_ref, *recover_command_output_arg)
}

func doRecycle() {
	size, err := parser.ParseU64String(*recycle_command_size)
	kingpin.FatalIfError(err, "Size")

	err = parser.RecoverRecycleFile(*recycle_command_data_arg,
		int64(size), *recycle_command_output_arg)
	kingpin.FatalIfError(err, "Recovering")

	fmt.Printf("Recovered %s to %s\n",
		*recycle_command_data_arg, *recycle_command_output_arg)
}

func init() {
	command_handlers = append(command_handlers, func(command string) bool {
		switch command {
		case recover_command.FullCommand():
			doRecover()
		case recycle_command.FullCommand():
			doRecycle()
		default:
			return false
		}
		return true
	})
}
