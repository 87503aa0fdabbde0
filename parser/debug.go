package parser

import (
	"fmt"
	"os"
	"strings"

	"github.com/davecgh/go-spew/spew"
	"github.com/sirupsen/logrus"
)

var (
	logger = logrus.New()

	UNDELETE_DEBUG *bool
)

func init() {
	logger.SetOutput(os.Stderr)
	logger.SetLevel(logrus.WarnLevel)
}

// SetLogger replaces the package logger. Per entry scan errors are
// reported through it at Warn level.
func SetLogger(l *logrus.Logger) {
	if l != nil {
		logger = l
	}
}

func Debug(arg interface{}) {
	spew.Dump(arg)
}

func DebugPrint(fmt_str string, v ...interface{}) {
	if UNDELETE_DEBUG == nil {
		for _, x := range os.Environ() {
			if strings.HasPrefix(x, "UNDELETE_DEBUG=") {
				value := true
				UNDELETE_DEBUG = &value
				break
			}
		}
	}

	if UNDELETE_DEBUG == nil {
		value := false
		UNDELETE_DEBUG = &value
	}

	if *UNDELETE_DEBUG {
		fmt.Printf(fmt_str, v...)
	}
}
