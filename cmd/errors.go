package cmd

import (
	"errors"
	"fmt"
	"os"

	"github.com/spf13/viper"
)

// errReported marks failures whose details were already printed (for
// example an invalid ValidationResult). Execute only sets the exit code.
var errReported = errors.New("reported")

// PrintError prints an error message without exiting.
// With --verbose the full technical error is printed instead.
func PrintError(userMsg string, technicalErr error) {
	if viper.GetBool("verbose") && technicalErr != nil {
		fmt.Fprintf(os.Stderr, "Error: %+v\n", technicalErr)
		return
	}
	fmt.Fprintln(os.Stderr, "Error: "+userMsg)
}
