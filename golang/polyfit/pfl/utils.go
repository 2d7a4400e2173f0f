package pfl

import (
	"os"

	"github.com/charmbracelet/log"
	"gonum.org/v1/gonum/mat"
)

var logger = log.NewWithOptions(os.Stderr, log.Options{
	ReportTimestamp: true,
	Prefix:          "pfl",
})

//Logger returns the logger used by the training loop, the sweep and the IO helpers.
func Logger() *log.Logger {
	return logger
}

//SetLogger replaces the package logger. A nil logger is ignored.
func SetLogger(l *log.Logger) {
	if l != nil {
		logger = l
	}
}

//HandleError stops the program on an unexpected error. It is meant for command line tools only.
func HandleError(err error) {
	if err != nil {
		logger.Fatal("unrecoverable error", "err", err)
	}
}

//Length returns the number of elements of a vector, zero for nil.
func Length(v *mat.VecDense) int {
	if v == nil {
		return 0
	}
	return v.Len()
}

//Clone returns a deep copy of a vector.
func Clone(v *mat.VecDense) *mat.VecDense {
	return mat.VecDenseCopyOf(v)
}
