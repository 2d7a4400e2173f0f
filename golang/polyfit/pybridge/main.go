// SPDX-License-Identifier: Apache-2.0

package main

/*
#cgo CFLAGS: -I.
#include <stdlib.h>
*/
import "C"

import (
	"io"
	"sync"
	"unsafe"

	"github.com/charmbracelet/log"
	"github.com/pkg/errors"
	"github.com/tarstars/adam_polyfit/golang/polyfit/pfl"
	"gonum.org/v1/gonum/mat"
)

//optimizerHandle serializes the updates of one optimizer, callers may share a handle between threads.
type optimizerHandle struct {
	mu   sync.Mutex
	adam *pfl.Adam
}

var (
	handleMu   sync.Mutex
	nextHandle uint64 = 1
	optimizers        = make(map[uint64]*optimizerHandle)

	lastErrorMu sync.Mutex
	lastError   string

	logSilenceOnce sync.Once
)

func setLastError(err error) {
	lastErrorMu.Lock()
	defer lastErrorMu.Unlock()
	if err != nil {
		lastError = err.Error()
	} else {
		lastError = ""
	}
}

func getLastError() string {
	lastErrorMu.Lock()
	defer lastErrorMu.Unlock()
	return lastError
}

func silenceLogs() {
	logSilenceOnce.Do(func() {
		pfl.SetLogger(log.New(io.Discard))
	})
}

func storeOptimizer(adam *pfl.Adam) uint64 {
	handleMu.Lock()
	defer handleMu.Unlock()
	handle := nextHandle
	optimizers[handle] = &optimizerHandle{adam: adam}
	nextHandle++
	return handle
}

func fetchOptimizer(handle uint64) (*optimizerHandle, error) {
	handleMu.Lock()
	defer handleMu.Unlock()
	optimizer, ok := optimizers[handle]
	if !ok {
		return nil, errors.New("invalid optimizer handle")
	}
	return optimizer, nil
}

//export FreeAdamOptimizer
func FreeAdamOptimizer(handle C.ulonglong) {
	handleMu.Lock()
	defer handleMu.Unlock()
	delete(optimizers, uint64(handle))
}

func sliceFromPtr(ptr *C.double, length int) ([]float64, error) {
	if length < 0 {
		return nil, errors.New("negative length")
	}
	if length == 0 {
		return nil, nil
	}
	if ptr == nil {
		return nil, errors.New("null pointer for non-empty slice")
	}
	return unsafe.Slice((*float64)(unsafe.Pointer(ptr)), length), nil
}

func buildVector(ptr *C.double, length C.int) (*mat.VecDense, error) {
	src, err := sliceFromPtr(ptr, int(length))
	if err != nil || len(src) == 0 {
		return nil, err
	}
	return mat.NewVecDense(len(src), append([]float64(nil), src...)), nil
}

//requireVector passes a build error through and reports ErrInvalidInput for an empty vector.
func requireVector(v *mat.VecDense, err error) (*mat.VecDense, error) {
	if err != nil {
		return nil, err
	}
	if v == nil {
		return nil, errors.Wrap(pfl.ErrInvalidInput, "empty vector")
	}
	return v, nil
}

func copyOut(ptr *C.double, v *mat.VecDense) error {
	dst, err := sliceFromPtr(ptr, v.Len())
	if err != nil {
		return err
	}
	for i := range dst {
		dst[i] = v.AtVec(i)
	}
	return nil
}

//export PolyForward
func PolyForward(xPtr *C.double, n C.int, thetaPtr *C.double, k C.int, outputPtr *C.double) C.int {
	setLastError(nil)
	x, err := requireVector(buildVector(xPtr, n))
	if err != nil {
		setLastError(errors.Wrap(err, "samples"))
		return 1
	}
	theta, err := requireVector(buildVector(thetaPtr, k))
	if err != nil {
		setLastError(errors.Wrap(err, "coefficients"))
		return 2
	}
	if err := copyOut(outputPtr, pfl.Forward(x, theta)); err != nil {
		setLastError(err)
		return 3
	}
	return 0
}

//export PolyForwardBackward
func PolyForwardBackward(
	xPtr *C.double,
	yPtr *C.double,
	n C.int,
	thetaPtr *C.double,
	k C.int,
	lossPtr *C.double,
	gradientPtr *C.double,
) C.int {
	setLastError(nil)
	x, err := buildVector(xPtr, n)
	if err != nil {
		setLastError(err)
		return 1
	}
	y, err := buildVector(yPtr, n)
	if err != nil {
		setLastError(err)
		return 1
	}
	theta, err := buildVector(thetaPtr, k)
	if err != nil {
		setLastError(err)
		return 2
	}

	loss, gradient, err := pfl.ForwardBackward(x, y, theta)
	if err != nil {
		setLastError(err)
		return 3
	}
	if lossPtr == nil {
		setLastError(errors.New("null pointer for the loss"))
		return 4
	}
	*lossPtr = C.double(loss)
	if err := copyOut(gradientPtr, gradient); err != nil {
		setLastError(err)
		return 4
	}
	return 0
}

//export NewAdamOptimizer
func NewAdamOptimizer(shape C.int, learningRate, beta1, beta2 C.double) C.ulonglong {
	setLastError(nil)
	adam, err := pfl.NewAdam(int(shape), pfl.AdamConfig{
		LR:    float64(learningRate),
		Beta1: float64(beta1),
		Beta2: float64(beta2),
	})
	if err != nil {
		setLastError(err)
		return 0
	}
	return C.ulonglong(storeOptimizer(adam))
}

//export AdamUpdate
func AdamUpdate(handle C.ulonglong, gradientPtr *C.double, k C.int, stepPtr *C.double) C.int {
	setLastError(nil)
	optimizer, err := fetchOptimizer(uint64(handle))
	if err != nil {
		setLastError(err)
		return 1
	}
	gradient, err := buildVector(gradientPtr, k)
	if err != nil {
		setLastError(err)
		return 2
	}

	optimizer.mu.Lock()
	step, err := optimizer.adam.Update(gradient)
	optimizer.mu.Unlock()
	if err != nil {
		setLastError(err)
		return 3
	}
	if err := copyOut(stepPtr, step); err != nil {
		setLastError(err)
		return 4
	}
	return 0
}

//export AdamTimestep
func AdamTimestep(handle C.ulonglong) C.longlong {
	setLastError(nil)
	optimizer, err := fetchOptimizer(uint64(handle))
	if err != nil {
		setLastError(err)
		return -1
	}
	optimizer.mu.Lock()
	defer optimizer.mu.Unlock()
	return C.longlong(optimizer.adam.Timestep())
}

//export FitPolynomial
func FitPolynomial(
	xPtr *C.double,
	yPtr *C.double,
	n C.int,
	thetaPtr *C.double,
	k C.int,
	iterations C.int,
	learningRate, beta1, beta2 C.double,
	learningCurvePtr *C.double,
) C.int {
	setLastError(nil)
	silenceLogs()

	x, err := buildVector(xPtr, n)
	if err != nil {
		setLastError(err)
		return 1
	}
	y, err := buildVector(yPtr, n)
	if err != nil {
		setLastError(err)
		return 1
	}
	theta, err := buildVector(thetaPtr, k)
	if err != nil {
		setLastError(err)
		return 2
	}

	result, err := pfl.Fit(pfl.FitParams{
		X:          x,
		Y:          y,
		Theta:      theta,
		Iterations: int(iterations),
		Adam:       pfl.AdamConfig{LR: float64(learningRate), Beta1: float64(beta1), Beta2: float64(beta2)},
	})
	if err != nil {
		setLastError(err)
		return 3
	}

	// The fitted coefficients replace the initial ones in place.
	if err := copyOut(thetaPtr, result.Theta); err != nil {
		setLastError(err)
		return 4
	}
	if learningCurvePtr != nil {
		curve := mat.NewVecDense(len(result.LearningCurve), result.LearningCurve)
		if err := copyOut(learningCurvePtr, curve); err != nil {
			setLastError(err)
			return 4
		}
	}
	return 0
}

//export GetLastError
func GetLastError() *C.char {
	errStr := getLastError()
	if errStr == "" {
		return nil
	}
	return C.CString(errStr)
}

//export FreeCString
func FreeCString(str *C.char) {
	if str != nil {
		C.free(unsafe.Pointer(str))
	}
}

func main() {}
