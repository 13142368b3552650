package main

import (
	"io"
	"time"

	"github.com/briandowns/spinner"
)

// spinnerRate is the animation frame interval.
const spinnerRate = 100 * time.Millisecond

// Spinner shows progress while the first CPU sample warms up.
type Spinner interface {
	Start()
	Stop()
	UpdateSuffix(suffix string)
}

type realSpinner struct {
	s *spinner.Spinner
}

func (rs *realSpinner) Start() { rs.s.Start() }
func (rs *realSpinner) Stop()  { rs.s.Stop() }

func (rs *realSpinner) UpdateSuffix(suffix string) {
	rs.s.Suffix = suffix
}

var newSpinner = func(w io.Writer) Spinner {
	return &realSpinner{spinner.New(spinner.CharSets[11], spinnerRate, spinner.WithWriter(w))}
}
