package main

import (
	"errors"
	"fmt"
	"os"
)

// Exit codes for different failure modes
const (
	ExitSuccess      = 0 // Every batch is valid
	ExitInvalidBatch = 1 // One or more batches failed the production guard
	ExitError        = 2 // Configuration, input or runtime error
)

// InvalidBatchError indicates that scoring ran to completion but at least
// one batch was marked invalid.
type InvalidBatchError struct {
	Invalid int
	Total   int
}

func (e *InvalidBatchError) Error() string {
	return fmt.Sprintf("%d of %d batch(es) marked invalid", e.Invalid, e.Total)
}

func main() {
	if err := execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)

		var invalidErr *InvalidBatchError
		if errors.As(err, &invalidErr) {
			os.Exit(ExitInvalidBatch)
		}

		os.Exit(ExitError)
	}
}
