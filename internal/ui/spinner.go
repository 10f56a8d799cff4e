package ui

import (
	"fmt"

	"github.com/charmbracelet/huh/spinner"
)

// RunWithSpinner executes a blocking action while displaying a spinner.
// Errors from the action itself travel through captured variables:
//
//	var fetchErr error
//	err := RunWithSpinner("Fetching company master...", func() {
//	    master, fetchErr = cache.Get(ctx, false)
//	})
func RunWithSpinner(title string, action func()) error {
	err := spinner.New().
		Title(title).
		Action(action).
		Run()
	if err != nil {
		return fmt.Errorf("spinner error: %w", err)
	}
	return nil
}
