package cli

import (
	"encoding/json"
	"fmt"
	"io"
)

// OutputFormatter renders command results as text or as a JSON envelope.
// In JSON mode stdout carries exactly one envelope per run.
type OutputFormatter struct {
	Format  string // "text" | "json"
	Writer  io.Writer
	Verbose bool // show error details in text mode
}

// CLIResponse is the JSON envelope.
type CLIResponse struct {
	Status string    `json:"status"` // "ok" or "error"
	Data   any       `json:"data,omitempty"`
	Error  *CLIError `json:"error,omitempty"`
}

// CLIError is the error half of the envelope.
type CLIError struct {
	Code    string `json:"code"`
	Message string `json:"message"`
	Details any    `json:"details,omitempty"`
}

func (f *OutputFormatter) isJSON() bool { return f.Format == "json" }

func (f *OutputFormatter) envelope(resp CLIResponse) error {
	enc := json.NewEncoder(f.Writer)
	enc.SetEscapeHTML(false) // labels routinely contain <, > and &
	return enc.Encode(resp)
}

// Success writes data as an ok envelope, or prints it in text mode.
func (f *OutputFormatter) Success(data any) error {
	if f.isJSON() {
		return f.envelope(CLIResponse{Status: "ok", Data: data})
	}
	_, err := fmt.Fprintln(f.Writer, data)
	return err
}

// Error writes an error envelope, or an "Error [code]: message" line.
func (f *OutputFormatter) Error(code, message string, details any) error {
	if f.isJSON() {
		return f.envelope(CLIResponse{
			Status: "error",
			Error:  &CLIError{Code: code, Message: message, Details: details},
		})
	}
	if _, err := fmt.Fprintf(f.Writer, "Error [%s]: %s\n", code, message); err != nil {
		return err
	}
	if f.Verbose && details != nil {
		_, err := fmt.Fprintf(f.Writer, "Details: %v\n", details)
		return err
	}
	return nil
}

// Fail reports the failure to the user and returns the error the command
// should return.
func (f *OutputFormatter) Fail(e *ExitError) error {
	_ = f.Error(e.Code, e.Message, nil)
	return e
}

// Progress prints a line in text mode only. JSON runs report the same
// facts in their final envelope.
func (f *OutputFormatter) Progress(format string, args ...any) {
	if f.isJSON() {
		return
	}
	fmt.Fprintf(f.Writer, format+"\n", args...)
}
