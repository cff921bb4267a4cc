// Package console runs the interactive switching session on a terminal.
package console

import (
	"bufio"
	"errors"
	"fmt"
	"io"
	"strings"

	"github.com/giygas/antipsychotic-switch/conversion"
	"github.com/giygas/antipsychotic-switch/drugtable"
	"github.com/giygas/antipsychotic-switch/drugtable/entities"
	"github.com/giygas/antipsychotic-switch/interfaces"
	"github.com/giygas/antipsychotic-switch/logging"
)

// ExitCommand ends the session when entered at any drug prompt
const ExitCommand = "Exit"

const (
	promptReference = "Enter current drug name (or exit to quit): "
	promptDose      = "Enter dose in milligrams: "
	promptTarget    = "Enter target drug name: "
	notAvailable    = "Not available"
)

var separator = strings.Repeat("=", 30)

// errExit stops the session on the exit command or at end of input
var errExit = errors.New("session ended")

// unknownDrugError keeps the name as the user will see it
type unknownDrugError struct {
	name string
}

func (e *unknownDrugError) Error() string {
	return fmt.Sprintf("%v: %q", conversion.ErrUnknownDrug, e.name)
}

func (e *unknownDrugError) Unwrap() error {
	return conversion.ErrUnknownDrug
}

// Session reads requests from in and writes prompts and results to out
type Session struct {
	table     interfaces.DrugLookup
	converter interfaces.Converter
	validator interfaces.DataValidator
	in        *bufio.Scanner
	out       io.Writer
	repeat    bool
}

// NewSession creates a session. With repeat set the session keeps asking for
// conversions until the exit command or end of input.
func NewSession(table interfaces.DrugLookup, converter interfaces.Converter, validator interfaces.DataValidator,
	in io.Reader, out io.Writer, repeat bool) *Session {
	return &Session{
		table:     table,
		converter: converter,
		validator: validator,
		in:        bufio.NewScanner(in),
		out:       out,
		repeat:    repeat,
	}
}

// Run prints the banner and handles conversions. Conversion errors are shown
// to the user and never returned; only a failure to read input or write
// output is.
func (s *Session) Run() error {
	s.printBanner()

	for {
		err := s.convertOnce()
		switch {
		case errors.Is(err, errExit):
			return nil
		case err != nil && !isUserError(err):
			return err
		case err != nil:
			s.printf("\n%s\n\n", userMessage(err))
		}

		if !s.repeat {
			return nil
		}
	}
}

func (s *Session) printBanner() {
	s.printf("\n%s\n Antipsychotic Switching Tool\n%s\n\n", separator, separator)
	s.printf("Available drugs for conversion:\n\n")
	for _, name := range s.table.Names() {
		s.printf("%s\n", name)
	}
	s.printf("\n")
}

// convertOnce runs one prompt cycle. Each drug is checked as soon as it is
// entered, so the user does not type a dose for a drug that does not exist.
func (s *Session) convertOnce() error {
	reference, err := s.askDrug(promptReference)
	if err != nil {
		return err
	}

	line, err := s.ask(promptDose)
	if err != nil {
		return err
	}
	dose, err := s.validator.ParseDose(line)
	if err != nil {
		logging.Debug("Rejected dose input", "input", line, "error", err)
		return err
	}

	target, err := s.askDrug(promptTarget)
	if err != nil {
		return err
	}

	result, err := s.converter.Convert(reference, dose, target)
	if err != nil {
		return err
	}

	s.printResult(result)
	return nil
}

// askDrug reads a drug name and resolves it against the table
func (s *Session) askDrug(prompt string) (string, error) {
	line, err := s.ask(prompt)
	if err != nil {
		return "", err
	}

	name := drugtable.NormalizeName(line)
	if name == ExitCommand {
		s.printf("\nExiting the program.\n\n")
		return "", errExit
	}

	if err := s.validator.ValidateDrugName(line); err != nil {
		logging.Debug("Rejected drug name input", "input", line, "error", err)
		return "", &unknownDrugError{name: name}
	}
	if _, ok := s.table.Lookup(name); !ok {
		return "", &unknownDrugError{name: name}
	}

	return name, nil
}

// ask prints a prompt and reads one line. End of input ends the session.
func (s *Session) ask(prompt string) (string, error) {
	s.printf("\n%s", prompt)

	if !s.in.Scan() {
		if err := s.in.Err(); err != nil {
			return "", fmt.Errorf("failed to read input: %w", err)
		}
		s.printf("\n")
		return "", errExit
	}

	return s.in.Text(), nil
}

func (s *Session) printResult(r entities.ConversionResult) {
	s.printf("\n%s\n\n", separator)
	s.printf("Reference drug: %s\n", r.ReferenceDrug)
	s.printf("Reference dose: %s mg\n", formatDose(r.ReferenceDoseMg))
	s.printf("Target drug: %s\n\n", r.TargetDrug)
	s.printf("Target defined daily dose: %s mg\n", formatDose(r.DefinedDailyDoseMg))
	s.printf("Target 95%% effective dose: %s\n", formatOptional(r.EffectiveDose95Mg))
	s.printf("Target minimum effective dose: %s\n\n", formatOptional(r.MinimumEffectiveDoseMg))
}

func (s *Session) printf(format string, args ...any) {
	fmt.Fprintf(s.out, format, args...)
}

func isUserError(err error) bool {
	return errors.Is(err, conversion.ErrUnknownDrug) || errors.Is(err, conversion.ErrInvalidDose)
}

// userMessage turns a conversion error into the line shown on the console
func userMessage(err error) string {
	if errors.Is(err, conversion.ErrInvalidDose) {
		return "Dose must be a positive number."
	}

	var unknown *unknownDrugError
	if errors.As(err, &unknown) {
		return fmt.Sprintf("Drug '%s' not found in equivalency table.", unknown.name)
	}
	return "Drug not found in equivalency table."
}

func formatDose(mg float64) string {
	return fmt.Sprintf("%.2f", mg)
}

func formatOptional(mg *float64) string {
	if mg == nil {
		return notAvailable
	}
	return formatDose(*mg) + " mg"
}
