package prompt

import (
	"bufio"
	"errors"
	"io"
	"os"
	"strings"

	"golang.org/x/term"
)

const (
	lineFeedConstant       = "\n"
	carriageReturnConstant = "\r"
)

// terminalModeController switches a terminal file descriptor in and out of raw mode.
type terminalModeController struct {
	isTerminal func(fileDescriptor int) bool
	makeRaw    func(fileDescriptor int) (*term.State, error)
	restore    func(fileDescriptor int, state *term.State) error
}

var systemTerminalModeController = terminalModeController{
	isTerminal: term.IsTerminal,
	makeRaw:    term.MakeRaw,
	restore:    term.Restore,
}

// Console prompts on an output writer and reads answers from an input reader.
type Console struct {
	input    io.Reader
	reader   *bufio.Reader
	output   io.Writer
	terminal terminalModeController
}

// NewConsole constructs a Console. Both the message prompt and the keypress wait share one buffered reader.
func NewConsole(input io.Reader, output io.Writer) *Console {
	return &Console{
		input:    input,
		reader:   bufio.NewReader(input),
		output:   output,
		terminal: systemTerminalModeController,
	}
}

// ReadMessage writes prompt and returns the next line without its line ending.
// Reaching the end of input returns whatever was read, possibly nothing.
func (console *Console) ReadMessage(prompt string) (string, error) {
	if writeError := console.write(prompt); writeError != nil {
		return "", writeError
	}

	response, readError := console.reader.ReadString('\n')
	if readError != nil && !errors.Is(readError, io.EOF) {
		return "", readError
	}

	response = strings.TrimSuffix(response, lineFeedConstant)
	response = strings.TrimSuffix(response, carriageReturnConstant)
	return response, nil
}

// WaitForKeypress writes message and blocks until a key is pressed.
// Terminals are read in raw mode for a single byte; other inputs consume one line.
func (console *Console) WaitForKeypress(message string) error {
	if writeError := console.write(message); writeError != nil {
		return writeError
	}

	if inputFile, isFile := console.input.(*os.File); isFile && console.reader.Buffered() == 0 {
		fileDescriptor := int(inputFile.Fd())
		if console.terminal.isTerminal(fileDescriptor) {
			return console.readRawByte(fileDescriptor)
		}
	}

	_, readError := console.reader.ReadString('\n')
	if readError != nil && !errors.Is(readError, io.EOF) {
		return readError
	}
	return console.write(lineFeedConstant)
}

func (console *Console) readRawByte(fileDescriptor int) error {
	previousState, rawError := console.terminal.makeRaw(fileDescriptor)
	if rawError != nil {
		return rawError
	}

	singleByte := make([]byte, 1)
	_, readError := console.input.Read(singleByte)
	restoreError := console.terminal.restore(fileDescriptor, previousState)

	if readError != nil && !errors.Is(readError, io.EOF) {
		return readError
	}
	if restoreError != nil {
		return restoreError
	}
	return console.write(lineFeedConstant)
}

func (console *Console) write(text string) error {
	if console.output == nil || len(text) == 0 {
		return nil
	}
	_, writeError := io.WriteString(console.output, text)
	return writeError
}
