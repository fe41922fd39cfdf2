package prompt

import (
	"os"
	"strings"

	"github.com/AlecAivazis/survey/v2"
	"github.com/mattn/go-isatty"
)

const (
	promptStylePlainConstant        = "plain"
	promptStyleInteractiveConstant  = "interactive"
	promptMessageTrimCutsetConstant = ": "
)

// Style selects how the commit message is requested.
type Style string

// Supported prompt styles.
const (
	StylePlain       Style = Style(promptStylePlainConstant)
	StyleInteractive Style = Style(promptStyleInteractiveConstant)
)

// MessagePrompter requests a single line of text from the user.
type MessagePrompter interface {
	ReadMessage(prompt string) (string, error)
}

// SurveyMessagePrompter asks for the message with a survey input field.
type SurveyMessagePrompter struct {
	input  *os.File
	output *os.File
}

// NewSurveyMessagePrompter constructs a survey prompter bound to the given terminal files.
func NewSurveyMessagePrompter(input *os.File, output *os.File) *SurveyMessagePrompter {
	return &SurveyMessagePrompter{input: input, output: output}
}

// ReadMessage renders prompt as a survey question and returns the answer verbatim.
func (prompter *SurveyMessagePrompter) ReadMessage(prompt string) (string, error) {
	var answer string
	question := &survey.Input{Message: strings.TrimRight(prompt, promptMessageTrimCutsetConstant)}
	if askError := survey.AskOne(question, &answer, survey.WithStdio(prompter.input, prompter.output, prompter.output)); askError != nil {
		return "", askError
	}
	return answer, nil
}

// SelectMessagePrompter returns the survey prompter for the interactive style on a terminal and console otherwise.
func SelectMessagePrompter(style Style, console *Console, input *os.File, output *os.File) MessagePrompter {
	if Style(strings.ToLower(strings.TrimSpace(string(style)))) != StyleInteractive {
		return console
	}
	if !IsTerminal(input) || !IsTerminal(output) {
		return console
	}
	return NewSurveyMessagePrompter(input, output)
}

// IsTerminal reports whether file is attached to a terminal, including Cygwin terminals.
func IsTerminal(file *os.File) bool {
	if file == nil {
		return false
	}
	fileDescriptor := file.Fd()
	return isatty.IsTerminal(fileDescriptor) || isatty.IsCygwinTerminal(fileDescriptor)
}
