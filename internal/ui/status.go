package ui

import (
	"fmt"
	"io"

	"github.com/charmbracelet/lipgloss"
)

const (
	successColorConstant       = "10"
	failureColorConstant       = "9"
	statusLineTemplateConstant = "%s\n"
)

// StatusRenderer prints the closing status line of a run.
// Colors are applied only when the destination is a color-capable terminal.
type StatusRenderer struct {
	writer       io.Writer
	successStyle lipgloss.Style
	failureStyle lipgloss.Style
}

// NewStatusRenderer constructs a renderer whose color profile is detected from writer.
func NewStatusRenderer(writer io.Writer) *StatusRenderer {
	detectionWriter := writer
	if detectionWriter == nil {
		detectionWriter = io.Discard
	}
	renderer := lipgloss.NewRenderer(detectionWriter)
	return &StatusRenderer{
		writer:       writer,
		successStyle: renderer.NewStyle().Bold(true).Foreground(lipgloss.Color(successColorConstant)),
		failureStyle: renderer.NewStyle().Bold(true).Foreground(lipgloss.Color(failureColorConstant)),
	}
}

// RenderSuccess prints message in the success style.
func (statusRenderer *StatusRenderer) RenderSuccess(message string) error {
	return statusRenderer.render(statusRenderer.successStyle, message)
}

// RenderFailure prints message in the failure style.
func (statusRenderer *StatusRenderer) RenderFailure(message string) error {
	return statusRenderer.render(statusRenderer.failureStyle, message)
}

func (statusRenderer *StatusRenderer) render(style lipgloss.Style, message string) error {
	if statusRenderer == nil || statusRenderer.writer == nil {
		return nil
	}
	_, writeError := fmt.Fprintf(statusRenderer.writer, statusLineTemplateConstant, style.Render(message))
	return writeError
}
