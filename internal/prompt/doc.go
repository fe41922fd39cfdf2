// Package prompt reads interactive input for gitsync.
//
// Console covers the plain line prompt and the closing keypress wait, and
// SurveyMessagePrompter offers a decorated prompt on interactive terminals.
package prompt
