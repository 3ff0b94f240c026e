package cli

import (
	"bytes"
	"io"
	"os"
	"testing"

	"github.com/AlecAivazis/survey/v2"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// TestCommandExecution helps test cobra command execution
type TestCommandExecution struct {
	Command      *cobra.Command
	Args         []string
	ExpectError  bool
	ExpectOutput []string
	Setup        func(t *testing.T) string
	Validate     func(t *testing.T, dir string, output string, err error)
}

// ExecuteCommandTest runs a command test with proper setup
func ExecuteCommandTest(t *testing.T, test TestCommandExecution) {
	t.Helper()
	ResetTestState(t)

	var dir string
	if test.Setup != nil {
		dir = test.Setup(t)
	}

	// Capture output
	var stdout, stderr bytes.Buffer
	test.Command.SetOut(&stdout)
	test.Command.SetErr(&stderr)
	test.Command.SetArgs(test.Args)

	err := test.Command.Execute()

	if test.ExpectError {
		assert.Error(t, err)
	} else {
		assert.NoError(t, err)
	}

	output := stdout.String() + stderr.String()
	for _, expected := range test.ExpectOutput {
		assert.Contains(t, output, expected)
	}

	if test.Validate != nil {
		test.Validate(t, dir, output, err)
	}
}

// ResetTestState clears global viper state and redirects colored output
// into a buffer for the duration of a test
func ResetTestState(t *testing.T) *bytes.Buffer {
	t.Helper()

	viper.Reset()
	t.Cleanup(viper.Reset)

	var buf bytes.Buffer
	oldOutput := colorOutput
	colorOutput = &buf
	t.Cleanup(func() { colorOutput = oldOutput })

	oldAsk := askOne
	t.Cleanup(func() { askOne = oldAsk })

	return &buf
}

// CaptureOutput captures stdout/stderr during function execution
func CaptureOutput(t *testing.T, fn func()) string {
	t.Helper()

	oldStdout := os.Stdout
	oldStderr := os.Stderr
	r, w, err := os.Pipe()
	require.NoError(t, err)

	os.Stdout = w
	os.Stderr = w
	defer func() {
		os.Stdout = oldStdout
		os.Stderr = oldStderr
	}()

	done := make(chan string)
	go func() {
		out, _ := io.ReadAll(r)
		done <- string(out)
	}()

	fn()
	_ = w.Close()
	return <-done
}

// MockSurveyAskOne mocks survey.AskOne for testing interactive prompts
func MockSurveyAskOne(response interface{}) func(p survey.Prompt, response interface{}, opts ...survey.AskOpt) error {
	return func(p survey.Prompt, resp interface{}, opts ...survey.AskOpt) error {
		setSurveyResponse(resp, response)
		return nil
	}
}

// MockSurveyAnswers mocks survey.AskOne, answering each prompt by its message.
// Prompts without an answer are recorded and left at their zero value.
func MockSurveyAnswers(answers map[string]interface{}, asked *[]string) func(p survey.Prompt, response interface{}, opts ...survey.AskOpt) error {
	return func(p survey.Prompt, resp interface{}, opts ...survey.AskOpt) error {
		message := promptMessage(p)
		if asked != nil {
			*asked = append(*asked, message)
		}
		if answer, ok := answers[message]; ok {
			setSurveyResponse(resp, answer)
		}
		return nil
	}
}

func promptMessage(p survey.Prompt) string {
	switch prompt := p.(type) {
	case *survey.Input:
		return prompt.Message
	case *survey.Select:
		return prompt.Message
	case *survey.MultiSelect:
		return prompt.Message
	case *survey.Confirm:
		return prompt.Message
	default:
		return ""
	}
}

func setSurveyResponse(resp interface{}, response interface{}) {
	switch v := resp.(type) {
	case *string:
		*v = response.(string)
	case *bool:
		*v = response.(bool)
	case *int:
		*v = response.(int)
	case *[]string:
		*v = response.([]string)
	}
}
