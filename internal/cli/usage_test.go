package cli

import (
	"bytes"
	"testing"

	"github.com/spf13/cobra"
	"github.com/spf13/pflag"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/CodexForgeBR/materials-assistant/internal/config"
	"github.com/CodexForgeBR/materials-assistant/internal/exitcode"
)

func TestHelpTemplate_ContainsKeyFlags(t *testing.T) {
	requiredFlags := []string{
		"--model",
		"--base-url",
		"--temperature",
		"--max-tokens",
		"--max-attempts",
		"--base-delay-ms",
		"--request-timeout",
		"--config",
		"--env-file",
		"--verbose",
		"--listen",
		"--help",
		"--version",
	}

	for _, flag := range requiredFlags {
		assert.Contains(t, helpTemplate, flag, "Help template should contain flag: %s", flag)
	}
}

func TestHelpTemplate_DocumentsEveryBoundFlag(t *testing.T) {
	cmd := &cobra.Command{Use: "test"}
	BindFlags(cmd, config.NewDefaultConfig())
	BindServeFlags(cmd, config.NewDefaultConfig())

	cmd.PersistentFlags().VisitAll(func(f *pflag.Flag) {
		assert.Contains(t, helpTemplate, "--"+f.Name)
	})
	cmd.Flags().VisitAll(func(f *pflag.Flag) {
		assert.Contains(t, helpTemplate, "--"+f.Name)
	})
}

func TestHelpTemplate_ContainsExitCodes(t *testing.T) {
	codes := []int{
		exitcode.Success,
		exitcode.Error,
		exitcode.Config,
		exitcode.FatalRequest,
		exitcode.RetriesExhausted,
		exitcode.Interrupted,
	}

	for _, code := range codes {
		assert.Contains(t, helpTemplate, exitcode.Name(code), "Help template should contain exit code: %d", code)
	}
}

func TestHelpTemplate_ContainsSections(t *testing.T) {
	sections := []string{
		"USAGE",
		"COMMANDS",
		"FLAGS",
		"ENVIRONMENT",
		"EXIT CODES",
		"EXAMPLES",
	}

	for _, section := range sections {
		assert.Contains(t, helpTemplate, section, "Help template should contain section: %s", section)
	}
}

func TestSetCustomHelp(t *testing.T) {
	cmd := &cobra.Command{Use: "test", Run: func(*cobra.Command, []string) {}}
	SetCustomHelp(cmd)

	var out bytes.Buffer
	cmd.SetOut(&out)
	cmd.SetArgs([]string{"--help"})
	require.NoError(t, cmd.Execute())

	assert.Contains(t, out.String(), "materials-assistant - Materials engineering Q&A")
	assert.Contains(t, out.String(), "EXIT CODES")
}
