package cli

import (
	"bytes"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/tabulae-labs/askcsv-cli/internal/core/domain"
)

// configuredSettings is a fully set up fixture for the show tests.
func configuredSettings() domain.AppSettings {
	return domain.AppSettings{
		Embedding: domain.EmbeddingSettings{
			Provider: domain.AIProviderOpenAI,
			Model:    "text-embedding-3-small",
			APIKey:   "sk-1234567890abcdef",
		},
		LLM: domain.LLMSettings{
			Provider: domain.AIProviderAnthropic,
			Model:    "claude-3-5-sonnet-latest",
			APIKey:   "sk-ant-9876543210zyxw",
		},
		Retrieval: domain.RetrievalSettings{
			SimilarityThreshold:   0.7,
			RequestTimeoutSeconds: 120,
		},
	}
}

// Settings Command Tests

func TestSettingsCmd_Use(t *testing.T) {
	assert.Equal(t, "settings", settingsCmd.Use)
}

func TestSettingsCmd_HasSubcommands(t *testing.T) {
	commands := settingsCmd.Commands()
	commandNames := make([]string, 0, len(commands))
	for _, cmd := range commands {
		commandNames = append(commandNames, cmd.Name())
	}

	assert.Contains(t, commandNames, "show")
	assert.Contains(t, commandNames, "wizard")
	assert.Contains(t, commandNames, "set-embedding")
	assert.Contains(t, commandNames, "set-llm")
	assert.Contains(t, commandNames, "set-threshold")
	assert.Contains(t, commandNames, "set-timeout")
}

func TestSettingsCmd_DefaultsToShow(t *testing.T) {
	cleanup := setupTestServices()
	defer cleanup()

	buf := new(bytes.Buffer)
	rootCmd.SetOut(buf)
	rootCmd.SetArgs([]string{"settings"})
	defer func() {
		rootCmd.SetArgs(nil)
	}()

	err := rootCmd.Execute()

	assert.NoError(t, err)
	assert.Contains(t, buf.String(), "Current Settings")
}

// Settings Show Tests

func TestSettingsShowCmd_Use(t *testing.T) {
	assert.Equal(t, "show", settingsShowCmd.Use)
}

func TestSettingsShowCmd_Executes(t *testing.T) {
	cleanup := setupTestServices()
	defer cleanup()
	settings := configuredSettings()
	settingsService = &mockSettingsService{settings: &settings}

	buf := new(bytes.Buffer)
	rootCmd.SetOut(buf)
	rootCmd.SetArgs([]string{"settings", "show"})
	defer func() {
		rootCmd.SetArgs(nil)
	}()

	err := rootCmd.Execute()

	assert.NoError(t, err)
	assert.Contains(t, buf.String(), "[Embedding]")
	assert.Contains(t, buf.String(), "OpenAI (cloud)")
	assert.Contains(t, buf.String(), "text-embedding-3-small")
	assert.Contains(t, buf.String(), "[LLM]")
	assert.Contains(t, buf.String(), "Anthropic (cloud)")
	assert.Contains(t, buf.String(), "Status: configured")
	assert.Contains(t, buf.String(), "[Retrieval]")
	assert.Contains(t, buf.String(), "Similarity threshold: 0.7")
	assert.Contains(t, buf.String(), "Request timeout: 120s")
	assert.Contains(t, buf.String(), "Configuration is valid.")
}

func TestSettingsShowCmd_MasksAPIKey(t *testing.T) {
	cleanup := setupTestServices()
	defer cleanup()
	settings := configuredSettings()
	settingsService = &mockSettingsService{settings: &settings}

	buf := new(bytes.Buffer)
	rootCmd.SetOut(buf)
	rootCmd.SetArgs([]string{"settings", "show"})
	defer func() {
		rootCmd.SetArgs(nil)
	}()

	err := rootCmd.Execute()

	assert.NoError(t, err)
	assert.Contains(t, buf.String(), "sk-1...cdef")
	assert.NotContains(t, buf.String(), "sk-1234567890abcdef")
	assert.NotContains(t, buf.String(), "sk-ant-9876543210zyxw")
}

func TestSettingsShowCmd_UnconfiguredStatus(t *testing.T) {
	cleanup := setupTestServices()
	defer cleanup()

	buf := new(bytes.Buffer)
	rootCmd.SetOut(buf)
	rootCmd.SetArgs([]string{"settings", "show"})
	defer func() {
		rootCmd.SetArgs(nil)
	}()

	err := rootCmd.Execute()

	assert.NoError(t, err)
	assert.Contains(t, buf.String(), "Status: not configured")
}

func TestSettingsShowCmd_WarnsWhenInvalid(t *testing.T) {
	cleanup := setupTestServices()
	defer cleanup()
	current := domain.DefaultAppSettings()
	settingsService = &mockSettingsService{
		settings:    &current,
		validateErr: errors.New("embedding provider is not configured"),
	}

	buf := new(bytes.Buffer)
	rootCmd.SetOut(buf)
	rootCmd.SetArgs([]string{"settings", "show"})
	defer func() {
		rootCmd.SetArgs(nil)
	}()

	err := rootCmd.Execute()

	assert.NoError(t, err)
	assert.Contains(t, buf.String(), "Warning: embedding provider is not configured")
	assert.Contains(t, buf.String(), "askcsv settings wizard")
}

func TestSettingsShowCmd_ServiceNotConfigured(t *testing.T) {
	oldService := settingsService
	settingsService = nil
	defer func() {
		settingsService = oldService
	}()

	buf := new(bytes.Buffer)
	rootCmd.SetOut(buf)
	rootCmd.SetErr(buf)
	rootCmd.SetArgs([]string{"settings", "show"})
	defer func() {
		rootCmd.SetArgs(nil)
	}()

	err := rootCmd.Execute()

	assert.Error(t, err)
	assert.Contains(t, err.Error(), "settings service not configured")
}

func TestSettingsShowCmd_ServiceError(t *testing.T) {
	cleanup := setupTestServices()
	defer cleanup()
	settingsService = &mockSettingsService{err: errors.New("config file corrupted")}

	buf := new(bytes.Buffer)
	rootCmd.SetOut(buf)
	rootCmd.SetErr(buf)
	rootCmd.SetArgs([]string{"settings", "show"})
	defer func() {
		rootCmd.SetArgs(nil)
	}()

	err := rootCmd.Execute()

	assert.Error(t, err)
	assert.Contains(t, err.Error(), "failed to get settings")
	assert.Contains(t, err.Error(), "config file corrupted")
}

// Settings Threshold Tests

func TestSettingsThresholdCmd_Use(t *testing.T) {
	assert.Equal(t, "set-threshold [value]", settingsThresholdCmd.Use)
}

func TestSettingsThresholdCmd_RequiresExactlyOneArg(t *testing.T) {
	buf := new(bytes.Buffer)
	rootCmd.SetOut(buf)
	rootCmd.SetErr(buf)
	rootCmd.SetArgs([]string{"settings", "set-threshold"})
	defer func() {
		rootCmd.SetArgs(nil)
	}()

	err := rootCmd.Execute()

	assert.Error(t, err)
	assert.Contains(t, err.Error(), "accepts 1 arg(s), received 0")
}

func TestSettingsThresholdCmd_Executes(t *testing.T) {
	cleanup := setupTestServices()
	defer cleanup()
	current := domain.DefaultAppSettings()
	mock := &mockSettingsService{settings: &current}
	settingsService = mock

	buf := new(bytes.Buffer)
	rootCmd.SetOut(buf)
	rootCmd.SetArgs([]string{"settings", "set-threshold", "0.85"})
	defer func() {
		rootCmd.SetArgs(nil)
	}()

	err := rootCmd.Execute()

	assert.NoError(t, err)
	assert.Contains(t, buf.String(), "Similarity threshold set to 0.85.")
	assert.Equal(t, 0.85, mock.setThreshold)
}

func TestSettingsThresholdCmd_InvalidValue(t *testing.T) {
	cleanup := setupTestServices()
	defer cleanup()

	buf := new(bytes.Buffer)
	rootCmd.SetOut(buf)
	rootCmd.SetErr(buf)
	rootCmd.SetArgs([]string{"settings", "set-threshold", "abc"})
	defer func() {
		rootCmd.SetArgs(nil)
	}()

	err := rootCmd.Execute()

	assert.Error(t, err)
	assert.Contains(t, err.Error(), "invalid threshold")
}

func TestSettingsThresholdCmd_ServiceError(t *testing.T) {
	cleanup := setupTestServices()
	defer cleanup()
	settingsService = &mockSettingsService{err: errors.New("threshold must be in (0, 1]")}

	buf := new(bytes.Buffer)
	rootCmd.SetOut(buf)
	rootCmd.SetErr(buf)
	rootCmd.SetArgs([]string{"settings", "set-threshold", "1.5"})
	defer func() {
		rootCmd.SetArgs(nil)
	}()

	err := rootCmd.Execute()

	assert.Error(t, err)
	assert.Contains(t, err.Error(), "failed to set similarity threshold")
	assert.Contains(t, err.Error(), "threshold must be in (0, 1]")
}

// Settings Timeout Tests

func TestSettingsTimeoutCmd_Use(t *testing.T) {
	assert.Equal(t, "set-timeout [seconds]", settingsTimeoutCmd.Use)
}

func TestSettingsTimeoutCmd_Executes(t *testing.T) {
	cleanup := setupTestServices()
	defer cleanup()
	current := domain.DefaultAppSettings()
	mock := &mockSettingsService{settings: &current}
	settingsService = mock

	buf := new(bytes.Buffer)
	rootCmd.SetOut(buf)
	rootCmd.SetArgs([]string{"settings", "set-timeout", "60"})
	defer func() {
		rootCmd.SetArgs(nil)
	}()

	err := rootCmd.Execute()

	assert.NoError(t, err)
	assert.Contains(t, buf.String(), "Request timeout set to 60s.")
	assert.Equal(t, 60, mock.setTimeout)
}

func TestSettingsTimeoutCmd_InvalidValue(t *testing.T) {
	cleanup := setupTestServices()
	defer cleanup()

	buf := new(bytes.Buffer)
	rootCmd.SetOut(buf)
	rootCmd.SetErr(buf)
	rootCmd.SetArgs([]string{"settings", "set-timeout", "soon"})
	defer func() {
		rootCmd.SetArgs(nil)
	}()

	err := rootCmd.Execute()

	assert.Error(t, err)
	assert.Contains(t, err.Error(), "invalid timeout")
}

// Helper Function Tests

func TestMaskAPIKey(t *testing.T) {
	tests := []struct {
		name     string
		input    string
		expected string
	}{
		{
			name:     "Short key",
			input:    "abc123",
			expected: "****",
		},
		{
			name:     "Exactly 8 chars",
			input:    "12345678",
			expected: "****",
		},
		{
			name:     "Long key",
			input:    "sk-1234567890abcdef",
			expected: "sk-1...cdef",
		},
		{
			name:     "Very long key",
			input:    "sk-proj-1234567890abcdefghijklmnop",
			expected: "sk-p...mnop",
		},
		{
			name:     "Empty key",
			input:    "",
			expected: "****",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			result := maskAPIKey(tt.input)
			assert.Equal(t, tt.expected, result)
		})
	}
}

func TestParseChoice(t *testing.T) {
	tests := []struct {
		name       string
		input      string
		maxVal     int
		defaultVal int
		expected   int
	}{
		{
			name:       "Empty input returns default",
			input:      "",
			maxVal:     5,
			defaultVal: 1,
			expected:   1,
		},
		{
			name:       "Valid choice within range",
			input:      "3",
			maxVal:     5,
			defaultVal: 1,
			expected:   3,
		},
		{
			name:       "Choice below minimum returns default",
			input:      "0",
			maxVal:     5,
			defaultVal: 1,
			expected:   1,
		},
		{
			name:       "Choice above maximum returns default",
			input:      "6",
			maxVal:     5,
			defaultVal: 1,
			expected:   1,
		},
		{
			name:       "Invalid input returns default",
			input:      "abc",
			maxVal:     5,
			defaultVal: 2,
			expected:   2,
		},
		{
			name:       "Negative number returns default",
			input:      "-1",
			maxVal:     5,
			defaultVal: 1,
			expected:   1,
		},
		{
			name:       "Whitespace returns default",
			input:      "   ",
			maxVal:     5,
			defaultVal: 1,
			expected:   1,
		},
		{
			name:       "Maximum value is valid",
			input:      "5",
			maxVal:     5,
			defaultVal: 1,
			expected:   5,
		},
		{
			name:       "Minimum value is valid",
			input:      "1",
			maxVal:     5,
			defaultVal: 3,
			expected:   1,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			result := parseChoice(tt.input, tt.maxVal, tt.defaultVal)
			assert.Equal(t, tt.expected, result)
		})
	}
}
