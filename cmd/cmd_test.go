package cmd

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/discipleshipbydesign/blueprint/internal/blueprint"
	"github.com/discipleshipbydesign/blueprint/internal/blueprint/blueprinttest"
	"github.com/discipleshipbydesign/blueprint/internal/config"
	"github.com/discipleshipbydesign/blueprint/internal/llm"
)

const intakeBody = `{"task":"Teaching A Class","ageGroup":"Adults","groupName":"Tuesday Night Group",` +
	`"desiredOutcome":"Pray daily","setting":"Small Group","duration":"45–60 min"}`

func execute(t *testing.T, stdin string, args ...string) (string, string, error) {
	t.Helper()
	var out, errOut bytes.Buffer
	rootCmd.SetIn(strings.NewReader(stdin))
	rootCmd.SetOut(&out)
	rootCmd.SetErr(&errOut)
	rootCmd.SetArgs(args)
	t.Cleanup(func() {
		rootCmd.SetIn(nil)
		rootCmd.SetOut(nil)
		rootCmd.SetErr(nil)
		rootCmd.SetArgs(nil)
	})
	err := rootCmd.Execute()
	return out.String(), errOut.String(), err
}

func TestVersion(t *testing.T) {
	out, _, err := execute(t, "", "version")
	require.NoError(t, err)
	assert.Contains(t, out, "schema "+blueprint.SchemaVersion)
}

func TestPreviewFromStdin(t *testing.T) {
	out, _, err := execute(t, intakeBody, "preview", "--intake", "-", "--normalized=true")
	require.NoError(t, err)
	assert.Contains(t, out, "Role:         Teacher")
	assert.Contains(t, out, "Minutes:      60")
	assert.Contains(t, out, "Tuesday Night Group")
}

func TestPreviewInvalidIntake(t *testing.T) {
	_, errOut, err := execute(t, `{"task":"Teaching A Class"}`, "preview", "--intake", "-", "--normalized=false")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "invalid intake")
	assert.Contains(t, errOut, "groupName")
}

func TestGenerateEndToEnd(t *testing.T) {
	calls := 0
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		calls++
		w.Header().Set("Content-Type", "application/json")
		json.NewEncoder(w).Encode(map[string]any{
			"id":      "chatcmpl-cli",
			"object":  "chat.completion",
			"created": 1234567890,
			"model":   "gpt-4.1-mini",
			"choices": []map[string]any{{
				"index":         0,
				"message":       map[string]any{"role": "assistant", "content": blueprinttest.JSON(blueprinttest.Teacher(60))},
				"finish_reason": "stop",
			}},
			"usage": map[string]any{"prompt_tokens": 10, "completion_tokens": 20, "total_tokens": 30},
		})
	}))
	defer srv.Close()

	t.Setenv(config.EnvProvider, string(llm.ProviderOpenAI))
	t.Setenv(llm.EnvOpenAIKey, "sk-test")
	t.Setenv(config.EnvOpenAIBase, srv.URL+"/v1")

	dbPath := filepath.Join(t.TempDir(), "blueprint.db")
	out, _, err := execute(t, intakeBody,
		"generate", "--intake", "-", "--owner", "cli-user", "--json=true", "--db", dbPath)
	require.NoError(t, err)
	assert.Equal(t, 1, calls)

	var got struct {
		ID        string               `json:"id"`
		Blueprint *blueprint.Blueprint `json:"blueprint"`
	}
	require.NoError(t, json.Unmarshal([]byte(out), &got))
	require.NotEmpty(t, got.ID)
	require.NotNil(t, got.Blueprint)

	out, _, err = execute(t, "", "list", "--owner", "cli-user", "--db", dbPath)
	require.NoError(t, err)
	assert.Contains(t, out, got.ID)

	out, _, err = execute(t, "", "llm", "runs", "--db", dbPath)
	require.NoError(t, err)
	assert.Contains(t, out, "gpt-4.1-mini")
	assert.Contains(t, out, "first try")

	out, _, err = execute(t, "", "llm", "list", "--purpose", "blueprint", "--db", dbPath)
	require.NoError(t, err)
	assert.Contains(t, out, "blueprint")
	assert.NotContains(t, out, "No model calls found.")
}
