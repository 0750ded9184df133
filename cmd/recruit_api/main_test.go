package main

import (
	"bytes"
	"os"
	"path/filepath"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/KashafDawood/AI-Recruitment-Backend/internal/schemas"
)

const validSeed = `{
  "users": [
    {"name": "Acme Hiring", "username": "acme", "email": "jobs@acme.test", "role": "employer"},
    {"name": "Alice", "username": "alice", "email": "alice@example.com", "role": "candidate"}
  ],
  "listings": [
    {"employer": "acme", "title": "Go Developer", "company": "Acme", "location": "Lahore",
     "description": "Build services", "salary": "85k", "job_type": "full_time"}
  ]
}`

func TestRootCommand_RegistersSubcommands(t *testing.T) {
	names := map[string]bool{}
	for _, c := range rootCmd.Commands() {
		names[c.Name()] = true
	}
	for _, want := range []string{"serve", "migrate", "token", "search", "seed"} {
		assert.True(t, names[want], "missing %s command", want)
	}
}

func TestParseSeed(t *testing.T) {
	seed, err := parseSeed([]byte(validSeed))
	require.NoError(t, err)

	require.Len(t, seed.Users, 2)
	require.Len(t, seed.Listings, 1)
	assert.Equal(t, "acme", seed.Listings[0].Employer)
	assert.Equal(t, "Go Developer", seed.Listings[0].Title)
	require.NotNil(t, seed.Listings[0].Salary)
	assert.Equal(t, "85k", *seed.Listings[0].Salary)
}

func TestParseSeed_Rejects(t *testing.T) {
	tests := []struct {
		name string
		data string
		want string
	}{
		{"malformed", `{"users": [`, "unmarshal"},
		{"unknown role", `{"users": [{"username": "x", "email": "x@y", "role": "admin"}]}`, "unknown role"},
		{"missing email", `{"users": [{"username": "x", "role": "candidate"}]}`, "required"},
		{
			"listing missing description",
			`{"users": [{"username": "acme", "email": "a@b", "role": "employer"}],
			  "listings": [{"employer": "acme", "title": "Go", "company": "Acme", "location": "Lahore"}]}`,
			"listing 0",
		},
		{
			"candidate as employer",
			`{"users": [{"username": "alice", "email": "a@b", "role": "candidate"}],
			  "listings": [{"employer": "alice", "title": "Go", "company": "Acme", "location": "Lahore", "description": "x"}]}`,
			"not a seeded employer",
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := parseSeed([]byte(tt.data))
			require.Error(t, err)
			assert.Contains(t, err.Error(), tt.want)
		})
	}
}

func TestParseSeed_SchemaErrorIsTyped(t *testing.T) {
	_, err := parseSeed([]byte(`{"users": [{"username": "acme", "email": "a@b", "role": "employer"}],
		"listings": [{"employer": "acme", "title": "Go", "company": "Acme", "location": "Lahore",
		"description": "x", "job_type": "freelance"}]}`))

	var ve *schemas.ValidationError
	assert.ErrorAs(t, err, &ve)
}

func TestTokenCommand(t *testing.T) {
	t.Setenv("JWT_SECRET", "test-secret-key-for-jwt-signing-minimum-32-bytes")
	var out bytes.Buffer
	rootCmd.SetOut(&out)
	rootCmd.SetArgs([]string{"token", "--user", uuid.NewString()})
	t.Cleanup(func() { rootCmd.SetArgs(nil); rootCmd.SetOut(nil) })

	require.NoError(t, rootCmd.Execute())
	assert.Regexp(t, `^[\w-]+\.[\w-]+\.[\w-]+\n$`, out.String())
}

func TestSearchCommand_PrintsPlan(t *testing.T) {
	var out bytes.Buffer
	rootCmd.SetOut(&out)
	rootCmd.SetArgs([]string{"search", "--plan", "--param", "title=backend"})
	t.Cleanup(func() {
		rootCmd.SetArgs(nil)
		rootCmd.SetOut(nil)
		searchPlan = false
		searchParams = nil
	})

	require.NoError(t, rootCmd.Execute())
	assert.Contains(t, out.String(), "j.title ILIKE")
	assert.Contains(t, out.String(), "%backend%")
}

func TestLoadConfig_PortOverride(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.json")
	require.NoError(t, os.WriteFile(path, []byte(`{"database_url": "postgres://localhost/jobs", "port": 9000}`), 0o600))
	configPath, servePort = path, 0
	t.Cleanup(func() { configPath, servePort = "", 0 })

	cfg, err := loadConfig()
	require.NoError(t, err)
	assert.Equal(t, 9000, cfg.Port)

	servePort = 70000
	_, err = loadConfig()
	assert.Error(t, err)
}
