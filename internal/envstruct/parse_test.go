package envstruct_test

import (
	"testing"
	"time"

	"github.com/nyaya-ai/nyaya/internal/envstruct"
	"github.com/stretchr/testify/require"
)

func lookup(env map[string]string) func(string) (string, bool) {
	return func(key string) (string, bool) {
		v, ok := env[key]
		return v, ok
	}
}

type gatewayConfig struct {
	Provider    string        `env:"NYAYA_AI_PROVIDER"            envDefault:"openai"`
	APIKey      string        `env:"OPENAI_API_KEY"`
	Timeout     time.Duration `env:"NYAYA_PREDICTION_TIMEOUT"     envDefault:"10s"`
	Temperature float64       `env:"NYAYA_PREDICTION_TEMPERATURE" envDefault:"0.3"`
	Cap         int           `env:"NYAYA_FALLBACK_CAP"           envDefault:"5"`
	Streaming   bool          `env:"NYAYA_STREAMING"              envDefault:"true"`
	// Untagged fields are left alone.
	Note string
}

func TestPopulate(t *testing.T) {
	t.Parallel()
	tests := []struct {
		name    string
		env     map[string]string
		want    gatewayConfig
		wantErr error
	}{
		{
			name: "defaults",
			env:  map[string]string{"OPENAI_API_KEY": "sk-test"},
			want: gatewayConfig{
				Provider:    "openai",
				APIKey:      "sk-test",
				Timeout:     10 * time.Second,
				Temperature: 0.3,
				Cap:         5,
				Streaming:   true,
				Note:        "",
			},
			wantErr: nil,
		},
		{
			name: "environment wins over defaults",
			env: map[string]string{
				"NYAYA_AI_PROVIDER":            "anthropic",
				"OPENAI_API_KEY":               "",
				"NYAYA_PREDICTION_TIMEOUT":     "1500ms",
				"NYAYA_PREDICTION_TEMPERATURE": "0",
				"NYAYA_FALLBACK_CAP":           "3",
				"NYAYA_STREAMING":              "false",
				"Note":                         "ignored",
			},
			want: gatewayConfig{
				Provider:    "anthropic",
				APIKey:      "",
				Timeout:     1500 * time.Millisecond,
				Temperature: 0,
				Cap:         3,
				Streaming:   false,
				Note:        "",
			},
			wantErr: nil,
		},
		{
			name:    "missing variable without default",
			env:     map[string]string{},
			want:    gatewayConfig{}, //nolint:exhaustruct // not compared
			wantErr: envstruct.ErrEnvNotSet,
		},
		{
			name:    "malformed int",
			env:     map[string]string{"OPENAI_API_KEY": "k", "NYAYA_FALLBACK_CAP": "five"},
			want:    gatewayConfig{}, //nolint:exhaustruct // not compared
			wantErr: envstruct.ErrInvalidValue,
		},
		{
			name:    "malformed duration",
			env:     map[string]string{"OPENAI_API_KEY": "k", "NYAYA_PREDICTION_TIMEOUT": "10"},
			want:    gatewayConfig{}, //nolint:exhaustruct // not compared
			wantErr: envstruct.ErrInvalidValue,
		},
		{
			name:    "malformed float",
			env:     map[string]string{"OPENAI_API_KEY": "k", "NYAYA_PREDICTION_TEMPERATURE": "warm"},
			want:    gatewayConfig{}, //nolint:exhaustruct // not compared
			wantErr: envstruct.ErrInvalidValue,
		},
		{
			name:    "malformed bool",
			env:     map[string]string{"OPENAI_API_KEY": "k", "NYAYA_STREAMING": "maybe"},
			want:    gatewayConfig{}, //nolint:exhaustruct // not compared
			wantErr: envstruct.ErrInvalidValue,
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			var got gatewayConfig
			err := envstruct.Populate(&got, lookup(tt.env))
			if tt.wantErr != nil {
				require.ErrorIs(t, err, tt.wantErr)
				return
			}
			require.NoError(t, err)
			require.Equal(t, tt.want, got)
		})
	}
}

func TestPopulate_ReportsEveryField(t *testing.T) {
	t.Parallel()
	var cfg struct {
		Cap     int           `env:"CAP"`
		Timeout time.Duration `env:"TIMEOUT"`
	}
	err := envstruct.Populate(&cfg, lookup(map[string]string{"TIMEOUT": "soon"}))
	require.ErrorIs(t, err, envstruct.ErrEnvNotSet)
	require.ErrorIs(t, err, envstruct.ErrInvalidValue)
}

func TestPopulate_RejectsTarget(t *testing.T) {
	t.Parallel()
	noEnv := lookup(nil)
	tests := []struct {
		name string
		v    any
	}{
		{name: "nil", v: nil},
		{name: "not pointer", v: struct{}{}},
		{name: "pointer to non-struct", v: new(string)},
		{name: "unsupported kind", v: &struct {
			Hosts []string `env:"HOSTS" envDefault:"a,b"`
		}{Hosts: nil}},
		{name: "unexported field", v: &struct {
			hosts string `env:"HOSTS" envDefault:"a"`
		}{hosts: ""}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			require.ErrorIs(t, envstruct.Populate(tt.v, noEnv), envstruct.ErrInvalidValue)
		})
	}
}
