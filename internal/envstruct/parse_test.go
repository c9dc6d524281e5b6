package envstruct_test

import (
	"errors"
	"testing"
	"time"

	"github.com/google/go-cmp/cmp"
	"github.com/myrjola/liftcalc/internal/envstruct"
)

func unset(_ string) (string, bool) { return "", false }

type typedConfig struct {
	Addr      string        `env:"ADDR" envDefault:"localhost:0"`
	CacheSize int           `env:"CACHE_BYTES" envDefault:"1048576"`
	Debug     bool          `env:"DEBUG" envDefault:"false"`
	BarWeight float64       `env:"BAR" envDefault:"45"`
	Lifetime  time.Duration `env:"LIFETIME" envDefault:"12h"`
	Untagged  string
}

func TestPopulate(t *testing.T) {
	tests := []struct {
		name      string
		v         any
		lookupEnv func(string) (string, bool)
		want      any
		wantErr   error
	}{
		{
			name:      "nil",
			v:         nil,
			lookupEnv: unset,
			wantErr:   envstruct.ErrInvalidValue,
		},
		{
			name:      "not pointer",
			v:         struct{}{},
			lookupEnv: unset,
			wantErr:   envstruct.ErrInvalidValue,
		},
		{
			name: "missing without default",
			v: &struct { //nolint:exhaustruct // populated later
				Addr string `env:"ADDR"`
			}{},
			lookupEnv: unset,
			wantErr:   envstruct.ErrEnvNotSet,
		},
		{
			name:      "defaults",
			v:         &typedConfig{}, //nolint:exhaustruct // populated later
			lookupEnv: unset,
			want: &typedConfig{
				Addr:      "localhost:0",
				CacheSize: 1 << 20,
				Debug:     false,
				BarWeight: 45,
				Lifetime:  12 * time.Hour,
				Untagged:  "",
			},
		},
		{
			name: "environment wins over defaults",
			v:    &typedConfig{}, //nolint:exhaustruct // populated later
			lookupEnv: func(s string) (string, bool) {
				env := map[string]string{
					"ADDR":        "127.0.0.1:8082",
					"CACHE_BYTES": "2048",
					"DEBUG":       "true",
					"BAR":         "35",
					"LIFETIME":    "90m",
				}
				v, ok := env[s]
				return v, ok
			},
			want: &typedConfig{
				Addr:      "127.0.0.1:8082",
				CacheSize: 2048,
				Debug:     true,
				BarWeight: 35,
				Lifetime:  90 * time.Minute,
				Untagged:  "",
			},
		},
		{
			name:      "unparseable int",
			v:         &typedConfig{}, //nolint:exhaustruct // populated later
			lookupEnv: func(s string) (string, bool) { return "lots", s == "CACHE_BYTES" },
			wantErr:   envstruct.ErrParse,
		},
		{
			name: "unsupported type",
			v: &struct { //nolint:exhaustruct // populated later
				Plates []float64 `env:"PLATES" envDefault:"45,25"`
			}{},
			lookupEnv: unset,
			wantErr:   envstruct.ErrInvalidValue,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := envstruct.Populate(tt.v, tt.lookupEnv)

			if tt.wantErr != nil {
				if !errors.Is(err, tt.wantErr) {
					t.Errorf("Populate() error = %v, wantErr %v", err, tt.wantErr)
				}
				return
			}
			if err != nil {
				t.Fatalf("Populate() unexpected error = %v", err)
			}
			if diff := cmp.Diff(tt.want, tt.v); diff != "" {
				t.Errorf("Populate() mismatch (-want +got):\n%s", diff)
			}
		})
	}
}
