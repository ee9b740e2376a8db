package cmd

import (
	"fmt"
	"strings"
	"testing"

	"github.com/rnwolfe/lifeos/internal/version"
)

func TestVersionCommand(t *testing.T) {
	tests := []struct {
		name    string
		args    []string
		wantOut string
	}{
		{
			name:    "default version output",
			args:    []string{},
			wantOut: fmt.Sprintf("lifeos %s", version.Full()),
		},
		{
			name:    "short flag version output",
			args:    []string{"--short"},
			wantOut: version.Short(),
		},
		{
			name:    "verbose adds platform",
			args:    []string{"--verbose"},
			wantOut: version.Platform(),
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			versionShort, versionVerbose = false, false
			if err := versionCmd.ParseFlags(tt.args); err != nil {
				t.Fatalf("flag parsing failed: %v", err)
			}

			out := captureStdout(t, func() {
				if err := runVersion(nil, nil); err != nil {
					t.Fatalf("runVersion: %v", err)
				}
			})
			if !strings.Contains(out, tt.wantOut) {
				t.Errorf("output = %q, want it to contain %q", out, tt.wantOut)
			}
		})
	}
}
