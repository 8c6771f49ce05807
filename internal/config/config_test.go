package config

import (
	"os"
	"path/filepath"
	"testing"
)

func TestLoad(t *testing.T) {
	t.Setenv("OBJRELOC_CONFIG", "")
	t.Setenv("OBJRELOC_OBJDUMP", "")
	t.Setenv("OBJRELOC_NO_COLOR", "")

	dir := t.TempDir()
	write := func(name, content string) string {
		path := filepath.Join(dir, name)
		if err := os.WriteFile(path, []byte(content), 0644); err != nil {
			t.Fatal(err)
		}
		return path
	}

	tests := []struct {
		name    string
		path    string
		env     map[string]string
		want    Config
		wantErr bool
	}{
		{
			name: "defaults",
			want: Default(),
		},
		{
			name: "file overrides defaults",
			path: write("full.json", `{"objdump": "objdump", "section": "__text", "verbose": true}`),
			want: Config{Objdump: "objdump", Section: "__text", Verbose: true},
		},
		{
			name: "partial file keeps defaults",
			path: write("partial.json", `{"debug": true}`),
			want: Config{Objdump: "gobjdump", Section: ".text", Debug: true},
		},
		{
			name: "environment wins over file",
			path: write("env.json", `{"objdump": "objdump"}`),
			env:  map[string]string{"OBJRELOC_OBJDUMP": "llvm-objdump", "OBJRELOC_NO_COLOR": "1"},
			want: Config{Objdump: "llvm-objdump", Section: ".text", NoColor: true},
		},
		{
			name: "config path from environment",
			env:  map[string]string{"OBJRELOC_CONFIG": write("fromenv.json", `{"section": "__TEXT"}`)},
			want: Config{Objdump: "gobjdump", Section: "__TEXT"},
		},
		{
			name:    "malformed file",
			path:    write("bad.json", `{`),
			wantErr: true,
		},
		{
			name:    "empty section",
			path:    write("empty.json", `{"section": ""}`),
			wantErr: true,
		},
		{
			name:    "missing file",
			path:    filepath.Join(dir, "nope.json"),
			wantErr: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			for k, v := range tt.env {
				t.Setenv(k, v)
			}
			got, err := Load(tt.path)
			if tt.wantErr {
				if err == nil {
					t.Fatalf("expected error, got %+v", got)
				}
				return
			}
			if err != nil {
				t.Fatal(err)
			}
			if got != tt.want {
				t.Errorf("Load() = %+v, want %+v", got, tt.want)
			}
		})
	}
}
