package cli

import (
	"bytes"
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/mgpai22/dualsub/internal/config"
	"github.com/mgpai22/dualsub/internal/merge"
	"github.com/mgpai22/dualsub/internal/video"
	"github.com/spf13/cobra"
	"github.com/spf13/pflag"
)

// runs the root command with fresh flag values, returning stdout
func execute(t *testing.T, args ...string) (string, error) {
	t.Helper()

	reset := func(flags *pflag.FlagSet) {
		flags.VisitAll(func(f *pflag.Flag) {
			_ = f.Value.Set(f.DefValue)
			f.Changed = false
		})
	}
	var walk func(cmd *cobra.Command)
	walk = func(cmd *cobra.Command) {
		reset(cmd.Flags())
		reset(cmd.PersistentFlags())
		for _, child := range cmd.Commands() {
			walk(child)
		}
	}
	walk(rootCmd)

	var stdout, stderr bytes.Buffer
	rootCmd.SetOut(&stdout)
	rootCmd.SetErr(&stderr)
	rootCmd.SetArgs(args)
	t.Cleanup(func() {
		rootCmd.SetOut(nil)
		rootCmd.SetErr(nil)
		rootCmd.SetArgs(nil)
	})

	err := rootCmd.Execute()
	return stdout.String(), err
}

func writeSRT(t *testing.T, dir, name, content string) string {
	t.Helper()
	path := filepath.Join(dir, name)
	if err := os.WriteFile(path, []byte(content), 0644); err != nil {
		t.Fatalf("failed to write %s: %v", name, err)
	}
	return path
}

func TestMergeCommand(t *testing.T) {
	dir := t.TempDir()
	upper := writeSRT(t, dir, "movie.en.srt", "1\n00:00:01,000 --> 00:00:03,000\n<i>Hello</i>\n")
	lower := writeSRT(t, dir, "movie.ru.srt", "1\n00:00:01,000 --> 00:00:03,000\nПривет\n")
	missingConfig := filepath.Join(dir, "none.toml")

	t.Run("stdout", func(t *testing.T) {
		out, err := execute(t, "merge", upper, lower, "--config", missingConfig)
		if err != nil {
			t.Fatalf("merge returned error: %v", err)
		}
		want := "1\n00:00:01,000 --> 00:00:03,000\n<i>Hello</i>\nПривет\n"
		if out != want {
			t.Errorf("stdout:\ngot:  %q\nwant: %q", out, want)
		}
	})

	t.Run("output file with plain text", func(t *testing.T) {
		output := filepath.Join(dir, "out", "merged.srt")
		out, err := execute(t, "merge", upper, lower, "-o", output, "--plain-text", "--config", missingConfig)
		if err != nil {
			t.Fatalf("merge returned error: %v", err)
		}
		if out != "" {
			t.Errorf("expected nothing on stdout, got %q", out)
		}
		data, err := os.ReadFile(output)
		if err != nil {
			t.Fatalf("failed to read output: %v", err)
		}
		if !strings.Contains(string(data), "\nHello\nПривет\n") {
			t.Errorf("unexpected output: %q", data)
		}
	})

	t.Run("missing file", func(t *testing.T) {
		_, err := execute(t, "merge", upper, filepath.Join(dir, "missing.srt"), "--config", missingConfig)
		if err == nil {
			t.Fatal("expected error for missing lower file")
		}
	})

	t.Run("same languages rejected", func(t *testing.T) {
		_, err := execute(t, "merge", upper, lower, "--upper-lang", "ru", "--config", missingConfig)
		if err == nil || !strings.Contains(err.Error(), "both") {
			t.Fatalf("expected language conflict, got %v", err)
		}
	})
}

func TestConfigInitCommand(t *testing.T) {
	path := filepath.Join(t.TempDir(), "dualsub", "config.toml")

	if _, err := execute(t, "config", "init", "--config", path); err != nil {
		t.Fatalf("config init returned error: %v", err)
	}
	if _, err := os.Stat(path); err != nil {
		t.Fatalf("config file not written: %v", err)
	}

	if _, err := execute(t, "config", "init", "--config", path); err == nil {
		t.Error("expected error when the file exists")
	}
	if _, err := execute(t, "config", "init", "--config", path, "--force"); err != nil {
		t.Errorf("config init --force returned error: %v", err)
	}

	loaded, _, exists, err := config.Load(path)
	if err != nil {
		t.Fatalf("sample config does not load: %v", err)
	}
	if !exists || loaded.UpperLanguage != "eng" {
		t.Errorf("unexpected loaded config: exists=%v %+v", exists, loaded)
	}
}

func TestApplyFlagOverrides(t *testing.T) {
	newCmd := func() *cobra.Command {
		cmd := &cobra.Command{Use: "test"}
		cmd.Flags().String("upper-lang", "", "")
		cmd.Flags().String("lower-lang", "", "")
		cmd.Flags().Bool("plain-text", false, "")
		cmd.Flags().String("mode", "", "")
		cmd.Flags().Int("concurrency", 0, "")
		cmd.Flags().Bool("no-default", false, "")
		return cmd
	}

	tests := []struct {
		name    string
		flags   map[string]string
		check   func(t *testing.T, c config.Config)
		wantErr bool
	}{
		{
			name:  "no flags keeps config",
			flags: nil,
			check: func(t *testing.T, c config.Config) {
				if c.UpperLanguage != "eng" || c.LowerLanguage != "rus" || !c.MakeMergedDefault {
					t.Errorf("config changed: %+v", c)
				}
			},
		},
		{
			name: "languages are normalized",
			flags: map[string]string{
				"upper-lang": "fr",
				"lower-lang": "ger",
			},
			check: func(t *testing.T, c config.Config) {
				if c.UpperLanguage != "fra" || c.LowerLanguage != "deu" {
					t.Errorf("got %s/%s", c.UpperLanguage, c.LowerLanguage)
				}
			},
		},
		{
			name: "mode, concurrency and default",
			flags: map[string]string{
				"mode":        "Separate_Files",
				"concurrency": "4",
				"no-default":  "true",
				"plain-text":  "true",
			},
			check: func(t *testing.T, c config.Config) {
				if c.MergeMode != config.MergeModeSeparateFiles || c.Concurrency != 4 {
					t.Errorf("got mode %s concurrency %d", c.MergeMode, c.Concurrency)
				}
				if c.MakeMergedDefault || !c.PlainText {
					t.Errorf("got default=%v plain=%v", c.MakeMergedDefault, c.PlainText)
				}
			},
		},
		{
			name:    "unknown language",
			flags:   map[string]string{"upper-lang": "xx"},
			wantErr: true,
		},
		{
			name:    "invalid mode",
			flags:   map[string]string{"mode": "inline"},
			wantErr: true,
		},
		{
			name:    "concurrency out of range",
			flags:   map[string]string{"concurrency": "0"},
			wantErr: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cmd := newCmd()
			for name, value := range tt.flags {
				if err := cmd.Flags().Set(name, value); err != nil {
					t.Fatalf("set %s: %v", name, err)
				}
			}
			c := config.Default()
			err := applyFlagOverrides(cmd, &c)
			if tt.wantErr {
				if err == nil {
					t.Fatal("expected error")
				}
				return
			}
			if err != nil {
				t.Fatalf("unexpected error: %v", err)
			}
			tt.check(t, c)
		})
	}
}

func TestTrackSource(t *testing.T) {
	tests := []struct {
		name    string
		flags   map[string]string
		want    merge.TrackSource
		wantErr bool
	}{
		{name: "auto", want: merge.Auto()},
		{name: "stream", flags: map[string]string{"upper-stream": "3"}, want: merge.TrackSource{Stream: 3}},
		{
			name:  "file",
			flags: map[string]string{"upper-file": "movie.en.srt"},
			want:  merge.TrackSource{File: "movie.en.srt", Stream: merge.AutoStream},
		},
		{
			name:    "file and stream",
			flags:   map[string]string{"upper-file": "movie.en.srt", "upper-stream": "2"},
			wantErr: true,
		},
		{name: "negative stream", flags: map[string]string{"upper-stream": "-4"}, wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cmd := &cobra.Command{Use: "test"}
			cmd.Flags().Int("upper-stream", merge.AutoStream, "")
			cmd.Flags().String("upper-file", "", "")
			for name, value := range tt.flags {
				if err := cmd.Flags().Set(name, value); err != nil {
					t.Fatalf("set %s: %v", name, err)
				}
			}

			got, err := trackSource(cmd, "upper")
			if tt.wantErr {
				if err == nil {
					t.Fatal("expected error")
				}
				return
			}
			if err != nil {
				t.Fatalf("unexpected error: %v", err)
			}
			if got != tt.want {
				t.Errorf("got %+v, want %+v", got, tt.want)
			}
		})
	}
}

func TestRenderStreams(t *testing.T) {
	out := renderStreams([]video.Stream{
		{Index: 2, CodecType: "subtitle", CodecName: "subrip", Language: "eng", LanguageTag: "eng", Default: true},
		{Index: 3, CodecType: "subtitle", CodecName: "hdmv_pgs_subtitle", LanguageTag: "xyz"},
		{Index: 4, CodecType: "subtitle", CodecName: "subrip", Language: "eng", LanguageTag: "eng", Title: "merged-eng-rus"},
	})

	for _, want := range []string{"Index", "English (eng)", "hdmv_pgs_subtitle", "xyz", "merged-eng-rus"} {
		if !strings.Contains(out, want) {
			t.Errorf("table missing %q:\n%s", want, out)
		}
	}
	if lines := strings.Count(out, "\n") + 1; lines != 7 {
		t.Errorf("expected 7 table lines, got %d:\n%s", lines, out)
	}
}

func TestRenderResults(t *testing.T) {
	results := []merge.Result{
		{VideoPath: "/v/01.mkv", Status: merge.StatusOK, OutputPath: "/v/01.mkv", UpperLabel: "eng", LowerLabel: "rus"},
		{VideoPath: "/v/02.mkv", Status: merge.StatusNotPossible, Err: merge.ErrNoMatchingStream},
		{VideoPath: "/v/03.mkv", Status: merge.StatusFailed, Err: errors.New("ffmpeg exploded")},
	}

	out := renderResults(results)
	for _, want := range []string{"01.mkv", "not possible", "ffmpeg exploded", "eng"} {
		if !strings.Contains(out, want) {
			t.Errorf("table missing %q:\n%s", want, out)
		}
	}

	var buf bytes.Buffer
	printSummary(&buf, results, 4)
	want := "4 videos: 1 ok, 0 already merged, 1 not possible, 1 failed\n"
	if buf.String() != want {
		t.Errorf("summary = %q, want %q", buf.String(), want)
	}
}

func TestResultError(t *testing.T) {
	if err := resultError(merge.Result{Status: merge.StatusOK}); err != nil {
		t.Errorf("ok result returned %v", err)
	}
	err := resultError(merge.Result{Status: merge.StatusAlreadyMerged, Err: merge.ErrAlreadyMerged})
	if !errors.Is(err, merge.ErrAlreadyMerged) || !strings.HasPrefix(err.Error(), "already merged") {
		t.Errorf("unexpected error %v", err)
	}
}
