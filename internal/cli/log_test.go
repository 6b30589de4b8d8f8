package cli

import (
	"bytes"
	"context"
	"io"
	"regexp"
	"strings"
	"testing"
	"time"

	"github.com/charmbracelet/log"
	"github.com/spf13/cobra"
)

func TestNewLoggerTimestamp(t *testing.T) {
	var buf bytes.Buffer
	newLogger(&buf, LogInfo).Info("compositing")

	if !regexp.MustCompile(`^\d{2}:\d{2}:\d{2}\.\d{2} `).MatchString(buf.String()) {
		t.Errorf("line should start with an HH:MM:SS.ms timestamp: %q", buf.String())
	}
}

func TestNewLoggerVerbose(t *testing.T) {
	tests := []struct {
		name    string
		level   log.Level
		wantLog bool
	}{
		{"default hides frame events", LogInfo, false},
		{"verbose shows frame events", LogDebug, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var buf bytes.Buffer
			LogHooks{Logger: newLogger(&buf, tt.level)}.OnFrame(context.Background(), 3, time.Millisecond, nil)

			if got := strings.Contains(buf.String(), "frame placed"); got != tt.wantLog {
				t.Errorf("frame event logged = %v, want %v: %q", got, tt.wantLog, buf.String())
			}
		})
	}
}

func TestProgressDone(t *testing.T) {
	var buf bytes.Buffer
	prog := newProgress(newLogger(&buf, LogInfo))
	time.Sleep(10 * time.Millisecond)
	prog.done("Composed 24 frames")

	if !regexp.MustCompile(`Composed 24 frames \([0-9.]+m?s\)`).MatchString(buf.String()) {
		t.Errorf("done output = %q, want message with elapsed time", buf.String())
	}
}

func TestLogProgress(t *testing.T) {
	tests := []struct {
		name    string
		updates []int
		want    []string
	}{
		{"tenth steps", []int{5, 10, 15, 50, 100}, []string{"10%", "50%", "100%"}},
		{"one frame", []int{100}, []string{"100%"}},
		{"per frame of twelve", []int{8, 16, 25, 33, 41, 50, 58, 66, 75, 83, 91, 100},
			[]string{"16%", "25%", "33%", "41%", "50%", "66%", "75%", "83%", "91%", "100%"}},
		{"nothing", nil, nil},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var buf bytes.Buffer
			c := New(&buf, LogInfo)

			updates := make(chan int, len(tt.updates))
			for _, pct := range tt.updates {
				updates <- pct
			}
			close(updates)
			c.logProgress(updates)

			var got []string
			for _, line := range strings.Split(strings.TrimSpace(buf.String()), "\n") {
				if _, pct, ok := strings.Cut(line, "progress="); ok {
					got = append(got, pct)
				}
			}
			if strings.Join(got, " ") != strings.Join(tt.want, " ") {
				t.Errorf("logged %v, want %v", got, tt.want)
			}
		})
	}
}

func TestRootCommandAttachesLogger(t *testing.T) {
	c := New(io.Discard, LogInfo)
	root := c.RootCommand()

	var got *log.Logger
	root.AddCommand(&cobra.Command{
		Use: "whoami",
		Run: func(cmd *cobra.Command, args []string) { got = loggerFromContext(cmd.Context()) },
	})
	root.SetArgs([]string{"whoami"})
	if err := root.ExecuteContext(context.Background()); err != nil {
		t.Fatal(err)
	}
	if got != c.Logger {
		t.Error("subcommands should see the CLI logger in their context")
	}
}

func TestLoggerFromContextDefault(t *testing.T) {
	if got := loggerFromContext(context.Background()); got != log.Default() {
		t.Error("loggerFromContext should fall back to log.Default")
	}
}
