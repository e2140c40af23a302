package parser

import (
	"reflect"
	"strings"
	"testing"
	"unicode/utf8"
)

func mustExtractor(t testing.TB, commands ...string) *Extractor {
	t.Helper()
	p, err := CompileCommands(commands)
	if err != nil {
		t.Fatal(err)
	}
	return NewExtractor(p)
}

func TestCompileCommandsDefaults(t *testing.T) {
	p, err := CompileCommands([]string{"", "   "})
	if err != nil {
		t.Fatal(err)
	}
	if !reflect.DeepEqual(p.Commands(), DefaultCommands) {
		t.Errorf("expected default commands %v, got %v", DefaultCommands, p.Commands())
	}

	p, err = CompileCommands(nil)
	if err != nil {
		t.Fatal(err)
	}
	if !p.MatchString("sudo reboot now") {
		t.Error("expected default pattern to match reboot")
	}
}

func TestCompileCommandsEscapesTokens(t *testing.T) {
	p, err := CompileCommands([]string{"rm.rf", "a+b"})
	if err != nil {
		t.Fatal(err)
	}
	if p.MatchString("rmXrf") {
		t.Error("expected dot to be matched literally")
	}
	if !p.MatchString("ran rm.rf today") {
		t.Error("expected literal rm.rf to match")
	}
	if !p.MatchString("x a+b y") {
		t.Error("expected literal a+b to match")
	}
}

func TestExtractWordBoundary(t *testing.T) {
	e := mustExtractor(t, "systemctl")

	data := []byte("mysystemctl started\nsystemctld running\nran systemctl restart sshd\n")
	recs := e.Extract(data, "a.log")

	if len(recs) != 1 {
		t.Fatalf("expected 1 record, got %d: %+v", len(recs), recs)
	}
	if recs[0].Raw != "ran systemctl restart sshd" {
		t.Errorf("expected whole-word line, got %q", recs[0].Raw)
	}
	if recs[0].Line != 3 {
		t.Errorf("expected line 3, got %d", recs[0].Line)
	}
}

func TestExtractMultipleCommandsOneRecord(t *testing.T) {
	e := mustExtractor(t, "systemctl", "reboot")

	recs := e.Extract([]byte("reboot requested; systemctl stop app; reboot"), "a.log")

	if len(recs) != 1 {
		t.Fatalf("expected 1 record, got %d", len(recs))
	}
	want := []string{"reboot", "systemctl"}
	if !reflect.DeepEqual(recs[0].Commands, want) {
		t.Errorf("expected commands %v, got %v", want, recs[0].Commands)
	}
	if recs[0].Command() != "reboot|systemctl" {
		t.Errorf("expected joined command 'reboot|systemctl', got %q", recs[0].Command())
	}
}

func TestExtractPreservesCase(t *testing.T) {
	e := mustExtractor(t, "shutdown")

	recs := e.Extract([]byte("SHUTDOWN scheduled, Shutdown confirmed"), "a.log")

	if len(recs) != 1 {
		t.Fatalf("expected 1 record, got %d", len(recs))
	}
	want := []string{"SHUTDOWN", "Shutdown"}
	if !reflect.DeepEqual(recs[0].Commands, want) {
		t.Errorf("expected commands %v, got %v", want, recs[0].Commands)
	}
}

func TestTimestampPrecedence(t *testing.T) {
	e := mustExtractor(t, "systemctl")

	cases := []struct {
		line string
		want string
	}{
		{"Jan  2 03:04:05 2023-05-01T10:00:00Z systemctl", "2023-05-01T10:00:00Z"},
		{"Jan 2 03:04:05 host systemctl restart sshd", "Jan 2 03:04:05"},
		{"2023-05-01 10:00:00.250+02:00 systemctl", "2023-05-01 10:00:00.250+02:00"},
		{"5/1/2023 10:00:00 systemctl", "5/1/2023 10:00:00"},
		{"no time here systemctl", ""},
	}

	for _, tc := range cases {
		recs := e.Extract([]byte(tc.line), "a.log")
		if len(recs) != 1 {
			t.Fatalf("%q: expected 1 record, got %d", tc.line, len(recs))
		}
		if recs[0].Timestamp != tc.want {
			t.Errorf("%q: expected timestamp %q, got %q", tc.line, tc.want, recs[0].Timestamp)
		}
	}
}

func TestExtractLineBoundaries(t *testing.T) {
	e := mustExtractor(t, "reboot")

	data := []byte("reboot at start\r\nnothing\r\nlast line reboot")
	recs := e.Extract(data, "a.log")

	if len(recs) != 2 {
		t.Fatalf("expected 2 records, got %d", len(recs))
	}
	if recs[0].Raw != "reboot at start" {
		t.Errorf("expected CR trimmed first line, got %q", recs[0].Raw)
	}
	if recs[0].Line != 1 {
		t.Errorf("expected line 1, got %d", recs[0].Line)
	}
	if recs[1].Raw != "last line reboot" {
		t.Errorf("expected unterminated last line, got %q", recs[1].Raw)
	}
	if recs[1].Line != 3 {
		t.Errorf("expected line 3, got %d", recs[1].Line)
	}
}

func TestExtractEmpty(t *testing.T) {
	e := mustExtractor(t)

	if recs := e.Extract(nil, "a.log"); len(recs) != 0 {
		t.Errorf("expected no records for empty input, got %d", len(recs))
	}
	if recs := e.Extract([]byte("\n\n\n"), "a.log"); len(recs) != 0 {
		t.Errorf("expected no records for blank lines, got %d", len(recs))
	}
}

func TestExtractInvalidUTF8(t *testing.T) {
	e := mustExtractor(t, "reboot")

	data := []byte("\xff\xfe garbage reboot \xc3\x28 tail\n")
	recs := e.Extract(data, "bin.log")

	if len(recs) != 1 {
		t.Fatalf("expected 1 record, got %d", len(recs))
	}
	if !utf8.ValidString(recs[0].Raw) {
		t.Errorf("expected valid UTF-8 output, got %q", recs[0].Raw)
	}
	if !strings.Contains(recs[0].Raw, "garbage reboot") || !strings.Contains(recs[0].Raw, "tail") {
		t.Errorf("expected readable text to survive, got %q", recs[0].Raw)
	}
	if !strings.ContainsRune(recs[0].Raw, utf8.RuneError) {
		t.Errorf("expected replacement character in %q", recs[0].Raw)
	}
}

func TestExtractSpecScenarioLines(t *testing.T) {
	e := mustExtractor(t)

	recs := e.Extract([]byte("2023-05-01T10:00:00Z shutdown -h now\n"), "b.log.gz")
	if len(recs) != 1 {
		t.Fatalf("expected 1 record, got %d", len(recs))
	}
	got := recs[0]
	if got.Timestamp != "2023-05-01T10:00:00Z" || got.Command() != "shutdown" || got.Raw != "2023-05-01T10:00:00Z shutdown -h now" {
		t.Errorf("unexpected record %+v", got)
	}
	if got.Source != "b.log.gz" {
		t.Errorf("expected source b.log.gz, got %q", got.Source)
	}
}
