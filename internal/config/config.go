package config

import (
	"bufio"
	"fmt"
	"os"
	"runtime"
	"strings"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/m3hr4nn/logboss/internal/decode"
	"github.com/spf13/viper"
)

// DefaultLogDir is scanned when no directory is given.
const DefaultLogDir = "/var/log"

// Config is the validated input of one scan run.
type Config struct {
	Root          string   `validate:"required"`
	Commands      []string `validate:"dive,required"`
	Output        string   `validate:"required"`
	Format        string   `validate:"oneof=csv jsonl"`
	Workers       int      `validate:"min=1"`
	MmapThreshold int64    `validate:"min=0"`
	Exclude       []string
	Sort          bool
	Serve         string
	Quiet         bool
	Echo          bool
}

// SetDefaults registers default values for every scan key on v.
func SetDefaults(v *viper.Viper) {
	v.SetDefault("dir", DefaultLogDir)
	v.SetDefault("format", "csv")
	v.SetDefault("workers", runtime.NumCPU())
	v.SetDefault("mmap-threshold", decode.DefaultMmapThreshold)
}

// Load builds a Config from v. A command file, when set, takes precedence
// over the commands list; an empty output name is generated from now.
func Load(v *viper.Viper, now time.Time) (*Config, error) {
	cfg := &Config{
		Root:          v.GetString("dir"),
		Commands:      cleanCommands(v.GetStringSlice("commands")),
		Output:        v.GetString("output"),
		Format:        strings.ToLower(v.GetString("format")),
		Workers:       v.GetInt("workers"),
		MmapThreshold: v.GetInt64("mmap-threshold"),
		Exclude:       v.GetStringSlice("exclude"),
		Sort:          v.GetBool("sort"),
		Serve:         v.GetString("serve"),
		Quiet:         v.GetBool("quiet"),
		Echo:          v.GetBool("echo"),
	}

	if path := v.GetString("command-file"); path != "" {
		commands, err := LoadCommands(path)
		if err != nil {
			return nil, err
		}
		cfg.Commands = commands
	}

	if cfg.Output == "" {
		cfg.Output = DefaultOutputName(hostname(), now, cfg.Format)
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// Validate checks field constraints.
func (c *Config) Validate() error {
	if err := validator.New().Struct(c); err != nil {
		return fmt.Errorf("invalid configuration: %w", err)
	}
	return nil
}

// LoadCommands reads one command per line, ignoring blank lines and
// lines starting with '#'.
func LoadCommands(path string) ([]string, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("command file: %w", err)
	}
	defer f.Close()

	var commands []string
	sc := bufio.NewScanner(f)
	for sc.Scan() {
		line := strings.TrimSpace(sc.Text())
		if line == "" || strings.HasPrefix(line, "#") {
			continue
		}
		commands = append(commands, line)
	}
	if err := sc.Err(); err != nil {
		return nil, fmt.Errorf("command file %s: %w", path, err)
	}
	return commands, nil
}

// DefaultOutputName returns <host>_<YYYYMMDD-HHMMSS>_parsed_logs.<format>.
func DefaultOutputName(host string, now time.Time, format string) string {
	ext := "csv"
	if format == "jsonl" {
		ext = "jsonl"
	}
	return fmt.Sprintf("%s_%s_parsed_logs.%s", host, now.Format("20060102-150405"), ext)
}

func cleanCommands(in []string) []string {
	out := make([]string, 0, len(in))
	for _, c := range in {
		if c = strings.TrimSpace(c); c != "" {
			out = append(out, c)
		}
	}
	return out
}

func hostname() string {
	h, err := os.Hostname()
	if err != nil || h == "" {
		return "localhost"
	}
	return h
}
