package main

import (
	"fmt"
	"strings"
	"time"
	"unicode/utf8"

	"github.com/spf13/pflag"
	"github.com/spf13/viper"
)

const envPrefix = "MOCKGEN"

// config holds the resolved settings of a command. Values come from flags,
// then MOCKGEN_* environment variables, then an optional config file.
type config struct {
	Spec           string
	Example        string
	Rows           int
	Seed           uint64
	Seeded         bool
	Concurrency    int
	Output         string
	Force          bool
	Interactive    bool
	Delimiter      rune
	FloatPrecision int
	TimeFormat     string
	Index          bool
	Preview        int
	HTTPTimeout    time.Duration
	LogLevel       string
}

func loadConfig(flags *pflag.FlagSet) (*config, error) {
	v := viper.New()
	v.SetEnvPrefix(envPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer("-", "_"))
	v.AutomaticEnv()
	if err := v.BindPFlags(flags); err != nil {
		return nil, err
	}
	if path := v.GetString("config"); path != "" {
		v.SetConfigFile(path)
		if err := v.ReadInConfig(); err != nil {
			return nil, fmt.Errorf("read config %s: %w", path, err)
		}
	}

	cfg := &config{
		Spec:           v.GetString("spec"),
		Example:        v.GetString("example"),
		Rows:           v.GetInt("rows"),
		Seed:           v.GetUint64("seed"),
		Seeded:         v.IsSet("seed"),
		Concurrency:    v.GetInt("concurrency"),
		Output:         v.GetString("output"),
		Force:          v.GetBool("force"),
		Interactive:    v.GetBool("interactive"),
		FloatPrecision: v.GetInt("float-precision"),
		TimeFormat:     v.GetString("time-format"),
		Index:          v.GetBool("index"),
		Preview:        v.GetInt("preview"),
		HTTPTimeout:    v.GetDuration("http-timeout"),
		LogLevel:       v.GetString("log-level"),
	}

	delimiter := v.GetString("delimiter")
	switch delimiter {
	case "":
		delimiter = ","
	case `\t`:
		delimiter = "\t"
	}
	if utf8.RuneCountInString(delimiter) != 1 {
		return nil, fmt.Errorf("delimiter must be a single character, got %q", delimiter)
	}
	cfg.Delimiter, _ = utf8.DecodeRuneInString(delimiter)
	return cfg, nil
}
