package storage

import (
	"runtime"

	"github.com/BurntSushi/toml"
	"github.com/sirupsen/logrus"
)

const (
	DiskBackend   = "disk"
	MemoryBackend = "memory"
)

type Options struct {
	BasePath    string `toml:"base-path"`
	Backend     string `toml:"backend"`
	IOWorkers   int    `toml:"io-workers"`
	SyncOnFlush bool   `toml:"sync-on-flush"`
	LogLevel    string `toml:"log-level"`
}

func DefaultOptions(basePath string) *Options {
	opts := &Options{BasePath: basePath}
	opts.FillDefaults()
	return opts
}

func (opts *Options) FillDefaults() {
	if opts.Backend == "" {
		opts.Backend = DiskBackend
	}
	if opts.IOWorkers <= 0 {
		opts.IOWorkers = runtime.NumCPU()
	}
	if opts.LogLevel == "" {
		opts.LogLevel = logrus.InfoLevel.String()
	}
}

// LoadOptions reads a TOML options file and fills unset fields with
// defaults.
func LoadOptions(path string) (*Options, error) {
	opts := new(Options)
	if _, err := toml.DecodeFile(path, opts); err != nil {
		return nil, err
	}
	opts.FillDefaults()
	return opts, nil
}
