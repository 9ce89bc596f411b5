package cli

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/BurntSushi/toml"
	"github.com/spf13/pflag"

	"github.com/matzehuels/referraltree/pkg/errors"
)

// configFile is the config file name inside the config directory.
const configFile = "config.toml"

// Config holds defaults read from config.toml. Flags always win.
type Config struct {
	MemberColumn   string `toml:"member_column"`
	ReferrerColumn string `toml:"referrer_column"`
	PathSeparator  string `toml:"path_separator"`
	Sheet          string `toml:"sheet"`
	StrictIDs      bool   `toml:"strict_ids"`
	RawIDs         bool   `toml:"raw_ids"`
	FailOnCycle    bool   `toml:"fail_on_cycle"`
}

// configDir returns the config directory using XDG standard (~/.config/referraltree/).
func configDir() (string, error) {
	if configHome := os.Getenv("XDG_CONFIG_HOME"); configHome != "" {
		return filepath.Join(configHome, appName), nil
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(home, ".config", appName), nil
}

// loadConfig reads the config file. An explicit path must exist; the
// default location is optional and a missing file yields a zero Config.
func loadConfig(explicit string) (Config, string, error) {
	var cfg Config

	path := explicit
	if path == "" {
		dir, err := configDir()
		if err != nil {
			return cfg, "", nil
		}
		path = filepath.Join(dir, configFile)
		if _, err := os.Stat(path); os.IsNotExist(err) {
			return cfg, "", nil
		}
	}

	md, err := toml.DecodeFile(path, &cfg)
	if os.IsNotExist(err) {
		return cfg, "", errors.Wrap(errors.ErrCodeFileNotFound, err, "config file not found: %s", path)
	}
	if err != nil {
		return cfg, "", errors.Wrap(errors.ErrCodeInvalidInput, err, "parse config %s", path)
	}
	if undecoded := md.Undecoded(); len(undecoded) > 0 {
		return cfg, "", errors.New(errors.ErrCodeInvalidInput, "unknown key %q in config %s", undecoded[0].String(), path)
	}
	return cfg, path, nil
}

// tableFlags are the flags shared by every command that reads a table.
type tableFlags struct {
	configPath  string
	member      string
	referrer    string
	sheet       string
	strictIDs   bool
	rawIDs      bool
	failOnCycle bool
	separator   string
}

func (f *tableFlags) register(fs *pflag.FlagSet) {
	fs.StringVar(&f.configPath, "config", "", "config file (default $XDG_CONFIG_HOME/"+appName+"/"+configFile+")")
	fs.StringVarP(&f.member, "member-col", "m", "", "column holding member ids")
	fs.StringVarP(&f.referrer, "referrer-col", "r", "", "column holding referrer ids")
	fs.StringVar(&f.sheet, "sheet", "", "worksheet to read from .xlsx input (default: first sheet)")
	fs.BoolVar(&f.strictIDs, "strict-ids", false, "fail when a member id appears on more than one row")
	fs.BoolVar(&f.rawIDs, "raw-ids", false, "compare ids exactly as read (no 1001.0 -> 1001 normalization)")
	fs.BoolVar(&f.failOnCycle, "fail-on-cycle", false, "fail instead of breaking referral cycles")
	fs.StringVar(&f.separator, "separator", "", fmt.Sprintf("upstream path separator (default %q)", " -> "))
}

// merge fills every flag the user did not set from cfg.
func (f *tableFlags) merge(fs *pflag.FlagSet, cfg Config) {
	takeString := func(name string, dst *string, v string) {
		if !fs.Changed(name) && v != "" {
			*dst = v
		}
	}
	takeBool := func(name string, dst *bool, v bool) {
		if !fs.Changed(name) && v {
			*dst = v
		}
	}

	takeString("member-col", &f.member, cfg.MemberColumn)
	takeString("referrer-col", &f.referrer, cfg.ReferrerColumn)
	takeString("sheet", &f.sheet, cfg.Sheet)
	takeString("separator", &f.separator, cfg.PathSeparator)
	takeBool("strict-ids", &f.strictIDs, cfg.StrictIDs)
	takeBool("raw-ids", &f.rawIDs, cfg.RawIDs)
	takeBool("fail-on-cycle", &f.failOnCycle, cfg.FailOnCycle)
}
