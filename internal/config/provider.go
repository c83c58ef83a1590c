package config

import (
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"strings"

	"github.com/spf13/cobra"
	"github.com/spf13/pflag"
	"github.com/spf13/viper"
	"github.com/trebuchet-org/solwatch/internal/domain/config"
)

// Provider creates RuntimeConfig for Wire dependency injection
func Provider(v *viper.Viper, log *slog.Logger) (*config.RuntimeConfig, error) {
	projectRoot := v.GetString("project_root")
	if projectRoot == "" {
		var err error
		projectRoot, err = FindProjectRoot()
		if err != nil {
			return nil, fmt.Errorf("failed to find project root: %w", err)
		}
	}

	configFile := v.GetString("config")
	if configFile == "" {
		var err error
		configFile, err = FindConfigFile(projectRoot)
		if err != nil {
			return nil, err
		}
	} else if !filepath.IsAbs(configFile) {
		configFile = filepath.Join(projectRoot, configFile)
	}

	project, err := LoadProjectConfig(configFile, log)
	if err != nil {
		return nil, err
	}

	return &config.RuntimeConfig{
		ProjectRoot:    projectRoot,
		ConfigFile:     configFile,
		Network:        v.GetString("network"),
		Debug:          v.GetBool("debug"),
		NonInteractive: v.GetBool("non_interactive"),
		JSON:           v.GetBool("json"),
		Timeout:        v.GetDuration("timeout"),
		Project:        project,
	}, nil
}

// ProvideEngine builds the resolution engine from the runtime config
func ProvideEngine(cfg *config.RuntimeConfig, log *slog.Logger) (*Engine, error) {
	return NewEngine(cfg.Project, log)
}

// FindProjectRoot walks up from the current directory to the first directory holding a project file
func FindProjectRoot() (string, error) {
	dir, err := os.Getwd()
	if err != nil {
		return "", err
	}

	for {
		if _, err := FindConfigFile(dir); err == nil {
			return dir, nil
		}

		parent := filepath.Dir(dir)
		if parent == dir {
			return "", fmt.Errorf("not in a solwatch project (%s not found)", strings.Join(ConfigFileNames, ", "))
		}
		dir = parent
	}
}

// SetupViper creates and configures a viper instance
func SetupViper(projectRoot string, cmd *cobra.Command) *viper.Viper {
	v := viper.New()

	v.SetEnvPrefix("SOLWATCH")
	v.AutomaticEnv()
	v.SetEnvKeyReplacer(strings.NewReplacer("-", "_", ".", "_"))

	v.SetDefault("timeout", "0s")
	v.SetDefault("debug", false)
	v.SetDefault("non_interactive", false)
	v.SetDefault("project_root", projectRoot)

	if cmd != nil {
		bindFlags(v, cmd.Flags())
		bindFlags(v, cmd.InheritedFlags())
	}

	return v
}

// bindFlags binds every flag under its snake_case key so "non-interactive"
// and SOLWATCH_NON_INTERACTIVE land on the same setting
func bindFlags(v *viper.Viper, flags *pflag.FlagSet) {
	flags.VisitAll(func(f *pflag.Flag) {
		key := strings.ReplaceAll(f.Name, "-", "_")
		if err := v.BindPFlag(key, f); err != nil {
			panic(err)
		}
	})
}
