// Package config loads typed configuration from environment variables, with
// optional dotenv file support for local development.
//
// Any struct carrying envconfig tags can be loaded:
//
//	cfg, err := config.New[myConfig]("MYAPP")
//
// When a dotenv file exists (./.env by default, or the path given with
// WithEnvFile) its keys are exported into the process environment before the
// struct is populated, so file values and real environment variables resolve
// through the same path. Variables already present in the environment win
// over file values.
package config

import (
	"errors"
	"fmt"
	"os"
	"strings"

	"github.com/kelseyhightower/envconfig"
	"github.com/spf13/viper"
)

const defaultEnvFile = ".env"

// Options controls how configuration is loaded.
type Options struct {
	// EnvFile is a dotenv file exported into the process environment before
	// variables are read. When empty, ./.env is used if it exists; a missing
	// explicit file is an error, a missing default is not.
	EnvFile string
}

// WithEnvFile selects an explicit dotenv file.
func WithEnvFile(path string) func(o *Options) {
	return func(o *Options) {
		o.EnvFile = path
	}
}

// New populates a T from the environment. prefix namespaces the variable
// names in the usual envconfig way and may be empty.
func New[T any](prefix string, optFns ...func(o *Options)) (*T, error) {
	opts := Options{}
	for _, fn := range optFns {
		fn(&opts)
	}

	if opts.EnvFile != "" {
		if err := exportEnvFile(opts.EnvFile); err != nil {
			return nil, err
		}
	} else if err := exportEnvFile(defaultEnvFile); err != nil && !errors.Is(err, os.ErrNotExist) {
		return nil, err
	}

	var conf T
	if err := envconfig.Process(prefix, &conf); err != nil {
		return nil, fmt.Errorf("process environment: %w", err)
	}
	return &conf, nil
}

// MustNew is New, panicking on error. Intended for wiring in main where a bad
// environment should stop the process immediately.
func MustNew[T any](prefix string, optFns ...func(o *Options)) *T {
	conf, err := New[T](prefix, optFns...)
	if err != nil {
		panic(fmt.Sprintf("config: %v", err))
	}
	return conf
}

// exportEnvFile reads a dotenv file and exports every key into the process
// environment. Keys already set in the environment are left untouched.
func exportEnvFile(path string) error {
	info, err := os.Stat(path)
	if err != nil {
		return err
	}
	if info.IsDir() {
		return fmt.Errorf("env file %s is a directory", path)
	}

	v := viper.New()
	v.SetConfigFile(path)
	v.SetConfigType("env")
	if err := v.ReadInConfig(); err != nil {
		return fmt.Errorf("read env file %s: %w", path, err)
	}
	for key, value := range v.AllSettings() {
		name := strings.ToUpper(key)
		if _, ok := os.LookupEnv(name); ok {
			continue
		}
		if err := os.Setenv(name, fmt.Sprint(value)); err != nil {
			return fmt.Errorf("export %s: %w", name, err)
		}
	}
	return nil
}
