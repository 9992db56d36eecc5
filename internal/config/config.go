package config

import (
	"os"
	"strings"

	"github.com/spf13/viper"
	"gopkg.in/yaml.v3"
)

// Config holds the recognized engine options.
type Config struct {
	// LicenseOverrides adds or overrides raw token -> SPDX entries in
	// the built-in mapping table.
	LicenseOverrides map[string]string

	// DisabledRules is the set of rule ids to skip.
	DisabledRules []string

	// RPMLintPath overrides the external linter binary location.
	RPMLintPath string

	// RPMLintTimeoutSeconds bounds the external linter subprocess.
	RPMLintTimeoutSeconds int

	// KeyringPath points to an armored or binary GPG public keyring
	// used to verify binary package signatures. Empty disables
	// verification; signature presence is still reported.
	KeyringPath string
}

// Load reads configuration from an optional file and RPMCHECK_*
// environment variables. A missing config file is not an error.
func Load(cfgFile string) (*Config, error) {
	v := viper.New()

	if cfgFile != "" {
		v.SetConfigFile(cfgFile)
	} else {
		v.AddConfigPath(".")
		v.SetConfigType("yaml")
		v.SetConfigName(".rpmcheck")
	}

	v.SetEnvPrefix("RPMCHECK")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	v.SetDefault("rpmlint.timeout_seconds", 30)

	if err := v.ReadInConfig(); err != nil {
		// Only a file explicitly requested on the command line must exist.
		if cfgFile != "" {
			return nil, err
		}
		if _, ok := err.(viper.ConfigFileNotFoundError); !ok {
			return nil, err
		}
	}

	cfg := &Config{
		LicenseOverrides:      licenseOverrides(v),
		DisabledRules:         v.GetStringSlice("disabled_rules"),
		RPMLintPath:           v.GetString("rpmlint.path"),
		RPMLintTimeoutSeconds: v.GetInt("rpmlint.timeout_seconds"),
		KeyringPath:           v.GetString("keyring_path"),
	}
	return cfg, nil
}

// licenseOverrides reads the override map from the raw config file.
// viper lowercases map keys, which would break the normalizer's
// exact-match lookups on mixed-case tokens like "GPLv3+" or "ASL 2.0".
func licenseOverrides(v *viper.Viper) map[string]string {
	path := v.ConfigFileUsed()
	if path == "" {
		return nil
	}
	data, err := os.ReadFile(path)
	if err != nil {
		return v.GetStringMapString("license_overrides")
	}
	var raw struct {
		LicenseOverrides map[string]string `yaml:"license_overrides"`
	}
	if err := yaml.Unmarshal(data, &raw); err != nil {
		// Non-YAML config formats fall back to viper's view.
		return v.GetStringMapString("license_overrides")
	}
	return raw.LicenseOverrides
}

// Default returns a Config with built-in defaults only.
func Default() *Config {
	return &Config{RPMLintTimeoutSeconds: 30}
}
