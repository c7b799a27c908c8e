package config

import (
	"encoding/json"
	"fmt"
	"os"
	"strings"

	"github.com/spf13/viper"
)

// EnvPrefix is the prefix of environment variables overriding settings
const EnvPrefix = "GLIDER"

// Load loads a Config from the JSON file at path. Settings missing from
// the file take their value in defaults. Environment variables prefixed
// with EnvPrefix override both. If path is empty, only defaults and the
// environment are used. The loaded Config is validated.
func Load(path string, defaults Config) (Config, error) {
	v := viper.New()
	v.SetConfigType("json")
	v.SetEnvPrefix(EnvPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	defaultSettings, err := toMap(defaults)
	if err != nil {
		return Config{}, fmt.Errorf("load: could not encode defaults: %v", err)
	}
	for key, value := range defaultSettings {
		v.SetDefault(key, value)
	}

	if path != "" {
		v.SetConfigFile(path)
		if err := v.ReadInConfig(); err != nil {
			return Config{}, fmt.Errorf("load: could not read %v: %v", path,
				err)
		}
	}

	settings := v.AllSettings()
	for _, key := range v.AllKeys() {
		if raw, ok := os.LookupEnv(envName(key)); ok {
			set(settings, strings.Split(key, "."), coerce(raw))
		}
	}

	data, err := json.Marshal(settings)
	if err != nil {
		return Config{}, fmt.Errorf("load: %v", err)
	}
	var c Config
	if err := json.Unmarshal(data, &c); err != nil {
		return Config{}, fmt.Errorf("load: could not decode config: %v", err)
	}

	if err := c.Validate(); err != nil {
		return Config{}, fmt.Errorf("load: %v", err)
	}
	return c, nil
}

// Save saves c as indented JSON to path
func Save(c Config, path string) error {
	data, err := json.MarshalIndent(c, "", "\t")
	if err != nil {
		return fmt.Errorf("save: %v", err)
	}
	if err := os.WriteFile(path, data, 0o644); err != nil {
		return fmt.Errorf("save: %v", err)
	}
	return nil
}

// toMap encodes c as a map of its JSON fields
func toMap(c Config) (map[string]interface{}, error) {
	data, err := json.Marshal(c)
	if err != nil {
		return nil, err
	}
	m := map[string]interface{}{}
	return m, json.Unmarshal(data, &m)
}

// envName returns the environment variable that overrides key
func envName(key string) string {
	return EnvPrefix + "_" + strings.ToUpper(strings.ReplaceAll(key, ".", "_"))
}

// coerce decodes the raw value of an environment variable as JSON, so
// that numbers, booleans and lists keep their type. Anything else is
// kept as a string.
func coerce(raw string) interface{} {
	var value interface{}
	if err := json.Unmarshal([]byte(raw), &value); err != nil {
		return raw
	}
	return value
}

// set sets the value at the nested path of keys in settings
func set(settings map[string]interface{}, keys []string, value interface{}) {
	for _, key := range keys[:len(keys)-1] {
		next, ok := settings[key].(map[string]interface{})
		if !ok {
			next = map[string]interface{}{}
			settings[key] = next
		}
		settings = next
	}
	settings[keys[len(keys)-1]] = value
}
