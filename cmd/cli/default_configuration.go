package cli

import _ "embed"

// defaultConfigurationContent carries the baseline settings compiled into the
// binary so the CLI runs without any configuration file on disk.
//
//go:embed default_config.yaml
var defaultConfigurationContent []byte

// EmbeddedDefaultConfiguration hands out a copy of the compiled-in defaults
// together with their format identifier. Callers receive a copy so the
// embedded bytes stay immutable.
func EmbeddedDefaultConfiguration() ([]byte, string) {
	return append([]byte(nil), defaultConfigurationContent...), configurationTypeConstant
}
