// Package javaversion locates the declared Java language level inside a
// repository's build descriptor.
package javaversion

import (
	"errors"
	"os"
	"path/filepath"
	"regexp"

	"github.com/temirov/ciconfig/internal/shared"
)

const (
	fileSystemMissingMessageConstant        = "filesystem not configured"
	buildDescriptorFileNameConstant         = "build.gradle"
	numericAssignmentPatternConstant        = `sourceCompatibility\s*=\s*['"]?(\d+)['"]?`
	symbolicAssignmentPatternConstant       = `sourceCompatibility\s*=\s*JavaVersion\.VERSION_(\d+)`
	numericAssignmentStrategyNameConstant   = "numeric_assignment"
	symbolicAssignmentStrategyNameConstant  = "enumeration_constant"
	capturedVersionSubmatchIndexConstant    = 1
	expectedSubmatchCountConstant           = 2
)

// ErrFileSystemNotConfigured indicates the detector was constructed without a filesystem.
var ErrFileSystemNotConfigured = errors.New(fileSystemMissingMessageConstant)

// Detection captures the outcome of scanning one build descriptor.
type Detection struct {
	Version  string
	Strategy string
	Found    bool
}

// strategy pairs a recognized declaration syntax with its identifying name.
type strategy struct {
	name    string
	pattern *regexp.Regexp
}

// Detector scans build descriptors for a declared Java language level.
type Detector struct {
	fileSystem shared.FileSystem
	strategies []strategy
}

// NewDetector constructs a Detector with the recognized declaration strategies in fixed order.
func NewDetector(fileSystem shared.FileSystem) (*Detector, error) {
	if fileSystem == nil {
		return nil, ErrFileSystemNotConfigured
	}

	return &Detector{
		fileSystem: fileSystem,
		strategies: []strategy{
			{name: numericAssignmentStrategyNameConstant, pattern: regexp.MustCompile(numericAssignmentPatternConstant)},
			{name: symbolicAssignmentStrategyNameConstant, pattern: regexp.MustCompile(symbolicAssignmentPatternConstant)},
		},
	}, nil
}

// DescriptorPath returns the build descriptor location inside a checkout.
func (detector *Detector) DescriptorPath(checkoutPath string) string {
	return filepath.Join(checkoutPath, buildDescriptorFileNameConstant)
}

// Detect scans the checkout's build descriptor, trying each strategy in order.
// A missing descriptor or an unmatched file yields a not-found Detection
// without an error; only read failures are reported as errors.
func (detector *Detector) Detect(checkoutPath string) (Detection, error) {
	descriptorPath := detector.DescriptorPath(checkoutPath)

	descriptorContent, readError := detector.fileSystem.ReadFile(descriptorPath)
	if readError != nil {
		if errors.Is(readError, os.ErrNotExist) {
			return Detection{}, nil
		}
		return Detection{}, readError
	}

	for _, candidateStrategy := range detector.strategies {
		submatches := candidateStrategy.pattern.FindSubmatch(descriptorContent)
		if len(submatches) == expectedSubmatchCountConstant {
			return Detection{
				Version:  string(submatches[capturedVersionSubmatchIndexConstant]),
				Strategy: candidateStrategy.name,
				Found:    true,
			}, nil
		}
	}

	return Detection{}, nil
}
