// Package dockerimage maps detected Java language levels to CircleCI
// container images.
package dockerimage

import (
	"strconv"
	"strings"

	"go.uber.org/zap"
)

const (
	// LatestFeatureImageConstant is used for Java 17 and above.
	LatestFeatureImageConstant = "circleci/openjdk:17-buster-node-browsers-legacy"
	// BaselineFeatureImageConstant is used for Java 13 through 16 and as the fallback.
	BaselineFeatureImageConstant = "circleci/openjdk:13.0-buster-node-browsers-legacy"

	latestFeatureLevelThresholdConstant   = 17
	baselineFeatureLevelThresholdConstant = 13

	invalidVersionMessageConstant    = "invalid Java version, selecting baseline image"
	noDedicatedImageMessageConstant  = "no dedicated image for Java version, selecting baseline image"
	logFieldJavaVersionConstant      = "java_version"
	logFieldSelectedImageConstant    = "docker_image"
)

// Selector chooses a container image for a detected Java version. Selection is
// total: every input yields exactly one image identifier.
type Selector struct {
	logger *zap.Logger
}

// NewSelector constructs a Selector; a nil logger is replaced with a no-op logger.
func NewSelector(logger *zap.Logger) *Selector {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Selector{logger: logger}
}

// Select maps the detected version to an image identifier, falling back to the
// baseline image for unparseable or low versions.
func (selector *Selector) Select(detectedVersion string) string {
	featureLevel, parseError := strconv.Atoi(strings.TrimSpace(detectedVersion))
	if parseError != nil {
		selector.logger.Error(
			invalidVersionMessageConstant,
			zap.String(logFieldJavaVersionConstant, detectedVersion),
			zap.String(logFieldSelectedImageConstant, BaselineFeatureImageConstant),
		)
		return BaselineFeatureImageConstant
	}

	switch {
	case featureLevel >= latestFeatureLevelThresholdConstant:
		return LatestFeatureImageConstant
	case featureLevel >= baselineFeatureLevelThresholdConstant:
		return BaselineFeatureImageConstant
	default:
		selector.logger.Warn(
			noDedicatedImageMessageConstant,
			zap.String(logFieldJavaVersionConstant, detectedVersion),
			zap.String(logFieldSelectedImageConstant, BaselineFeatureImageConstant),
		)
		return BaselineFeatureImageConstant
	}
}
