package dockerimage_test

import (
	"testing"

	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"go.uber.org/zap/zaptest/observer"
	"go.uber.org/zap/zapcore"

	"github.com/temirov/ciconfig/internal/dockerimage"
)

func TestSelectorMapsVersionsToImages(testInstance *testing.T) {
	testCases := []struct {
		name             string
		detectedVersion  string
		expectedImage    string
		expectedLogLevel zapcore.Level
		expectLogEntry   bool
	}{
		{
			name:            "java_17_selects_latest_image",
			detectedVersion: "17",
			expectedImage:   dockerimage.LatestFeatureImageConstant,
		},
		{
			name:            "java_21_selects_latest_image",
			detectedVersion: "21",
			expectedImage:   dockerimage.LatestFeatureImageConstant,
		},
		{
			name:            "java_13_selects_baseline_image",
			detectedVersion: "13",
			expectedImage:   dockerimage.BaselineFeatureImageConstant,
		},
		{
			name:            "java_16_selects_baseline_image",
			detectedVersion: "16",
			expectedImage:   dockerimage.BaselineFeatureImageConstant,
		},
		{
			name:             "java_8_falls_back_with_warning",
			detectedVersion:  "8",
			expectedImage:    dockerimage.BaselineFeatureImageConstant,
			expectLogEntry:   true,
			expectedLogLevel: zapcore.WarnLevel,
		},
		{
			name:             "unparseable_version_falls_back_with_error",
			detectedVersion:  "not-a-number",
			expectedImage:    dockerimage.BaselineFeatureImageConstant,
			expectLogEntry:   true,
			expectedLogLevel: zapcore.ErrorLevel,
		},
	}

	for _, testCase := range testCases {
		testInstance.Run(testCase.name, func(testInstance *testing.T) {
			observerCore, observedLogs := observer.New(zap.DebugLevel)
			selector := dockerimage.NewSelector(zap.New(observerCore))

			selectedImage := selector.Select(testCase.detectedVersion)
			require.Equal(testInstance, testCase.expectedImage, selectedImage)

			if testCase.expectLogEntry {
				logEntries := observedLogs.All()
				require.Len(testInstance, logEntries, 1)
				require.Equal(testInstance, testCase.expectedLogLevel, logEntries[0].Level)
			} else {
				require.Empty(testInstance, observedLogs.All())
			}
		})
	}
}

func TestSelectorIsDeterministic(testInstance *testing.T) {
	selector := dockerimage.NewSelector(nil)

	firstSelection := selector.Select("17")
	secondSelection := selector.Select("17")
	require.Equal(testInstance, firstSelection, secondSelection)
}
