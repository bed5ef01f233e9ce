// Package testutil provides testing utilities for the whisper-api application.
//
// It contains two groups of helpers:
//
// 1. Stage mocks (mock_stages.go):
//   - MockFetcher, MockNormalizer, MockRecognizer: testify mocks for the
//     pipeline stages
//   - MockPipeline: a mock of the transcription service consumed by the
//     HTTP handlers
//
// 2. Test data fixtures (fixtures.go):
//   - Sample whisper.cpp JSON documents
//   - WriteWav, WriteFile and FakeBinary for building scratch trees and
//     stand-ins for ffmpeg and whisper.cpp
//
// # Usage Examples
//
//	func TestRun(t *testing.T) {
//	    normalizer := testutil.NewMockNormalizer()
//	    normalizer.On("ConvertTo16kHzWav", mock.Anything, "/in.mp3").
//	        Return(testutil.WriteWav(t, scratch, 1), nil)
//	    ...
//	    normalizer.AssertExpectations(t)
//	}
package testutil
