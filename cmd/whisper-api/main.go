package main

import (
	"whisper-api/cmd/whisper-api/cmd"
)

// @title           LearnJoy Whisper Transcription API
// @version         1.0.0
// @description     Japanese speech-to-text over whisper.cpp. Accepts uploads, server-local paths, URLs and s3:// references.
// @BasePath        /
// @schemes         http https
func main() {
	cmd.Execute()
}
