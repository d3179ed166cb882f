package main

import "github.com/voiceactorlab/retake/cmd"

func main() {
	cmd.Execute()
}
