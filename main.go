package main

import "github.com/shouni/gemini-portrait-studio/cmd"

func main() {
	cmd.Execute()
}
