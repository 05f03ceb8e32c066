package main

import "github.com/AmbitiousRealism2025/Atreides-sub000/cmd"

func main() {
	cmd.Execute()
}
