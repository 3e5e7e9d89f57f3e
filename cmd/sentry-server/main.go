package main

import "github.com/mkuznetsov/home-sentry/cmd/sentry-server/cmd"

func main() {
	cmd.Execute()
}
