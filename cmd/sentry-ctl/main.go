package main

import "github.com/mkuznetsov/home-sentry/cmd/sentry-ctl/cmd"

func main() {
	cmd.Execute()
}
