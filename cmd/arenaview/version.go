package main

var (
	version = "dev"
	commit  = "none"
	date    = "unknown"
)
