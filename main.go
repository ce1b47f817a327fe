package main

import (
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"mylang-go/mylang"
)

func TerminateHandler() {
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	s := <-quit
	fmt.Fprintln(os.Stderr, "mylang: interrupted:", s)
	os.Exit(130)
}

func main() {
	go TerminateHandler()
	os.Exit(mylang.RealMain(os.Args, os.Stdin, os.Stdout, os.Stderr))
}
