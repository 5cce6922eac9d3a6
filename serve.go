package main

import (
	"log"
	"os"
	"os/signal"
	"rankle/internal/back"
	"rankle/internal/config"
	"rankle/internal/web"
	"sync"
	"syscall"
)

func serve(b *back.Back, conf *config.Config) error {
	done := make(chan struct{})
	signaled := make(chan os.Signal, 1)
	signal.Notify(signaled, syscall.SIGINT, syscall.SIGTERM)

	server := web.NewServer(b, conf.ListenAddr, conf.CORSOrigin)

	var wg sync.WaitGroup
	go server.Serve(&wg, done)

	sig := <-signaled
	log.Printf("received signal %d", sig)
	close(done)
	wg.Wait()

	log.Print("shutdown complete")

	return nil
}
