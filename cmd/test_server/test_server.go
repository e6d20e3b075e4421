// Copyright (c) 2025, Grigory Buteyko aka Hrissan
// Licensed under the MIT License. See LICENSE for details.

package main

import (
	"flag"
	"log"
	"net"

	"github.com/BernardoGomesNegri/picotls"
	"github.com/BernardoGomesNegri/picotls/cmd/chat"
	"github.com/BernardoGomesNegri/picotls/tlscore"
	"github.com/BernardoGomesNegri/picotls/tlscrypto"
	"github.com/BernardoGomesNegri/picotls/tlsrand"
)

func main() {
	listenAddr := flag.String("listen", "127.0.0.1:11111", "listen address")
	certPath := flag.String("cert", "server-cert.pem", "PEM certificate chain")
	keyPath := flag.String("key", "server-key.pem", "PEM private key")
	flag.Parse()

	opts := tlscrypto.Default()
	certCtx, err := tlscore.LoadServerContext(tlsrand.CryptoRand(), *certPath, *keyPath)
	if err != nil {
		log.Fatal(err)
	}

	ln, err := net.Listen("tcp", *listenAddr)
	if err != nil {
		log.Fatal(err)
	}
	log.Printf("chat server listening on %v", ln.Addr())

	room := chat.NewRoom()
	for {
		inner, err := ln.Accept()
		if err != nil {
			log.Fatal(err)
		}
		go room.Serve(picotls.Server(inner, opts, certCtx))
	}
}
