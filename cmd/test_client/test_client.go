// Copyright (c) 2025, Grigory Buteyko aka Hrissan
// Licensed under the MIT License. See LICENSE for details.

package main

import (
	"flag"
	"fmt"
	"log"

	"github.com/BernardoGomesNegri/picotls"
	"github.com/BernardoGomesNegri/picotls/cmd/chat"
	"github.com/BernardoGomesNegri/picotls/tlscore"
	"github.com/BernardoGomesNegri/picotls/tlscrypto"
)

func main() {
	serverAddr := flag.String("server", "127.0.0.1:11111", "server address")
	serverName := flag.String("name", "localhost", "expected server name")
	rootsPath := flag.String("roots", "", "PEM roots to verify the server against, empty trusts any chain")
	flag.Parse()

	opts := tlscrypto.Default()
	certCtx, err := tlscore.LoadClientContext(*rootsPath)
	if err != nil {
		log.Fatal(err)
	}

	conn, err := picotls.Dial("tcp", *serverAddr, opts, certCtx, *serverName)
	chat.Check(err)
	defer func() {
		chat.Check(conn.Close())
	}()

	fmt.Println("Connected; type 'exit' to shutdown gracefully")

	// Simulate a chat session
	chat.Chat(conn)
}
