package main

import "social-chat-api/config"

func main() {
	config.RunServer()
}
