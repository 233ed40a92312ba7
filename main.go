package main

import (
	_ "github.com/joho/godotenv/autoload"

	"github.com/felipepimentel/ai-news-digest/cmd"
)

func main() {
	cmd.Execute()
}
