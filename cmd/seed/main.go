package main

import (
	"context"
	"fmt"
	"log"
	"os"

	"github.com/dmitrijs2005/newsroom/internal/flagx"
	"github.com/dmitrijs2005/newsroom/internal/server"
	"github.com/dmitrijs2005/newsroom/internal/server/config"
	"golang.org/x/term"
)

func promptPassword() (string, error) {
	fd := int(os.Stdin.Fd())
	if !term.IsTerminal(fd) {
		return "", fmt.Errorf("stdin is not a terminal")
	}

	fmt.Fprint(os.Stderr, "Admin password: ")
	b, err := term.ReadPassword(fd)
	fmt.Fprintln(os.Stderr)
	if err != nil {
		return "", err
	}
	return string(b), nil
}

func main() {

	ctx := context.Background()
	cfg := config.LoadConfig()

	opts := server.SeedOptions{
		AvatarPath:     flagx.StringFlag(os.Args[1:], "image file uploaded as the admin avatar", "avatar"),
		PromptPassword: promptPassword,
	}

	if err := server.Seed(ctx, cfg, opts); err != nil {
		log.Fatalf("seed: %v", err)
	}

}
