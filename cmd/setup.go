package cmd

import (
	"bufio"
	"fmt"
	"os"
	"strings"

	"go.uber.org/zap"
	"golang.org/x/term"

	"github.com/venbruno/coffee-shop/internal/config"
	"github.com/venbruno/coffee-shop/internal/logger"
)

// setup resolves configuration, prompts for a missing password when a
// terminal is attached, and builds the logger.
func setup() (*config.Config, *zap.Logger, error) {
	cfg, err := config.Load(v, envFile)
	if err != nil {
		return nil, nil, err
	}

	if cfg.DB.Password == "" && !nonInteractive && term.IsTerminal(int(os.Stdin.Fd())) {
		cfg.DB.Password = promptPassword(fmt.Sprintf("Password for %s@%s: ", cfg.DB.User, cfg.DB.Host))
	}

	log, err := logger.New(cfg.Log)
	if err != nil {
		return nil, nil, fmt.Errorf("build logger: %w", err)
	}
	return cfg, log, nil
}

func promptPassword(prompt string) string {
	fmt.Print(prompt)
	pass, err := term.ReadPassword(int(os.Stdin.Fd()))
	fmt.Println()
	if err != nil {
		reader := bufio.NewReader(os.Stdin)
		line, _ := reader.ReadString('\n')
		return strings.TrimSpace(line)
	}
	return string(pass)
}
