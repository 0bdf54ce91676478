// Command server runs the soundmint REST API.
package main

import (
	"flag"
	"fmt"
	"os"

	"github.com/simp-lee/soundmint/internal/app"
	"github.com/simp-lee/soundmint/internal/config"
)

func main() {
	configPath := flag.String("config", "configs/config.yaml", "path to configuration file")
	checkOnly := flag.Bool("check", false, "validate the configuration and exit")
	flag.Parse()

	if err := run(*configPath, *checkOnly); err != nil {
		fmt.Fprintln(os.Stderr, "soundmint:", err)
		os.Exit(1)
	}
}

func run(configPath string, checkOnly bool) error {
	cfg, err := config.Load(configPath)
	if err != nil {
		return fmt.Errorf("load config: %w", err)
	}
	if checkOnly {
		fmt.Printf("config ok: %s mode, %s database, listening on %s:%d\n",
			cfg.Server.Mode, cfg.Database.Driver, cfg.Server.Host, cfg.Server.Port)
		return nil
	}

	a, err := app.New(cfg)
	if err != nil {
		return fmt.Errorf("create app: %w", err)
	}
	return a.Run()
}
