// Command kbase is a retrieval engine over a markdown knowledge base.
package main

import (
	"errors"
	"os"

	"github.com/joho/godotenv"

	"github.com/custodia-labs/kbase/internal/adapters/driving/cli"
	"github.com/custodia-labs/kbase/internal/core/services"
	"github.com/custodia-labs/kbase/internal/logger"
)

// version is set at build time with -ldflags "-X main.version=...".
var version = "dev"

func main() {
	// A .env file is optional; real environment variables win.
	_ = godotenv.Load()

	cli.SetVersion(version)
	cli.SetResultActionService(services.NewResultActionService())
	cli.SetBuilders(cli.Builders{
		Engine:   openEngine,
		Settings: openSettings,
	})

	err := cli.Execute()
	logger.Sync()

	if err != nil {
		var exit *cli.ExitCodeError
		if errors.As(err, &exit) {
			os.Exit(exit.Code)
		}
		os.Exit(1)
	}
}
