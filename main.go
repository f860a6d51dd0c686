package main

import (
	"os"

	"github.com/SaiNageswarS/go-api-boot/dotenv"
	"github.com/SaiNageswarS/go-api-boot/logger"
	"github.com/nwbvt/congressbot/cli"
	"go.uber.org/zap"
)

func main() {
	dotenv.LoadEnv()

	if err := cli.Run(os.Args[1:]); err != nil {
		logger.Fatal("congressbot failed", zap.Error(err))
	}
}
