package cli

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/SaiNageswarS/go-api-boot/logger"
	"github.com/nwbvt/congressbot/appconfig"
	"github.com/nwbvt/congressbot/index"
	"github.com/nwbvt/congressbot/ingest"
	"go.uber.org/zap"
)

// LoadCmd fills the search index from the bulk data service.
type LoadCmd struct {
	Location string `short:"l" long:"location" description:"location of the database (default .chroma)"`
	Congress int    `short:"c" long:"congress" description:"congress to load (default 119)"`

	root *Options
}

func (c *LoadCmd) Execute(_ []string) error {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	cfg, err := c.root.loadConfig()
	if err != nil {
		return err
	}
	if c.Location != "" {
		cfg.DBPath = c.Location
	}
	if c.Congress > 0 {
		cfg.Congress = fmt.Sprint(c.Congress)
	}

	congressNumber, err := cfg.CongressNumber()
	if err != nil {
		return err
	}
	profile, err := ingest.LookupProfile(cfg.IngestProfile)
	if err != nil {
		return err
	}
	creds, err := appconfig.LoadCredentials(cfg, false)
	if err != nil {
		return err
	}
	embedder, err := newEmbedder(cfg, creds)
	if err != nil {
		return err
	}

	store, err := index.Open(cfg.DBPath)
	if err != nil {
		return err
	}
	defer store.Close()

	loader := ingest.NewLoader(ingest.NewHTTPSource(nil), store, embedder, cfg.BulkDataURL)
	stats, err := loader.Load(ctx, profile, congressNumber)
	if err != nil {
		return err
	}

	logger.Info("Load complete",
		zap.String("db_path", cfg.DBPath),
		zap.Int("congress", congressNumber),
		zap.Int("documents", stats.Documents),
		zap.Int("failures", stats.Failures))
	return nil
}
