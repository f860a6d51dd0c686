package cli

import (
	"context"
	"errors"
	"io"
	"os"
	"os/signal"
	"syscall"

	"github.com/nwbvt/congressbot/agentboot"
	"github.com/nwbvt/congressbot/appconfig"
	"github.com/nwbvt/congressbot/congress"
	"github.com/nwbvt/congressbot/index"
	"github.com/nwbvt/congressbot/ingest"
	"github.com/nwbvt/congressbot/prompts"
	"github.com/nwbvt/congressbot/tools"
)

// ChatCmd runs the interactive session.
type ChatCmd struct {
	DBPath      string `short:"d" long:"db_path" description:"location of the database (default .chroma)"`
	Temperature string `short:"t" long:"temperature" description:"model's temperature (default 1.0)"`
	Verbose     bool   `short:"v" long:"verbose" description:"log the commands that are run"`

	root *Options
	in   io.Reader
	out  io.Writer
}

func (c *ChatCmd) Execute(_ []string) error {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	cfg, err := c.root.loadConfig()
	if err != nil {
		return err
	}
	c.applyOverrides(cfg)

	creds, err := appconfig.LoadCredentials(cfg, true)
	if err != nil {
		return err
	}

	store, err := index.Open(cfg.DBPath)
	if err != nil {
		return err
	}
	defer store.Close()

	agent, err := c.buildAgent(cfg, creds, store)
	if err != nil {
		return err
	}

	in, out := c.streams()
	err = agent.Run(ctx, in, out)
	if errors.Is(err, context.Canceled) {
		return nil
	}
	return err
}

func (c *ChatCmd) applyOverrides(cfg *appconfig.AppConfig) {
	if c.DBPath != "" {
		cfg.DBPath = c.DBPath
	}
	if c.Temperature != "" {
		cfg.Temperature = c.Temperature
	}
}

func (c *ChatCmd) buildAgent(cfg *appconfig.AppConfig, creds appconfig.Credentials, store *index.Store) (*agentboot.Agent, error) {
	temperature, err := cfg.TemperatureValue()
	if err != nil {
		return nil, err
	}
	maxTurns, err := cfg.MaxTurnsValue()
	if err != nil {
		return nil, err
	}
	congressNumber, err := cfg.CongressNumber()
	if err != nil {
		return nil, err
	}
	profile, err := ingest.LookupProfile(cfg.IngestProfile)
	if err != nil {
		return nil, err
	}

	model, err := newLLMClient(cfg, creds)
	if err != nil {
		return nil, err
	}
	embedder, err := newEmbedder(cfg, creds)
	if err != nil {
		return nil, err
	}

	client := congress.NewClient(creds.CongressKey, congress.WithBaseURL(cfg.CongressBaseURL))
	toolset := tools.All(tools.Dependencies{
		Congress: client,
		Store:    store,
		Embedder: embedder,
		Loader:   ingest.NewLoader(ingest.NewHTTPSource(nil), store, embedder, cfg.BulkDataURL),
		Profile:  profile,
	})

	names := make([]string, len(toolset))
	for i, t := range toolset {
		names[i] = t.Name()
	}
	system, err := prompts.RenderSystemInstruction(congressNumber, client.BaseURL(), names)
	if err != nil {
		return nil, err
	}

	_, out := c.streams()
	var reporter agentboot.ProgressReporter = &agentboot.NoOpProgressReporter{}
	if c.Verbose {
		reporter = &agentboot.WriterProgressReporter{Out: out}
	}

	return agentboot.NewAgentBuilder().
		WithModel(model).
		WithSystemPrompt(system).
		WithTemperature(temperature).
		WithMaxTurns(maxTurns).
		WithReporter(reporter).
		AddTools(toolset...).
		Build()
}

func (c *ChatCmd) streams() (io.Reader, io.Writer) {
	in, out := c.in, c.out
	if in == nil {
		in = os.Stdin
	}
	if out == nil {
		out = os.Stdout
	}
	return in, out
}
