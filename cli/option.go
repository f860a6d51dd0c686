// Package cli implements the congressbot command line.
package cli

import (
	"errors"

	"github.com/jessevdk/go-flags"
	"github.com/nwbvt/congressbot/appconfig"
)

// Options is the root command that groups sub-commands. The struct tags are
// interpreted by github.com/jessevdk/go-flags.
type Options struct {
	Config string  `short:"f" long:"config" description:"config file path" default:"config.ini"`
	Chat   ChatCmd `command:"chat" description:"Chat with the congress bot"`
	Load   LoadCmd `command:"load" description:"Load bill summaries into the search index"`
}

func (o *Options) loadConfig() (*appconfig.AppConfig, error) {
	return appconfig.Load(o.Config)
}

func newParser(opts *Options) *flags.Parser {
	opts.Chat.root = opts
	opts.Load.root = opts
	return flags.NewParser(opts, flags.Default)
}

// Run parses args and executes the selected command.
func Run(args []string) error {
	opts := &Options{}
	_, err := newParser(opts).ParseArgs(args)

	var flagsErr *flags.Error
	if errors.As(err, &flagsErr) && flagsErr.Type == flags.ErrHelp {
		return nil
	}
	return err
}
