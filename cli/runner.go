package cli

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"

	"github.com/jessevdk/go-flags"
	"github.com/sirupsen/logrus"
	"github.com/viant/exchange"
	"github.com/viant/exchange/client"
	"github.com/viant/exchange/client/auth/session"
)

// runtime is shared by every command of a single invocation.
type runtime struct {
	options *Options
	out     io.Writer
	log     *logrus.Logger
}

type command struct {
	rt *runtime
}

func (c *command) bind(rt *runtime) {
	c.rt = rt
}

// Run parses args and executes the selected command, writing results to stdout.
func Run(args []string) error {
	return RunWithOutput(args, os.Stdout)
}

// RunWithOutput is Run with results written to out.
func RunWithOutput(args []string, out io.Writer) error {
	options := &Options{}
	log := logrus.New()
	log.Out = os.Stderr
	rt := &runtime{options: options, out: out, log: log}
	for _, cmd := range []interface{ bind(*runtime) }{
		&options.Login, &options.Register, &options.Logout, &options.WhoAmI,
		&options.Fruits, &options.Prices, &options.Vendors, &options.Vendor,
		&options.AddFruit, &options.Trade, &options.Get, &options.Mock,
	} {
		cmd.bind(rt)
	}
	parser := flags.NewParser(options, flags.HelpFlag|flags.PassDoubleDash)
	parser.CommandHandler = func(cmd flags.Commander, args []string) error {
		if options.Verbose {
			log.SetLevel(logrus.DebugLevel)
		}
		if cmd == nil {
			return nil
		}
		return cmd.Execute(args)
	}
	_, err := parser.ParseArgs(args)
	var flagsErr *flags.Error
	if errors.As(err, &flagsErr) && flagsErr.Type == flags.ErrHelp {
		_, _ = fmt.Fprintln(out, flagsErr.Message)
		return nil
	}
	return err
}

// clientOptions merges the optional options file with the command line flags,
// flags win. Without any store configuration credentials live in
// ~/.exchange/credentials.json so that consecutive invocations share a session.
func (r *runtime) clientOptions(ctx context.Context) (*exchange.ClientOptions, error) {
	flagged := r.options.ClientOptions
	ret := &exchange.ClientOptions{}
	if r.options.ConfigURL != "" {
		loaded, err := exchange.LoadClientOptions(ctx, r.options.ConfigURL)
		if err != nil {
			return nil, err
		}
		ret = loaded
	}
	if flagged.BaseURL != "" {
		ret.BaseURL = flagged.BaseURL
	}
	if flagged.RefreshCoalescing {
		ret.RefreshCoalescing = true
	}
	auth := flagged.Auth
	if auth.StoreType != "" {
		ret.Auth.StoreType = auth.StoreType
	}
	for _, pair := range []struct{ from, to *string }{
		{&auth.StoreURL, &ret.Auth.StoreURL},
		{&auth.EncryptionKey, &ret.Auth.EncryptionKey},
		{&auth.RedisAddr, &ret.Auth.RedisAddr},
		{&auth.RedisPrefix, &ret.Auth.RedisPrefix},
	} {
		if *pair.from != "" {
			*pair.to = *pair.from
		}
	}
	if ret.Auth.StoreType == "" && ret.Auth.StoreURL == "" {
		home, err := os.UserHomeDir()
		if err != nil {
			return nil, fmt.Errorf("failed to locate home directory: %w", err)
		}
		ret.Auth.StoreType = exchange.StoreFile
		ret.Auth.StoreURL = filepath.Join(home, ".exchange", "credentials.json")
	}
	ret.Init()
	return ret, nil
}

func (r *runtime) client(ctx context.Context) (*client.Client, error) {
	options, err := r.clientOptions(ctx)
	if err != nil {
		return nil, err
	}
	ret, err := exchange.NewClient(ctx, options, client.WithLogger(r.log))
	if err != nil {
		return nil, err
	}
	ret.Session().Subscribe(func(ctx context.Context, reason session.Reason) {
		if reason == session.ReasonRefreshFailed {
			r.log.Warn("session expired, run `exchange login` to sign in again")
		}
	})
	return ret, nil
}

func (r *runtime) print(value interface{}) error {
	encoder := json.NewEncoder(r.out)
	encoder.SetIndent("", "  ")
	return encoder.Encode(value)
}
