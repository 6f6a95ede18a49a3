package main

import (
	"context"
	"encoding/json"
	"errors"
	"flag"
	"fmt"
	"io"
	"net/http"
	"os"
	"os/signal"
	"steamid-convert/configutil"
	"steamid-convert/logutil"
	"steamid-convert/steamidbatch"
	"steamid-convert/steamidhttp"
	"steamid-convert/steamidhttprpc"
	"steamid-convert/steamidutil"
	"syscall"

	"github.com/rs/zerolog"
)

func main() {
	err := run(os.Args[1:], os.Stdout, os.Stderr)
	os.Exit(exit(err, os.Stderr))
}

// exit prints err to stderr and returns the process exit status. errNoIDs
// has already been reported on stdout by run.
func exit(err error, stderr io.Writer) int {
	if err == nil {
		return 0
	}

	if !errors.Is(err, errNoIDs) {
		fmt.Fprintln(stderr, err)
	}

	return 1
}

var errNoIDs = errors.New("no IDs provided")

const usage = `usage: steamid-convert [flags] ID...

Each ID may be a steamID64 (76561197960265728), a steamID (STEAM_1:0:0)
or a steamID3 ([U:1:0]).

  -config     path to a yaml, toml or json config file
  -workers    concurrent conversions (default 4)
  -remote     convert through a steamid-httpd server at this address
  -timeout    request timeout for -remote (default 10s)
  -json       print one JSON document per ID instead of the text report
  -log-level  trace, debug, info, warn or error (default warn)

Every flag may also be set through a STEAMID_<FLAG> environment variable.`

var defaults = map[string]any{
	"workers":   4,
	"remote":    "",
	"json":      false,
	"log-level": "warn",
	"timeout":   "10s",
}

func run(args []string, stdout, stderr io.Writer) error {
	flags := NewFlagSet("steamid-convert")

	var configpath string

	flags.StringVar(&configpath, "config", "", "")
	flags.Int("workers", 0, "")
	flags.String("remote", "", "")
	flags.Bool("json", false, "")
	flags.String("log-level", "", "")
	flags.Duration("timeout", 0, "")

	ok, err := Parse(flags, args, stderr, usage)
	if err != nil {
		return fmt.Errorf("parse args: %w", err)
	}

	if !ok {
		return nil
	}

	v, err := configutil.Load(flags, configpath, defaults)
	if err != nil {
		return fmt.Errorf("load config: %w", err)
	}

	logger := logutil.New(stderr, logutil.Config{
		Level:  v.GetString("log-level"),
		Pretty: true,
	})

	ids := flags.Args()
	if len(ids) == 0 {
		fmt.Fprintln(stdout, "No IDs provided!")
		return errNoIDs
	}

	ctx := context.Background()
	ctx, cancel := signal.NotifyContext(ctx, syscall.SIGINT, syscall.SIGTERM)
	defer cancel()

	var converter Converter = &localConverter{workers: v.GetInt("workers")}

	if remote := v.GetString("remote"); remote != "" {
		httpc := http.Client{
			Timeout: v.GetDuration("timeout"),
		}

		converter = &remoteConverter{client: steamidhttprpc.NewClient(httpc, remote)}
	}

	results, err := converter.Convert(ctx, ids)
	if err != nil {
		return fmt.Errorf("convert: %w", err)
	}

	r := &Reporter{
		stdout: stdout,
		logger: logger,
		json:   v.GetBool("json"),
	}

	for _, result := range results {
		if err := r.Report(result); err != nil {
			return fmt.Errorf("report %s: %w", result.Input, err)
		}
	}

	return nil
}

// Item is the outcome of converting one input. Exactly one of Response and
// Err is set.
type Item struct {
	Input    string
	Response *steamidhttp.ConvertResponse
	Err      error

	// Unrecognized is set when Err means the input matched no format.
	Unrecognized bool
}

type Converter interface {
	Convert(ctx context.Context, ids []string) ([]Item, error)
}

type localConverter struct {
	workers int
}

func (c *localConverter) Convert(ctx context.Context, ids []string) ([]Item, error) {
	results, err := steamidbatch.Parse(ctx, ids, c.workers)
	if err != nil {
		return nil, fmt.Errorf("parse batch: %w", err)
	}

	items := make([]Item, 0, len(results))

	for _, result := range results {
		item := Item{
			Input:        result.Input,
			Err:          result.Err,
			Unrecognized: errors.Is(result.Err, steamidutil.ErrUnrecognizedFormat),
		}

		if result.Err == nil {
			response := steamidhttp.NewConvertResponse(result.Input, result.SteamID, result.Format)
			item.Response = &response
		}

		items = append(items, item)
	}

	return items, nil
}

type remoteConverter struct {
	client *steamidhttprpc.Client
}

func (c *remoteConverter) Convert(ctx context.Context, ids []string) ([]Item, error) {
	response, err := c.client.ConvertBatch(ctx, ids)
	if err != nil {
		return nil, fmt.Errorf("convert batch: %w", err)
	}

	if len(response.Results) != len(ids) {
		return nil, fmt.Errorf("expected %d results, got %d", len(ids), len(response.Results))
	}

	items := make([]Item, 0, len(ids))

	for _, result := range response.Results {
		item := Item{
			Input:    result.Input,
			Response: result.Result,
		}

		if result.Result == nil {
			item.Err = errors.New(result.Error)
			item.Unrecognized = result.Error == steamidutil.ErrUnrecognizedFormat.Error()
		}

		items = append(items, item)
	}

	return items, nil
}

type Reporter struct {
	stdout io.Writer
	logger zerolog.Logger
	json   bool
}

func (r *Reporter) Report(item Item) error {
	if item.Err != nil {
		r.logger.Warn().Err(item.Err).Str("input", item.Input).Msg("conversion failed")
	}

	if r.json {
		return r.reportJSON(item)
	}

	switch {
	case item.Unrecognized:
		fmt.Fprintf(r.stdout, "Unable to interpret %s\n", item.Input)
	case item.Err != nil:
		fmt.Fprintf(r.stdout, "Unable to convert %s: %s\n", item.Input, item.Err)
	default:
		fmt.Fprintf(r.stdout, "Interpreting as %s\n", item.Response.Format)
		fmt.Fprintf(r.stdout, "steamID64:\t%d\n", item.Response.SteamID64)
		fmt.Fprintf(r.stdout, "steamID:  \t%s\n", item.Response.SteamID2)
		fmt.Fprintf(r.stdout, "steamID3: \t%s\n", item.Response.SteamID3)
	}

	fmt.Fprintln(r.stdout)

	return nil
}

func (r *Reporter) reportJSON(item Item) error {
	var data any = item.Response
	if item.Err != nil {
		data = steamidhttp.ConvertBatchResult{
			Input: item.Input,
			Error: item.Err.Error(),
		}
	}

	b, err := json.Marshal(data)
	if err != nil {
		return fmt.Errorf("marshal: %w", err)
	}

	fmt.Fprintln(r.stdout, string(b))

	return nil
}

func NewFlagSet(prog string) *flag.FlagSet {
	f := flag.NewFlagSet(prog, flag.ContinueOnError)
	f.SetOutput(io.Discard)
	f.Usage = nil

	return f
}

func Parse(flags *flag.FlagSet, args []string, stderr io.Writer, usage string) (bool, error) {
	if err := flags.Parse(args); err != nil {
		if errors.Is(err, flag.ErrHelp) {
			fmt.Fprintln(stderr, usage)
			return false, nil
		}

		return false, fmt.Errorf("argument parsing failure: %w\n\n%s", err, usage)
	}

	return true, nil
}
