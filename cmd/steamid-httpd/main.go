package main

import (
	"context"
	"crypto/tls"
	"embed"
	"encoding/json"
	"errors"
	"flag"
	"fmt"
	"html/template"
	"io"
	"net"
	"net/http"
	"os"
	"os/signal"
	"steamid-convert/cmd/steamid-httpd/httpserveutil"
	"steamid-convert/cmd/steamid-httpd/templateutil"
	"steamid-convert/configutil"
	"steamid-convert/logutil"
	"steamid-convert/steamidbatch"
	"steamid-convert/steamidhttp"
	"steamid-convert/steamidutil"
	"syscall"

	"github.com/rs/zerolog"
	"golang.org/x/sync/errgroup"
)

func main() {
	err := run(os.Args[1:], os.Stdout, os.Stderr)
	os.Exit(exit(err, os.Stderr))
}

func exit(err error, stderr io.Writer) int {
	if err == nil {
		return 0
	}

	fmt.Fprintln(stderr, err)

	return 1
}

const usage = `usage: steamid-httpd [flags]

  -config      path to a yaml, toml or json config file
  -address     listen address (default 0.0.0.0)
  -port        listen port (default 9876)
  -cert, -key  serve TLS with this certificate and key
  -workers     concurrent conversions per batch request (default 8)
  -log-level   trace, debug, info, warn or error (default info)
  -log-pretty  human readable logs instead of JSON lines

Every flag may also be set through a STEAMID_<FLAG> environment variable.`

var defaults = map[string]any{
	"address":    "0.0.0.0",
	"port":       "9876",
	"cert":       "",
	"key":        "",
	"workers":    8,
	"log-level":  "info",
	"log-pretty": false,
}

func run(args []string, stdout, stderr io.Writer) error {
	flags := NewFlagSet("steamid-httpd")

	var configpath string

	flags.StringVar(&configpath, "config", "", "")
	flags.String("address", "", "")
	flags.String("port", "", "")
	flags.String("cert", "", "")
	flags.String("key", "", "")
	flags.Int("workers", 0, "")
	flags.String("log-level", "", "")
	flags.Bool("log-pretty", false, "")

	ok, err := ParseArgs(flags, args, stderr, usage)
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

	logger := logutil.New(stdout, logutil.Config{
		Level:  v.GetString("log-level"),
		Pretty: v.GetBool("log-pretty"),
		Name:   "steamid-httpd",
	})

	pt, err := parseTemplates()
	if err != nil {
		return fmt.Errorf("parse templates: %w", err)
	}

	h := &Handler{
		templates: pt,
		workers:   v.GetInt("workers"),
	}

	mux := http.NewServeMux()

	httpserveutil.Register(mux, logger, h)

	var tlsconf *tls.Config

	certpath := v.GetString("cert")
	keypath := v.GetString("key")

	if certpath != "" && keypath != "" {
		cert, err := tls.LoadX509KeyPair(certpath, keypath)
		if err != nil {
			return fmt.Errorf("load x509 key pair: %w", err)
		}

		tlsconf = &tls.Config{
			Certificates: []tls.Certificate{cert},
			MinVersion:   tls.VersionTLS12,
		}
	}

	addr := net.JoinHostPort(v.GetString("address"), v.GetString("port"))

	server := httpserveutil.NewServer(addr, mux, tlsconf, logger)

	ctx := context.Background()
	ctx, cancel := signal.NotifyContext(ctx, syscall.SIGINT, syscall.SIGTERM)
	defer cancel()

	g, ctx := errgroup.WithContext(ctx)

	g.Go(func() error {
		return server.Run(ctx)
	})

	g.Go(func() error {
		<-ctx.Done()

		logger.Info().Msg("received exit signal, shutting down")

		return server.Shutdown()
	})

	if err := g.Wait(); err != nil {
		return fmt.Errorf("errgroup: %w", err)
	}

	return nil
}

// maxBatchSize bounds the number of ids accepted by a single batch request.
const maxBatchSize = 1000

type Handler struct {
	templates PageTemplates
	workers   int
}

var (
	//go:embed static/*
	staticFS embed.FS
)

func (h *Handler) serveIndexPage(w http.ResponseWriter, r *http.Request) error {
	if r.URL.Path != "/" {
		return httpserveutil.NotFound(w, "no such page %s", r.URL.Path)
	}

	type pageData struct {
		Input  string
		Result *steamidhttp.ConvertResponse
		Error  string
	}

	data := pageData{
		Input: r.URL.Query().Get("id"),
	}

	if data.Input != "" {
		s, format, err := steamidutil.Parse(data.Input)
		if err != nil {
			data.Error = fmt.Sprintf("Unable to interpret %s: %s", data.Input, err)
		} else {
			response := steamidhttp.NewConvertResponse(data.Input, s, format)
			data.Result = &response
		}
	}

	if err := h.templates.index.Execute(w, data); err != nil {
		return fmt.Errorf("execute template: %w", err)
	}

	return nil
}

func (h *Handler) serveConvert(w http.ResponseWriter, r *http.Request) error {
	if r.Method != http.MethodGet {
		return httpserveutil.MethodNotAllowed(w, http.MethodGet)
	}

	id := r.URL.Query().Get("id")
	if id == "" {
		return httpserveutil.BadRequest(w, "must specify id")
	}

	s, format, err := steamidutil.Parse(id)
	if err != nil {
		if errors.Is(err, steamidutil.ErrUnrecognizedFormat) {
			return httpserveutil.BadRequest(w, "%w", err)
		}

		return httpserveutil.UnprocessableEntity(w, "%w", err)
	}

	return httpserveutil.WriteJSON(w, http.StatusOK, steamidhttp.NewConvertResponse(id, s, format))
}

func (h *Handler) serveConvertBatch(w http.ResponseWriter, r *http.Request) error {
	if r.Method != http.MethodPost {
		return httpserveutil.MethodNotAllowed(w, http.MethodPost)
	}

	r.Body = http.MaxBytesReader(w, r.Body, 1<<20)

	var request steamidhttp.ConvertBatchRequest

	decoder := json.NewDecoder(r.Body)
	decoder.DisallowUnknownFields()

	if err := decoder.Decode(&request); err != nil {
		return httpserveutil.BadRequest(w, "decode request: %w", err)
	}

	if len(request.IDs) == 0 {
		return httpserveutil.BadRequest(w, "must specify ids")
	}

	if len(request.IDs) > maxBatchSize {
		return httpserveutil.BadRequest(w, "too many ids: %d > %d", len(request.IDs), maxBatchSize)
	}

	results, err := steamidbatch.Parse(r.Context(), request.IDs, h.workers)
	if err != nil {
		return httpserveutil.InternalError(w, "parse batch: %w", err)
	}

	response := steamidhttp.ConvertBatchResponse{
		Results: make([]steamidhttp.ConvertBatchResult, 0, len(results)),
	}

	for _, result := range results {
		response.Results = append(response.Results, batchResultToHTTP(result))
	}

	return httpserveutil.WriteJSON(w, http.StatusOK, response)
}

func batchResultToHTTP(result steamidbatch.Result) steamidhttp.ConvertBatchResult {
	if result.Err != nil {
		return steamidhttp.ConvertBatchResult{
			Input: result.Input,
			Error: result.Err.Error(),
		}
	}

	response := steamidhttp.NewConvertResponse(result.Input, result.SteamID, result.Format)

	return steamidhttp.ConvertBatchResult{
		Input:  result.Input,
		Result: &response,
	}
}

func (h *Handler) Routes(logger zerolog.Logger) map[string]http.Handler {
	return map[string]http.Handler{
		"/":              httpserveutil.Handle(logger, h.serveIndexPage),
		"/convert":       httpserveutil.Handle(logger, h.serveConvert),
		"/convert/batch": httpserveutil.Handle(logger, h.serveConvertBatch),
	}
}

func NewFlagSet(prog string) *flag.FlagSet {
	f := flag.NewFlagSet(prog, flag.ContinueOnError)
	f.SetOutput(io.Discard)
	f.Usage = nil

	return f
}

func ParseArgs(flags *flag.FlagSet, args []string, stderr io.Writer, usage string) (bool, error) {
	if err := flags.Parse(args); err != nil {
		if errors.Is(err, flag.ErrHelp) {
			fmt.Fprintln(stderr, usage)
			return false, nil
		}

		return false, fmt.Errorf("argument parsing failure: %w\n\n%s", err, usage)
	}

	return true, nil
}

type PageTemplates struct {
	index *template.Template
}

func parseTemplates() (PageTemplates, error) {
	pt := PageTemplates{}

	groups := []templateutil.TemplateGroup{
		{
			Files: []string{
				"static/templates/base.html",
				"static/templates/pages/index.html",
			},
			Add: func(t *template.Template) { pt.index = t },
		},
	}

	if err := templateutil.ParseFS(staticFS, groups); err != nil {
		return pt, fmt.Errorf("parse templates: %w", err)
	}

	return pt, nil
}
