// Package main provides the oae command, a small caller for an Open
// Academic Environment tenant: inspect the current user, upload files and
// run searches from scripts without writing any Go.
package main

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"strings"

	"github.com/joho/godotenv"
	flag "github.com/spf13/pflag"
	"github.com/tidwall/sjson"

	"github.com/stuartf/oae-rest/api/content"
	"github.com/stuartf/oae-rest/api/search"
	"github.com/stuartf/oae-rest/api/user"
	"github.com/stuartf/oae-rest/internal/config"
	"github.com/stuartf/oae-rest/internal/json"
	"github.com/stuartf/oae-rest/internal/logging"
	log "github.com/stuartf/oae-rest/internal/logging"
	"github.com/stuartf/oae-rest/pkg/oae"
	"github.com/stuartf/oae-rest/rest"
)

var Version = "dev"

func main() {
	var (
		configPath  string
		host        string
		hostHeader  string
		username    string
		password    string
		session     string
		insecure    bool
		debug       bool
		logToFile   bool
		initConfig  bool
		showVersion bool

		uploadName       string
		uploadVisibility string
		uploadFolder     string
		searchLimit      int
		searchTypes      []string
	)

	flag.StringVar(&configPath, "config", config.DefaultPath(), "Config file path")
	flag.StringVar(&host, "host", "", "Tenant base URL, overrides the config file")
	flag.StringVar(&hostHeader, "host-header", "", "Host header override for tenants behind a shared front end")
	flag.StringVar(&username, "username", "", "Username for password authentication")
	flag.StringVar(&password, "password", "", "Password for password authentication")
	flag.StringVar(&session, "session", "", "Reuse an existing session token instead of logging in")
	flag.BoolVar(&insecure, "insecure", false, "Skip TLS certificate verification")
	flag.BoolVar(&debug, "debug", false, "Enable debug logging")
	flag.BoolVar(&logToFile, "log-to-file", false, "Log to a rotating file instead of stderr")
	flag.BoolVar(&initConfig, "init", false, "Write a default config file and exit")
	flag.BoolVar(&showVersion, "version", false, "Print the version and exit")

	flag.StringVar(&uploadName, "name", "", "Display name for upload (defaults to the file name)")
	flag.StringVar(&uploadVisibility, "visibility", "", "Visibility for upload (private, loggedin, public)")
	flag.StringVar(&uploadFolder, "folder", "", "Folder id to file the upload into")
	flag.IntVar(&searchLimit, "limit", 10, "Maximum number of search results")
	flag.StringSliceVar(&searchTypes, "types", nil, "Restrict search to resource types (content, discussion, user, group, folder)")

	flag.Parse()

	if showVersion {
		fmt.Printf("oae %s\n", Version)
		return
	}

	// Expand ~ to home directory
	if strings.HasPrefix(configPath, "~/") {
		if home, errHome := os.UserHomeDir(); errHome == nil {
			configPath = filepath.Join(home, configPath[2:])
		}
	}

	if initConfig {
		doInitConfig(configPath)
		return
	}

	wd, err := os.Getwd()
	if err != nil {
		log.Fatalf("failed to get working directory: %v", err)
	}

	// Load environment variables from .env if present.
	if errLoad := godotenv.Load(filepath.Join(wd, ".env")); errLoad != nil {
		if !errors.Is(errLoad, os.ErrNotExist) {
			log.WithError(errLoad).Warn("failed to load .env file")
		}
	}

	// Always optional=true so a pure flag/env invocation needs no file.
	cfg, err := config.LoadConfigOptional(configPath, true)
	if err != nil {
		log.Fatalf("failed to load config: %v", err)
	}

	// Flags beat env and file values.
	if host != "" {
		cfg.Host = host
	}
	if hostHeader != "" {
		cfg.HostHeader = hostHeader
	}
	if username != "" {
		cfg.Username = username
	}
	if password != "" {
		cfg.Password = password
	}
	if session != "" {
		cfg.Session = session
	}
	if flag.CommandLine.Changed("insecure") {
		cfg.Insecure = insecure
	}
	if flag.CommandLine.Changed("debug") {
		cfg.Debug = debug
	}
	if flag.CommandLine.Changed("log-to-file") {
		cfg.LoggingToFile = logToFile
	}
	if err = cfg.Validate(); err != nil {
		log.Fatalf("invalid configuration: %v", err)
	}

	// With no credentials at all, fall back to a session persisted by an
	// earlier authenticated run against the same tenant.
	usedStoredSession := false
	if cfg.Session == "" && cfg.Username == "" {
		if tok := config.SessionFor(cfg.Host); tok != "" {
			cfg.Session = tok
			usedStoredSession = true
		}
	}

	if err = logging.ConfigureOutput(cfg.LoggingToFile, cfg.LogDir); err != nil {
		log.Fatalf("failed to configure log output: %v", err)
	}
	defer logging.CloseOutput()
	if cfg.Debug {
		log.SetLevel(slog.LevelDebug)
	}

	rc, err := oae.Connect(cfg)
	if err != nil {
		log.Fatalf("%v", err)
	}

	args := flag.Args()
	if len(args) == 0 {
		usage()
		os.Exit(2)
	}

	ctx := context.Background()
	switch args[0] {
	case "me":
		err = runMe(ctx, rc)
	case "upload":
		if len(args) < 2 {
			log.Fatal("usage: oae upload <file> [--name] [--visibility] [--folder]")
		}
		err = runUpload(ctx, rc, args[1], uploadName, uploadVisibility, uploadFolder)
	case "search":
		if len(args) < 2 {
			log.Fatal("usage: oae search <query> [--limit] [--types]")
		}
		err = runSearch(ctx, rc, strings.Join(args[1:], " "), searchLimit, searchTypes)
	default:
		usage()
		os.Exit(2)
	}
	if err != nil {
		if usedStoredSession && rest.StatusOf(err) == 401 {
			_ = config.ClearSession(cfg.Host)
			log.Warn("stored session was rejected and has been cleared, log in again with --username")
		}
		log.Fatalf("%v", err)
	}

	// Password logins leave a fresh session on the context; keep it for the
	// next invocation.
	if cfg.Username != "" {
		if tok := rc.Session(); tok != "" {
			if errSave := config.SaveSession(cfg.Host, tok); errSave != nil {
				log.WithError(errSave).Debug("failed to persist session")
			}
		}
	}
}

func runMe(ctx context.Context, rc *rest.Context) error {
	me, err := user.Me(ctx, rc)
	if err != nil {
		return err
	}
	out, err := json.MarshalIndent(me, "", "  ")
	if err != nil {
		return err
	}
	fmt.Println(string(out))
	return nil
}

func runUpload(ctx context.Context, rc *rest.Context, path, name, visibility, folder string) error {
	f, err := os.Open(path)
	if err != nil {
		return err
	}
	defer f.Close()

	if name == "" {
		name = filepath.Base(path)
	}
	var opts *content.CreateOpts
	if folder != "" {
		opts = &content.CreateOpts{Folders: []string{folder}}
	}
	created, err := content.CreateFile(ctx, rc, name, visibility, filepath.Base(path), f, opts)
	if err != nil {
		return err
	}

	out, _ := sjson.Set("", "id", created.ID)
	out, _ = sjson.Set(out, "displayName", created.DisplayName)
	out, _ = sjson.Set(out, "size", created.Size)
	out, _ = sjson.Set(out, "profilePath", created.ProfilePath)
	fmt.Println(out)
	return nil
}

func runSearch(ctx context.Context, rc *rest.Context, query string, limit int, types []string) error {
	res, err := search.Search(ctx, rc, "general", &search.Opts{
		Query:         query,
		Limit:         limit,
		ResourceTypes: types,
	})
	if err != nil {
		return err
	}
	for _, doc := range res.Results {
		line, _ := sjson.Set("", "id", doc.ID)
		line, _ = sjson.Set(line, "type", doc.ResourceType)
		line, _ = sjson.Set(line, "displayName", doc.DisplayName)
		fmt.Println(line)
	}
	log.Infof("%d of %d results", len(res.Results), res.Total)
	return nil
}

func usage() {
	fmt.Fprint(os.Stderr, `usage: oae [flags] <command>

commands:
  me              show the current user profile
  upload <file>   upload a file to the tenant
  search <query>  run a general search

flags:
`)
	flag.PrintDefaults()
}

func doInitConfig(configPath string) {
	if fileExists(configPath) {
		fmt.Printf("Config already exists: %s\n", configPath)
		return
	}
	if err := os.MkdirAll(filepath.Dir(configPath), 0o700); err != nil {
		log.Fatalf("failed to create config directory: %v", err)
	}
	if err := os.WriteFile(configPath, config.GenerateDefaultYAML(), 0o600); err != nil {
		log.Fatalf("failed to write config: %v", err)
	}
	fmt.Printf("Created: %s\n", configPath)
}

func fileExists(path string) bool {
	_, err := os.Stat(path)
	return err == nil
}
