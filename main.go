package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/williamokano/fastdeploy/pkg/config"
	"github.com/williamokano/fastdeploy/pkg/deploy"
	"github.com/williamokano/fastdeploy/pkg/logger"
	"github.com/williamokano/fastdeploy/pkg/scaffold"
	"github.com/williamokano/fastdeploy/pkg/transport/sftp"
)

// version is set at build time with -ldflags "-X main.version=..."
var version = "dev"

const usage = `fastdeploy deploys a local build directory to a remote server over SFTP.

Usage:
  fastdeploy [deploy] [-m mode] [--dev|--test|--uat|--prod] [-c path]
  fastdeploy init
  fastdeploy version

Configuration (.fastdeploy):
  {
    "localPath": "dist",
    "remotePath": "/var/www/html/my-app",
    "server": {
      "host": "192.168.1.100",
      "username": "user",
      "password": "password",
      "port": 22
    },
    "backupPath": "/var/www/backups"
  }

  Use "privateKeyPath" (and "passphrase") instead of "password" for key authentication.
`

func main() {
	logger.Init("info", "console")

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	err := run(ctx, os.Args[1:])
	stop()

	if errors.Is(err, flag.ErrHelp) {
		return
	}
	if err != nil {
		logger.Get().Error().Err(err).Msg("fastdeploy failed")
		os.Exit(1)
	}
}

func run(ctx context.Context, args []string) error {
	command := "deploy"
	if len(args) > 0 {
		switch args[0] {
		case "deploy", "init", "version":
			command = args[0]
			args = args[1:]
		}
	}

	switch command {
	case "init":
		return runInit()
	case "version":
		fmt.Println(version)
		return nil
	default:
		return runDeploy(ctx, args)
	}
}

func runInit() error {
	cwd, err := os.Getwd()
	if err != nil {
		return fmt.Errorf("failed to get working directory: %w", err)
	}

	if _, err := scaffold.Init(cwd, *logger.Get()); err != nil {
		return fmt.Errorf("initialization failed: %w", err)
	}
	return nil
}

type deployFlags struct {
	mode        string
	configPath  string
	dev         bool
	test        bool
	uat         bool
	prod        bool
	showVersion bool
}

func parseDeployFlags(args []string) (*deployFlags, error) {
	f := &deployFlags{}

	fs := flag.NewFlagSet("deploy", flag.ContinueOnError)
	fs.Usage = func() {
		fmt.Fprint(fs.Output(), usage)
		fmt.Fprintln(fs.Output(), "\nFlags:")
		fs.PrintDefaults()
	}

	fs.StringVar(&f.mode, "m", "", "deployment mode, reads .fastdeploy.<mode>")
	fs.StringVar(&f.mode, "mode", "", "deployment mode, reads .fastdeploy.<mode>")
	fs.BoolVar(&f.dev, "dev", false, "shortcut for --mode dev")
	fs.BoolVar(&f.test, "test", false, "shortcut for --mode test")
	fs.BoolVar(&f.uat, "uat", false, "shortcut for --mode uat")
	fs.BoolVar(&f.prod, "prod", false, "shortcut for --mode prod")
	fs.StringVar(&f.configPath, "c", "", "custom config file path")
	fs.StringVar(&f.configPath, "config", "", "custom config file path")
	fs.BoolVar(&f.showVersion, "version", false, "print the version and exit")

	if err := fs.Parse(args); err != nil {
		return nil, err
	}
	if fs.NArg() > 0 {
		return nil, fmt.Errorf("unexpected argument %q", fs.Arg(0))
	}

	return f, nil
}

// resolveMode applies the shortcut flags over --mode; later shortcuts win
func (f *deployFlags) resolveMode() string {
	mode := f.mode
	if f.dev {
		mode = "dev"
	}
	if f.test {
		mode = "test"
	}
	if f.prod {
		mode = "prod"
	}
	if f.uat {
		mode = "uat"
	}
	return mode
}

func runDeploy(ctx context.Context, args []string) error {
	flags, err := parseDeployFlags(args)
	if err != nil {
		return err
	}
	if flags.showVersion {
		fmt.Println(version)
		return nil
	}

	log := logger.Get()

	cwd, err := os.Getwd()
	if err != nil {
		return fmt.Errorf("failed to get working directory: %w", err)
	}

	configFile, err := config.ResolvePath(cwd, flags.configPath, flags.resolveMode(), *log)
	if err != nil {
		return err
	}

	log.Info().Str("config_file", configFile).Msg("Using configuration file")

	if err := config.ValidateFile(configFile); err != nil {
		return err
	}

	opts, err := config.ParseConfig(configFile)
	if err != nil {
		return err
	}

	logger.Init(opts.GetLogLevel(), opts.GetLogFormat())
	log = logger.Get()

	tr := sftp.New(*log,
		sftp.WithConcurrency(opts.GetConcurrency()),
		sftp.WithExclude(opts.Exclude),
	)

	return deploy.New(tr, *log, deploy.WithWorkDir(cwd)).Deploy(ctx, opts)
}
