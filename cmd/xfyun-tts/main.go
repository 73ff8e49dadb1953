// Command xfyun-tts synthesizes speech with the xfyun online TTS API.
//
// Usage:
//
//	xfyun-tts [-d] [-log-file path] [-o output] <file|->
//
// Credentials come from XFYUN_APPID, XFYUN_APISECRET and XFYUN_APIKEY (a
// .env file in the working directory is loaded first). XFYUN_BUSOPT may be
// "MAN" for the male voice or a JSON object of business options.
//
// Text from a file is written next to it as <name>.mp3 (.pcm for raw audio).
// With "-", raw bytes are read from stdin and audio goes to stdout.
package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"io"
	"log/slog"
	"os"
	"os/signal"
	"path/filepath"
	"strings"
	"syscall"

	xfyun "github.com/moxierobots/xfyun-tts-go"
	"github.com/moxierobots/xfyun-tts-go/internal/config"
	"github.com/moxierobots/xfyun-tts-go/internal/logging"
)

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	if err := run(ctx, os.Args[1:], os.Stdin, os.Stdout, os.Stderr); err != nil {
		if !errors.Is(err, flag.ErrHelp) {
			fmt.Fprintln(os.Stderr, "xfyun-tts:", err)
		}
		stop()
		os.Exit(1)
	}
}

func run(ctx context.Context, args []string, stdin io.Reader, stdout, stderr io.Writer) error {
	fs := flag.NewFlagSet("xfyun-tts", flag.ContinueOnError)
	fs.SetOutput(stderr)
	debug := fs.Bool("d", false, "Enable debug logging")
	logFile := fs.String("log-file", "", "Write logs to a rotated file instead of stderr")
	output := fs.String("o", "", "Output file (default: input name with an audio extension, stdout for -)")
	fs.Usage = func() {
		fmt.Fprintln(stderr, "Usage: xfyun-tts [options] <file|->")
		fs.PrintDefaults()
	}
	if err := fs.Parse(args); err != nil {
		return err
	}
	if fs.NArg() != 1 {
		fs.Usage()
		return errors.New("expected exactly one input file, use - for stdin")
	}
	input := fs.Arg(0)

	logger, closer := logging.New(logging.Options{Debug: *debug, File: *logFile, Stderr: stderr})
	defer closer.Close()

	cfg, err := config.Load()
	if err != nil {
		return err
	}
	creds, err := cfg.Credentials()
	if err != nil {
		return err
	}
	client, err := xfyun.NewClient(creds, xfyun.ClientOptions{
		Endpoint: cfg.Endpoint,
		Business: cfg.Business,
		Logger:   logger,
	})
	if err != nil {
		return err
	}

	if input == "-" {
		return fromStdin(ctx, client, logger, stdin, stdout, *output)
	}
	return fromFile(ctx, client, logger, input, *output, cfg.AudioExtension())
}

func fromStdin(ctx context.Context, client *xfyun.Client, logger *slog.Logger, stdin io.Reader, stdout io.Writer, output string) error {
	text, err := io.ReadAll(stdin)
	if err != nil {
		return fmt.Errorf("read stdin: %w", err)
	}
	if len(text) == 0 {
		logger.Warn("no data from stdin")
		return nil
	}

	stream, err := client.SynthesizeBytes(ctx, text, nil)
	if err != nil {
		return err
	}
	defer stream.Close()

	if output != "" {
		return writeFile(stream, output)
	}
	_, err = stream.WriteTo(stdout)
	return err
}

func fromFile(ctx context.Context, client *xfyun.Client, logger *slog.Logger, path, output, ext string) error {
	info, err := os.Stat(path)
	if err != nil || !info.Mode().IsRegular() {
		logger.Warn("not a file", "path", path)
		return nil
	}
	data, err := os.ReadFile(path)
	if err != nil {
		return err
	}
	text := string(data)
	if strings.TrimSpace(text) == "" {
		logger.Warn("no data from file", "path", path)
		return nil
	}

	stream, err := client.Synthesize(ctx, text, nil)
	if err != nil {
		return err
	}
	defer stream.Close()

	if output == "" {
		output = strings.TrimSuffix(path, filepath.Ext(path)) + ext
	}
	if err := writeFile(stream, output); err != nil {
		return err
	}
	logger.Info("audio written", "path", output)
	return nil
}

// writeFile removes a partially written file when synthesis fails.
func writeFile(stream *xfyun.Stream, path string) error {
	f, err := os.Create(path)
	if err != nil {
		return err
	}
	_, err = stream.WriteTo(f)
	if cerr := f.Close(); err == nil {
		err = cerr
	}
	if err != nil {
		os.Remove(path)
		return err
	}
	return nil
}
