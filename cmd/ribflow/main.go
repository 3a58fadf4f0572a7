// Command ribflow runs a scene-description stream through the inline
// archive filter chain: it reads RIB (text or framed binary), records and
// expands inline archives and object instances, and emits the filtered
// stream.
package main

import (
	"bufio"
	"flag"
	"fmt"
	"io"
	"os"

	"github.com/rendkit/ribflow/internal/archive"
	"github.com/rendkit/ribflow/internal/config"
	"github.com/rendkit/ribflow/internal/observability"
	"github.com/rendkit/ribflow/internal/pipeline"
	"github.com/rendkit/ribflow/internal/ri"
	"github.com/rendkit/ribflow/internal/rib"
	"github.com/rendkit/ribflow/internal/wire"
)

func main() {
	if err := run(os.Args[1:]); err != nil {
		fmt.Fprintf(os.Stderr, "ribflow: %v\n", err)
		os.Exit(1)
	}
}

func run(args []string) error {
	fs := flag.NewFlagSet("ribflow", flag.ContinueOnError)
	profilePath := fs.String("profile", "", "tool profile TOML path")
	configPath := fs.String("config", "", "pipeline config TOML path")
	in := fs.String("in", "", "input stream path (default stdin)")
	out := fs.String("out", "", "output stream path (default stdout)")
	inFormat := fs.String("informat", "", "input format: text or wire")
	outFormat := fs.String("outformat", "", "output format: text or wire")
	if err := fs.Parse(args); err != nil {
		return err
	}

	rc := defaultRunConfig()
	if *profilePath != "" {
		var err error
		rc, err = loadRunProfile(*profilePath, rc)
		if err != nil {
			return err
		}
	}
	if *in != "" {
		rc.In = *in
	}
	if *out != "" {
		rc.Out = *out
	}
	if *inFormat != "" {
		rc.InFormat = *inFormat
	}
	if *outFormat != "" {
		rc.OutFormat = *outFormat
	}
	if *configPath != "" {
		rc.ConfigPath = *configPath
	}
	if err := validateRunConfig(rc); err != nil {
		return err
	}

	cfg, err := config.Load(rc.ConfigPath)
	if err != nil {
		return err
	}
	logger := observability.InitLogger("ribflow", cfg.Log)

	input := io.Reader(os.Stdin)
	if rc.In != "" {
		f, err := os.Open(rc.In)
		if err != nil {
			return err
		}
		defer f.Close()
		input = f
	}
	output := io.Writer(os.Stdout)
	var outFile *os.File
	if rc.Out != "" {
		f, err := os.Create(rc.Out)
		if err != nil {
			return err
		}
		defer f.Close()
		outFile = f
		output = f
	}
	bw := bufio.NewWriter(output)
	defer bw.Flush()

	var sink ri.Stage
	switch rc.OutFormat {
	case formatWire:
		sink = wire.NewWriter(bw)
	default:
		sink = rib.NewWriter(bw)
	}

	reporter := observability.NewLogReporter(logger)
	chain, err := pipeline.New(sink, func(next ri.Stage) ri.Stage {
		return archive.NewFilter(next, reporter, archive.Config{
			MaxReplayDepth: cfg.Pipeline.MaxReplayDepth,
		})
	})
	if err != nil {
		return err
	}

	logger.Debug().
		Str("in_format", rc.InFormat).
		Str("out_format", rc.OutFormat).
		Int("max_replay_depth", cfg.Pipeline.MaxReplayDepth).
		Msg("pipeline ready")

	switch rc.InFormat {
	case formatWire:
		err = wire.NewReader(input).Run(chain)
	default:
		err = rib.NewReader(input).Run(chain)
	}
	if err != nil {
		return err
	}
	// The deferred Flush/Close are backstops only. A buffered tail that
	// fails to reach the file must fail the run, not exit 0 with a
	// truncated output.
	if err := bw.Flush(); err != nil {
		return fmt.Errorf("flush output: %w", err)
	}
	if outFile != nil {
		if err := outFile.Close(); err != nil {
			return fmt.Errorf("close output (%s): %w", rc.Out, err)
		}
	}
	return nil
}
