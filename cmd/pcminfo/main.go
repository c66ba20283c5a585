// This tool prints the PCM format parameters and chunk index of the
// passed WAV/Wave64 files.
package main

import (
	"errors"
	"fmt"
	"io"
	"log"
	"os"
	"strings"

	"golang.org/x/sync/errgroup"

	"github.com/cwbudde/pcm"
)

const missingPathMessage = "You must pass the path of at least one file to probe"

func main() {
	err := run(os.Args[1:], os.Stdout)
	if err == nil {
		return
	}

	if errors.Is(err, errMissingPath) {
		fmt.Println(missingPathMessage)
		os.Exit(1)
	}

	log.Fatal(err)
}

var errMissingPath = errors.New("missing path argument")

func run(args []string, out io.Writer) error {
	if len(args) < 1 {
		return errMissingPath
	}

	// Probe concurrently, print in argument order.
	reports := make([]string, len(args))

	var g errgroup.Group

	for i, path := range args {
		i, path := i, path
		g.Go(func() error {
			report, err := probe(path)
			if err != nil {
				return fmt.Errorf("%s: %w", path, err)
			}

			reports[i] = report

			return nil
		})
	}

	err := g.Wait()
	if err != nil {
		return err
	}

	for _, report := range reports {
		fmt.Fprint(out, report)
	}

	return nil
}

func probe(path string) (string, error) {
	provider, err := pcm.Open(path)
	if err != nil {
		return "", err
	}
	defer provider.Close()

	var b strings.Builder

	fmt.Fprintf(&b, "%s:\n", path)
	fmt.Fprintf(&b, "  container: %s\n", provider.Container())
	fmt.Fprintf(&b, "  sample rate: %d Hz\n", provider.SampleRate())
	fmt.Fprintf(&b, "  channels: %d\n", provider.NumChannels())
	fmt.Fprintf(&b, "  bit depth: %d (%d byte(s) per sample)\n", provider.BitDepth(), provider.BytesPerSample())
	fmt.Fprintf(&b, "  frames: %d\n", provider.NumFrames())

	dur, err := provider.Duration()
	if err == nil {
		fmt.Fprintf(&b, "  duration: %s\n", dur)
	}

	for i, point := range provider.Index() {
		fmt.Fprintf(&b, "  chunk[%d]: frames [%d, %d) at byte %d\n",
			i, point.StartFrame, point.StartFrame+point.NumFrames, point.StartByte)
	}

	return b.String(), nil
}
