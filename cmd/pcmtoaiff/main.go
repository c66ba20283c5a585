// This tool converts a PCM WAV or Wave64 file into an AIFF file
// stored in the same folder as the source.
package main

import (
	"flag"
	"fmt"
	"log"
	"os"
	"path/filepath"

	"github.com/go-audio/aiff"
	"github.com/go-audio/audio"

	"github.com/cwbudde/pcm"
)

var flagPath = flag.String("path", "", "The path of the WAV/Wave64 file to convert to AIFF")

func main() {
	flag.Parse()

	if *flagPath == "" {
		fmt.Println("You must set the -path flag")
		os.Exit(1)
	}

	err := convert(*flagPath)
	if err != nil {
		log.Fatal(err)
	}
}

func convert(sourcePath string) error {
	provider, err := pcm.Open(sourcePath)
	if err != nil {
		return err
	}
	defer provider.Close()

	outPath := sourcePath[:len(sourcePath)-len(filepath.Ext(sourcePath))] + ".aif"

	outFile, err := os.Create(outPath)
	if err != nil {
		return fmt.Errorf("failed to create %s: %w", outPath, err)
	}
	defer outFile.Close()

	encoder := aiff.NewEncoder(outFile,
		int(provider.SampleRate()), int(provider.BitDepth()), int(provider.NumChannels()))

	const framesPerPass = 65536

	buf := &audio.IntBuffer{
		Data: make([]int, framesPerPass*int(provider.NumChannels())),
	}

	for start := int64(0); start < provider.NumFrames(); start += framesPerPass {
		n, err := provider.ReadIntBuffer(buf, start)
		if err != nil {
			return err
		}

		if n == 0 {
			break
		}

		pass := *buf
		pass.Data = buf.Data[:n]

		err = encoder.Write(&pass)
		if err != nil {
			return fmt.Errorf("failed to write AIFF frames: %w", err)
		}
	}

	err = encoder.Close()
	if err != nil {
		return fmt.Errorf("failed to finalize %s: %w", outPath, err)
	}

	fmt.Printf("Converted to %s\n", outPath)

	return nil
}
