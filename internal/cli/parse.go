package cli

import (
	"fmt"
	"io"
	"os"

	"github.com/dustin/go-humanize"
	"github.com/lazypower/chatlog/internal/transcript"
	"github.com/spf13/cobra"
)

var parseOutput string

var parseCmd = &cobra.Command{
	Use:   "parse [input]",
	Short: "Parse a chat export into a JSON array of messages",
	Long:  "Parse a chat export into JSON. Input and output default to the configured paths; use -o - to write to stdout.",
	Args:  cobra.MaximumNArgs(1),
	RunE:  runParse,
}

func init() {
	parseCmd.Flags().StringVarP(&parseOutput, "output", "o", "", "output file (default from config, - for stdout)")
}

func runParse(cmd *cobra.Command, args []string) error {
	cfg, err := loadConfig()
	if err != nil {
		return err
	}
	input := cfg.Input
	if len(args) == 1 {
		input = args[0]
	}
	output := cfg.Output
	if parseOutput != "" {
		output = parseOutput
	}

	stderr := cmd.ErrOrStderr()

	fmt.Fprintf(stderr, "Parsing %s...\n", input)
	res, size, err := parseFile(input)
	if err != nil {
		return err
	}
	reportWarnings(stderr, res.Warnings)
	fmt.Fprintf(stderr, "Parsed %s messages from %s\n",
		humanize.Comma(int64(len(res.Messages))), humanize.Bytes(uint64(size)))

	if output == "-" {
		return transcript.WriteJSON(cmd.OutOrStdout(), res.Messages)
	}

	f, err := os.Create(output)
	if err != nil {
		return fmt.Errorf("create output: %w", err)
	}
	if err := transcript.WriteJSON(f, res.Messages); err != nil {
		f.Close()
		return err
	}
	if err := f.Close(); err != nil {
		return fmt.Errorf("close output: %w", err)
	}

	fmt.Fprintf(stderr, "Output written to: %s\n", output)
	return nil
}

// parseFile reads and parses a transcript, returning its size in bytes.
func parseFile(path string) (transcript.Result, int, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return transcript.Result{}, 0, fmt.Errorf("read transcript: %w", err)
	}
	return transcript.Parse(string(data)), len(data), nil
}

func reportWarnings(w io.Writer, ws []*transcript.LineError) {
	for _, lw := range ws {
		warn(w, "%v", lw)
	}
}
