package cli

import (
	"fmt"
	"path/filepath"
	"strings"
	"text/tabwriter"
	"time"

	"github.com/dustin/go-humanize"
	"github.com/lazypower/chatlog/internal/store"
	"github.com/lazypower/chatlog/internal/transcript"
	"github.com/spf13/cobra"
)

// --- import command ---

var importName string

var importCmd = &cobra.Command{
	Use:   "import <file>",
	Short: "Parse a chat export and store it in the archive",
	Args:  cobra.ExactArgs(1),
	RunE:  runImport,
}

func runImport(cmd *cobra.Command, args []string) error {
	cfg, err := loadConfig()
	if err != nil {
		return err
	}

	res, _, err := parseFile(args[0])
	if err != nil {
		return err
	}
	reportWarnings(cmd.ErrOrStderr(), res.Warnings)

	db, err := openDB(cfg)
	if err != nil {
		return fmt.Errorf("open db: %w", err)
	}
	defer db.Close()

	name := importName
	if name == "" {
		name = filepath.Base(args[0])
	}
	imp, err := db.SaveImport(name, res)
	if err != nil {
		return err
	}

	fmt.Fprintf(cmd.OutOrStdout(), "Imported %s messages from %s as %s\n",
		humanize.Comma(int64(imp.MessageCount)), name, imp.ID)
	return nil
}

// --- imports command ---

var importsLimit int

var importsCmd = &cobra.Command{
	Use:   "imports",
	Short: "List archived transcripts",
	Args:  cobra.NoArgs,
	RunE:  runImports,
}

func runImports(cmd *cobra.Command, args []string) error {
	cfg, err := loadConfig()
	if err != nil {
		return err
	}
	db, err := openDB(cfg)
	if err != nil {
		return fmt.Errorf("open db: %w", err)
	}
	defer db.Close()

	imps, err := db.ListImports(importsLimit)
	if err != nil {
		return err
	}
	if len(imps) == 0 {
		fmt.Fprintln(cmd.OutOrStdout(), "No imports yet.")
		return nil
	}

	tw := tabwriter.NewWriter(cmd.OutOrStdout(), 0, 4, 2, ' ', 0)
	fmt.Fprintln(tw, "ID\tNAME\tMESSAGES\tWARNINGS\tRANGE\tIMPORTED")
	for _, imp := range imps {
		fmt.Fprintf(tw, "%s\t%s\t%s\t%d\t%s\t%s\n",
			imp.ID, imp.Name, humanize.Comma(int64(imp.MessageCount)), imp.WarningCount,
			dateRange(imp), humanize.Time(time.UnixMilli(imp.ImportedAt)))
	}
	return tw.Flush()
}

func dateRange(imp store.Import) string {
	if imp.FirstDate == "" {
		return "-"
	}
	if imp.FirstDate == imp.LastDate {
		return imp.FirstDate
	}
	return imp.FirstDate + ".." + imp.LastDate
}

// --- messages command ---

var (
	messagesDate   string
	messagesSender string
	messagesQuery  string
	messagesLimit  int
	messagesOffset int
	messagesFull   bool
)

const previewLen = 200

var messagesCmd = &cobra.Command{
	Use:   "messages <importID>",
	Short: "Show messages from an archived transcript",
	Args:  cobra.ExactArgs(1),
	RunE:  runMessages,
}

func runMessages(cmd *cobra.Command, args []string) error {
	cfg, err := loadConfig()
	if err != nil {
		return err
	}
	db, err := openDB(cfg)
	if err != nil {
		return fmt.Errorf("open db: %w", err)
	}
	defer db.Close()

	imp, err := db.GetImport(args[0])
	if err != nil {
		return fmt.Errorf("import %s: %w", args[0], err)
	}

	msgs, err := db.ListMessages(imp.ID, store.MessageQuery{
		Date:   messagesDate,
		Sender: messagesSender,
		Query:  messagesQuery,
		Limit:  messagesLimit,
		Offset: messagesOffset,
	})
	if err != nil {
		return err
	}

	out := cmd.OutOrStdout()
	if len(msgs) == 0 {
		fmt.Fprintln(out, "No messages found.")
		return nil
	}

	now := time.Now()
	plain := make([]transcript.Message, len(msgs))
	for i, m := range msgs {
		plain[i] = m.Message
	}
	for _, g := range transcript.GroupByDate(plain) {
		fmt.Fprintf(out, "── %s ──\n", transcript.DateLabel(g.Date, now))
		for _, m := range g.Messages {
			content := m.Content
			if !messagesFull {
				content = transcript.Preview(content, previewLen)
			}
			content = strings.ReplaceAll(content, transcript.LineBreak, "\n    ")
			fmt.Fprintf(out, "[%s] %s: %s\n", m.Time, m.Sender, content)
		}
	}
	return nil
}

func init() {
	importCmd.Flags().StringVar(&importName, "name", "", "name for the import (default: file name)")

	importsCmd.Flags().IntVarP(&importsLimit, "limit", "n", 20, "maximum number of imports (0 for all)")

	messagesCmd.Flags().StringVar(&messagesDate, "date", "", "only messages on this date (YYYY-MM-DD)")
	messagesCmd.Flags().StringVar(&messagesSender, "sender", "", "only messages from this sender")
	messagesCmd.Flags().StringVarP(&messagesQuery, "query", "q", "", "only messages containing this text")
	messagesCmd.Flags().IntVarP(&messagesLimit, "limit", "n", 0, "maximum number of messages (0 for all)")
	messagesCmd.Flags().IntVar(&messagesOffset, "offset", 0, "skip this many matching messages")
	messagesCmd.Flags().BoolVar(&messagesFull, "full", false, "print full message content")
}
