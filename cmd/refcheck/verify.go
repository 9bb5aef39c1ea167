package main

import (
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strings"

	"github.com/spf13/cobra"

	"github.com/matsen/refcheck/internal/config"
	"github.com/matsen/refcheck/internal/docext"
	"github.com/matsen/refcheck/internal/lookup"
	"github.com/matsen/refcheck/internal/verify"
)

func init() {
	verifyCmd.Flags().BoolVar(&skipBooks, "skip-books", false, "Do not query book databases; mark books for manual review")
	verifyCmd.Flags().BoolVar(&skipWebsites, "skip-websites", false, "Mark website references as skipped instead of manual review")
	verifyCmd.Flags().BoolVar(&skipCitations, "skip-citations", false, "Skip the in-text citation cross-match")
	verifyCmd.Flags().StringVar(&cachePath, "cache", "", "SQLite cache file for provider lookups")
	rootCmd.AddCommand(verifyCmd)
}

var (
	skipBooks     bool
	skipWebsites  bool
	skipCitations bool
	cachePath     string
)

var verifyCmd = &cobra.Command{
	Use:   "verify <file-or-directory>...",
	Short: "Verify the references of one or more documents",
	Long: `Verify extracts each document's reference list and in-text
citations, queries the bibliographic databases for every entry, and
reports a confidence-scored verdict per reference.

Directories are walked for PDF and text documents. Flagged references
always require manual confirmation; a missing database record is
evidence, not proof, of fabrication.`,
	Args: cobra.MinimumNArgs(1),
	RunE: runVerify,
}

func runVerify(cmd *cobra.Command, args []string) error {
	cfg, err := config.Load(configPath)
	if err != nil {
		exitWithError(ExitConfigError, "%v", err)
	}
	if skipBooks {
		cfg.SkipBookVerification = true
	}
	if skipWebsites {
		cfg.SkipWebsiteVerification = true
	}
	if skipCitations {
		cfg.SkipCitationMatching = true
	}
	if cachePath != "" {
		cfg.CachePath = cachePath
	}
	applyEnv(&cfg)

	paths, err := collectDocuments(args)
	if err != nil {
		exitWithError(ExitDataError, "%v", err)
	}
	if len(paths) == 0 {
		exitWithError(ExitDataError, "no documents found under %s", strings.Join(args, ", "))
	}

	adapters, closeCache, err := buildAdapters(cfg)
	if err != nil {
		exitWithError(ExitConfigError, "%v", err)
	}
	defer closeCache()

	verifier, err := verify.New(cfg, adapters)
	if err != nil {
		exitWithError(ExitConfigError, "%v", err)
	}

	// A document that cannot be extracted is skipped with a recorded
	// anomaly; the rest of the batch proceeds.
	var docs []verify.Document
	var skipped []SkippedDocument
	for _, path := range paths {
		content, err := extractDocument(path)
		if err != nil {
			skipped = append(skipped, SkippedDocument{Path: path, Error: err.Error()})
			continue
		}
		docs = append(docs, verify.Document{
			Name:       filepath.Base(path),
			References: content.References,
			Paragraphs: content.Paragraphs,
		})
	}
	if len(docs) == 0 {
		exitWithError(ExitDataError, "no readable documents among %d inputs", len(paths))
	}

	reports, err := verifier.VerifyBatch(cmd.Context(), docs)
	if err != nil {
		exitWithError(ExitError, "%v", err)
	}

	flagged := false
	for _, report := range reports {
		if report.Summary.NeedsAttention() {
			flagged = true
		}
		if humanOutput {
			printReportHuman(report)
		}
	}
	if humanOutput {
		for _, s := range skipped {
			fmt.Fprintf(os.Stderr, "skipped %s: %s\n", s.Path, s.Error)
		}
	} else {
		resp := VerifyResponse{Reports: reports, Skipped: skipped}
		if err := outputJSON(resp); err != nil {
			exitWithError(ExitError, "encoding reports: %v", err)
		}
	}

	if flagged {
		os.Exit(ExitFindings)
	}
	return nil
}

// VerifyResponse is the JSON output of the verify command.
type VerifyResponse struct {
	Reports []*verify.Report  `json:"reports"`
	Skipped []SkippedDocument `json:"skipped,omitempty"`
}

// SkippedDocument records a document the extractor could not read.
type SkippedDocument struct {
	Path  string `json:"path"`
	Error string `json:"error"`
}

func extractDocument(path string) (docext.Content, error) {
	extractor, err := docext.ForFile(path)
	if err != nil {
		return docext.Content{}, err
	}
	return extractor.Extract(path)
}

// applyEnv fills credentials left empty by the config file from the
// environment (including a .env file when present).
func applyEnv(cfg *config.Config) {
	if cfg.ContactEmail == "" {
		cfg.ContactEmail = os.Getenv("CROSSREF_MAILTO")
	}
	if cfg.PubMedAPIKey == "" {
		cfg.PubMedAPIKey = os.Getenv("PUBMED_API_KEY")
	}
}

// buildAdapters wires the provider set, optionally behind the shared
// SQLite cache. The returned func releases the cache handle.
func buildAdapters(cfg config.Config) ([]lookup.Adapter, func(), error) {
	client := lookup.NewClient(
		lookup.WithTimeout(cfg.AdapterTimeout),
		lookup.WithRetries(cfg.RetryCount),
	)

	adapters := []lookup.Adapter{
		lookup.NewCrossRef(client, cfg.ContactEmail),
		lookup.NewPubMed(client, cfg.PubMedAPIKey),
		lookup.NewOpenLibrary(client),
		lookup.NewGoogleBooks(client),
	}

	if cfg.CachePath == "" {
		return adapters, func() {}, nil
	}
	cache, err := lookup.OpenCache(cfg.CachePath)
	if err != nil {
		return nil, nil, fmt.Errorf("opening cache: %w", err)
	}
	cached := make([]lookup.Adapter, len(adapters))
	for i, a := range adapters {
		cached[i] = lookup.NewCachedAdapter(a, cache)
	}
	return cached, func() { _ = cache.Close() }, nil
}

// collectDocuments expands files and directories into a document list.
func collectDocuments(args []string) ([]string, error) {
	var paths []string
	for _, arg := range args {
		info, err := os.Stat(arg)
		if err != nil {
			return nil, err
		}
		if !info.IsDir() {
			paths = append(paths, arg)
			continue
		}
		err = filepath.WalkDir(arg, func(path string, d fs.DirEntry, err error) error {
			if err != nil {
				return err
			}
			if d.IsDir() {
				return nil
			}
			switch strings.ToLower(filepath.Ext(path)) {
			case ".pdf", ".txt", ".text":
				paths = append(paths, path)
			}
			return nil
		})
		if err != nil {
			return nil, err
		}
	}
	return paths, nil
}
