package main

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/charmbracelet/log"
	"github.com/spf13/cobra"

	"unbarrel/internal/config"
	"unbarrel/internal/crawler"
	"unbarrel/internal/extractor"
	"unbarrel/internal/index"
	"unbarrel/internal/resolver"
	"unbarrel/internal/rewriter"
	"unbarrel/internal/storage"
)

var (
	rootCmd = &cobra.Command{
		Use:   "unbarrel",
		Short: "Resolve and rewrite TypeScript barrel imports to direct imports",
	}
	dbPath     string
	configPath string
	verbose    bool
)

func main() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Println(err)
		os.Exit(1)
	}
}

func init() {
	rootCmd.PersistentFlags().StringVarP(&dbPath, "db", "d", "unbarrel.db", "Path to the scanned export index database (SQLite)")
	rootCmd.PersistentFlags().StringVarP(&configPath, "config", "c", "unbarrel.yaml", "Path to the configuration file")
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "Enable debug logging")

	rootCmd.AddCommand(scanCmd)
	rootCmd.AddCommand(resolveCmd)
	rootCmd.AddCommand(rewriteCmd)
}

func loadConfig() *config.Config {
	if verbose {
		log.SetLevel(log.DebugLevel)
	}
	cfg, err := config.LoadConfig(configPath)
	if err != nil {
		log.Fatal("failed to load config", "path", configPath, "err", err)
	}
	return cfg
}

// buildIndex crawls root/source and builds a fresh export index.
func buildIndex(cfg *config.Config, root string) *index.ExportIndex {
	cr := crawler.New(extractor.New())
	start := time.Now()
	idx, err := index.Build(cr, root, cfg.Project.Source)
	if err != nil {
		log.Fatal("scan failed", "root", root, "err", err)
	}
	log.Debug("index built", "root", idx.Root, "exports", idx.Len(), "elapsed", time.Since(start))
	return idx
}

// loadOrBuildIndex prefers the stored index and falls back to an
// in-process crawl of fallbackRoot when no database exists yet.
func loadOrBuildIndex(cfg *config.Config, fallbackRoot string) *index.ExportIndex {
	if _, err := os.Stat(dbPath); err != nil {
		log.Debug("no index database, crawling", "root", fallbackRoot)
		return buildIndex(cfg, fallbackRoot)
	}
	store, err := storage.NewSQLiteStore(dbPath)
	if err != nil {
		log.Fatal("failed to open database", "path", dbPath, "err", err)
	}
	defer store.Close()
	idx, err := store.LoadIndex(context.Background())
	if err != nil {
		log.Fatal("failed to load index", "path", dbPath, "err", err)
	}
	log.Debug("index loaded", "root", idx.Root, "exports", idx.Len())
	return idx
}

var scanCmd = &cobra.Command{
	Use:   "scan [path]",
	Short: "Scan the project and store its export index",
	Args:  cobra.MaximumNArgs(1),
	Run: func(cmd *cobra.Command, args []string) {
		cfg := loadConfig()
		root := cfg.Project.Root
		if len(args) > 0 {
			root = args[0]
		}

		idx := buildIndex(cfg, root)

		store, err := storage.NewSQLiteStore(dbPath)
		if err != nil {
			log.Fatal("failed to open database", "path", dbPath, "err", err)
		}
		defer store.Close()
		if err := store.SaveIndex(context.Background(), idx); err != nil {
			log.Fatal("failed to save index", "err", err)
		}

		log.Info("scan complete", "root", idx.Root, "exports", idx.Len(), "db", dbPath)
	},
}

var resolveCmd = &cobra.Command{
	Use:   "resolve <barrel-dir> <name>",
	Short: "Resolve an export name through a barrel to its defining module",
	Args:  cobra.ExactArgs(2),
	Run: func(cmd *cobra.Command, args []string) {
		cfg := loadConfig()
		barrelDir, name := args[0], args[1]

		idx := loadOrBuildIndex(cfg, barrelDir)
		res, ok := resolver.New(extractor.New(), idx).Resolve(barrelDir, name)
		if !ok {
			log.Error("not found", "barrel", barrelDir, "name", name)
			os.Exit(1)
		}

		kind := "file"
		if res.External {
			kind = "package"
		}
		fmt.Printf("%s %s (%s)\n", res.Name, res.Location, kind)
		for i, step := range res.Chain {
			fmt.Printf("  %*s%s\n", i*2, "", step)
		}
	},
}

var rewriteCmd = &cobra.Command{
	Use:   "rewrite [path]",
	Short: "Rewrite barrel imports under a path into direct imports",
	Run: func(cmd *cobra.Command, args []string) {
		cfg := loadConfig()
		root := cfg.Project.Root
		if len(args) > 0 {
			root = args[0]
		}
		write, _ := cmd.Flags().GetBool("write")

		idx := loadOrBuildIndex(cfg, root)
		ext := extractor.New()
		rw := rewriter.New(resolver.New(ext, idx))
		rw.SetQuote(cfg.QuoteString())

		var files, edits int
		err := crawler.New(ext).Files(root, func(path string) {
			plan, err := rw.PlanFile(path)
			if err != nil {
				log.Warn("skipping file", "path", path, "err", err)
				return
			}
			if len(plan.Edits) == 0 {
				return
			}
			files++
			edits += len(plan.Edits)
			printPlan(plan)
			if write {
				if err := rewriter.Apply(plan); err != nil {
					log.Error("failed to apply edits", "path", path, "err", err)
				}
			}
		})
		if err != nil {
			log.Fatal("walk failed", "root", root, "err", err)
		}

		if write {
			log.Info("rewrite complete", "files", files, "imports", edits)
		} else {
			log.Info("dry run complete (use --write to apply)", "files", files, "imports", edits)
		}
	},
}

func init() {
	rewriteCmd.Flags().Bool("write", false, "Apply edits instead of printing them")
}

func printPlan(plan rewriter.Plan) {
	rel := plan.File
	if wd, err := os.Getwd(); err == nil {
		if r, err := filepath.Rel(wd, plan.File); err == nil {
			rel = r
		}
	}
	fmt.Printf("%s\n", rel)
	for _, e := range plan.Edits {
		fmt.Printf("  line %d:\n", e.Decl.StartLine)
		for _, l := range e.Lines {
			fmt.Printf("    %s\n", l)
		}
	}
}
