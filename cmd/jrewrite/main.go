package main

import (
	"context"
	"fmt"
	"log"
	"log/slog"
	"os"
	"os/signal"
	"path/filepath"
	"strings"
	"time"

	"github.com/goccy/go-json"
	"github.com/spf13/cobra"

	"jrewrite/internal/config"
	"jrewrite/internal/crawler"
	"jrewrite/internal/parser"
	"jrewrite/internal/pipeline"
	"jrewrite/internal/recipe"
	"jrewrite/internal/recipes"
	"jrewrite/internal/report"
	"jrewrite/internal/semantic"
	"jrewrite/internal/storage"
	"jrewrite/internal/watch"
)

var (
	rootCmd = &cobra.Command{
		Use:   "jrewrite",
		Short: "Semantics-aware rewrite recipes for Java sources",
	}
	configPath string
	dbPath     string

	recipeName string
	options    []string
	write      bool
	showDiff   bool
	format     string
	since      string
	noVerify   bool
)

func main() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Println(err)
		os.Exit(1)
	}
}

func init() {
	rootCmd.PersistentFlags().StringVarP(&configPath, "config", "c", config.DefaultFile, "Path to the configuration file")
	rootCmd.PersistentFlags().StringVarP(&dbPath, "db", "d", "", "SQLite file for the run cache and type index (overrides cache.db)")

	for _, cmd := range []*cobra.Command{runCmd, watchCmd} {
		cmd.Flags().StringVarP(&recipeName, "recipe", "r", "", "Recipe to apply (default: run.recipes from the config)")
		cmd.Flags().StringArrayVarP(&options, "option", "o", nil, "Recipe option as key=value; repeatable")
		cmd.Flags().BoolVarP(&write, "write", "w", false, "Write rewritten files back")
		cmd.Flags().BoolVar(&noVerify, "no-verify", false, "Skip the idempotence check")
	}
	runCmd.Flags().BoolVar(&showDiff, "diff", false, "Print unified diffs of changed files")
	runCmd.Flags().StringVarP(&format, "format", "f", "text", "Report format: text or json")
	runCmd.Flags().StringVar(&since, "since", "", "Only rewrite files affected by git changes since this ref")
	listCmd.Flags().StringVarP(&format, "format", "f", "text", "Output format: text or json")

	rootCmd.AddCommand(runCmd)
	rootCmd.AddCommand(listCmd)
	rootCmd.AddCommand(indexCmd)
	rootCmd.AddCommand(watchCmd)
}

// session bundles what every command needs.
type session struct {
	cfg    *config.Config
	root   string
	logger *slog.Logger
	parser *parser.Parser
	store  *storage.SQLiteStore
}

func openSession(args []string) *session {
	cfg, err := config.LoadOrDefault(configPath)
	if err != nil {
		log.Fatalf("Failed to load config: %v", err)
	}
	if dbPath != "" {
		cfg.Cache.DB = dbPath
	}

	logger, err := cfg.NewLogger(os.Stderr)
	if err != nil {
		log.Fatalf("Failed to configure logging: %v", err)
	}

	p, err := parser.NewParser("java")
	if err != nil {
		log.Fatalf("Failed to create parser: %v", err)
	}

	s := &session{cfg: cfg, root: cfg.Project.Root, logger: logger, parser: p}
	if len(args) > 0 {
		s.root = args[0]
	}

	if cfg.Cache.DB != "" {
		s.store, err = storage.NewSQLiteStore(cfg.Cache.DB)
		if err != nil {
			log.Fatalf("Failed to initialize database: %v", err)
		}
	}
	return s
}

func (s *session) close() {
	if s.store != nil {
		s.store.Close()
	}
}

func (s *session) collect() []recipe.Source {
	sources, err := crawler.NewCrawler(s.parser, s.cfg.Project.Exclude...).Collect(s.root)
	if err != nil {
		log.Fatalf("Failed to scan %s: %v", s.root, err)
	}
	return sources
}

func (s *session) pipeline() *pipeline.Pipeline {
	opts := []pipeline.Option{
		pipeline.WithParallelism(s.cfg.Run.Parallelism),
		pipeline.WithVerify(s.cfg.Run.Verify && !noVerify),
	}
	if s.store != nil {
		opts = append(opts, pipeline.WithTypeStore(s.store), pipeline.WithRunCache(s.store))
	}
	return pipeline.New(s.parser, s.logger, opts...)
}

// recipes resolves the --recipe flag, or the configured recipe list.
func (s *session) recipes() []recipe.Recipe {
	reg := recipes.Default()
	if recipeName != "" {
		opts, err := recipe.ParseOptions(options)
		if err != nil {
			log.Fatalf("Invalid option: %v", err)
		}
		rec, err := reg.New(recipeName, opts)
		if err != nil {
			log.Fatalf("%v", err)
		}
		return []recipe.Recipe{rec}
	}
	selected := s.cfg.Run.Recipes
	if len(selected) == 0 {
		log.Fatalf("No recipe selected: pass --recipe or list run.recipes in %s", configPath)
	}
	var out []recipe.Recipe
	for _, rc := range selected {
		rec, err := reg.New(rc.Name, recipe.NewOptions(rc.Options))
		if err != nil {
			log.Fatalf("%v", err)
		}
		out = append(out, rec)
	}
	return out
}

// writeBack stores the changed units and feeds them to the next recipe.
func (s *session) writeBack(sources []recipe.Source, r *pipeline.Report) int {
	after := make(map[string]string)
	for _, u := range r.Changed() {
		after[u.Path] = u.After
	}
	written := 0
	for i, src := range sources {
		text, ok := after[src.Path]
		if !ok {
			continue
		}
		sources[i].Text = []byte(text)
		if !write {
			continue
		}
		if err := os.WriteFile(filepath.Join(s.root, filepath.FromSlash(src.Path)), []byte(text), 0o644); err != nil {
			log.Printf("⚠️ Failed to write %s: %v", src.Path, err)
			continue
		}
		written++
	}
	return written
}

var runCmd = &cobra.Command{
	Use:   "run [path]",
	Short: "Apply recipes to the Java sources under path",
	Args:  cobra.MaximumNArgs(1),
	Run: func(cmd *cobra.Command, args []string) {
		s := openSession(args)
		defer s.close()

		f, err := report.ParseFormat(format)
		if err != nil {
			log.Fatalf("%v", err)
		}
		recs := s.recipes()

		ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
		defer stop()

		sources := s.collect()
		fmt.Fprintf(cmd.ErrOrStderr(), "📂 Found %d Java files under %s\n", len(sources), s.root)

		pl := s.pipeline()
		failed := false
		for _, rec := range recs {
			var r *pipeline.Report
			if since != "" {
				var impact *pipeline.ImpactReport
				r, impact, err = pl.RunSince(ctx, s.root, since, sources, rec)
				if impact != nil {
					fmt.Fprintf(cmd.ErrOrStderr(), "🔍 %d files changed since %s, %d depend on them\n",
						len(impact.DirectlyAffected), since, len(impact.IndirectlyAffected))
				}
			} else {
				r, err = pl.Run(ctx, sources, rec)
			}
			if err != nil {
				log.Fatalf("Run of %s failed: %v", rec.Descriptor().Name, err)
			}

			if err := report.Write(cmd.OutOrStdout(), r, report.Options{Format: f, Diffs: showDiff}); err != nil {
				log.Fatalf("Failed to write report: %v", err)
			}
			if n := s.writeBack(sources, r); n > 0 {
				fmt.Fprintf(cmd.ErrOrStderr(), "💾 Wrote %d files\n", n)
			}
			failed = failed || len(r.Failed()) > 0
		}
		if failed {
			s.close()
			os.Exit(1)
		}
	},
}

var listCmd = &cobra.Command{
	Use:   "list",
	Short: "List the available recipes and their options",
	Run: func(cmd *cobra.Command, args []string) {
		descs := recipes.Default().List()
		if format == "json" {
			enc := json.NewEncoder(cmd.OutOrStdout())
			enc.SetIndent("", "  ")
			if err := enc.Encode(descs); err != nil {
				log.Fatalf("Failed to encode recipes: %v", err)
			}
			return
		}
		out := cmd.OutOrStdout()
		for _, d := range descs {
			fmt.Fprintf(out, "%s\n    %s\n", d.Name, d.Description)
			for _, o := range d.Options {
				def := ""
				if o.Default != "" {
					def = fmt.Sprintf(" (default %s)", o.Default)
				}
				fmt.Fprintf(out, "    -o %s=...  %s%s\n", o.Name, o.Description, def)
			}
		}
	},
}

var indexCmd = &cobra.Command{
	Use:   "index [path]",
	Short: "Build the cross-file type index and save it to the database",
	Args:  cobra.MaximumNArgs(1),
	Run: func(cmd *cobra.Command, args []string) {
		s := openSession(args)
		defer s.close()
		if s.store == nil {
			log.Fatalf("No database configured: pass --db or set cache.db")
		}

		start := time.Now()
		b := semantic.NewIndexBuilder()
		for _, src := range s.collect() {
			u, err := s.parser.Parse(cmd.Context(), src.Path, src.Text)
			if err != nil {
				log.Printf("⚠️ Failed to parse file %s: %v", src.Path, err)
				continue
			}
			b.AddUnit(u)
		}
		index := b.Build()
		infos := index.Infos()

		if err := s.store.SaveTypes(cmd.Context(), infos); err != nil {
			log.Fatalf("Failed to save types: %v", err)
		}
		fmt.Printf("✅ Indexed %d types in %v. Database: %s\n", len(infos), time.Since(start), s.cfg.Cache.DB)
	},
}

var watchCmd = &cobra.Command{
	Use:   "watch [path]",
	Short: "Re-apply recipes whenever Java sources under path change",
	Args:  cobra.MaximumNArgs(1),
	Run: func(cmd *cobra.Command, args []string) {
		s := openSession(args)
		defer s.close()
		recs := s.recipes()

		ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
		defer stop()

		skip := append([]string{"build", "target", "out", "node_modules"}, s.cfg.Project.Exclude...)
		w, err := watch.NewWatcher(s.root, 300*time.Millisecond, s.parser.Handles, s.logger, skip...)
		if err != nil {
			log.Fatalf("Failed to watch %s: %v", s.root, err)
		}
		defer w.Close()

		batches := make(chan []watch.ChangeEvent)
		go func() {
			if err := w.Run(ctx, batches); err != nil && ctx.Err() == nil {
				log.Printf("⚠️ Watcher stopped: %v", err)
			}
			stop()
		}()

		pl := s.pipeline()
		fmt.Printf("👀 Watching %s (Ctrl-C to stop)\n", s.root)
		for {
			select {
			case <-ctx.Done():
				return
			case batch := <-batches:
				var changed, removed []string
				for _, ev := range batch {
					rel, err := filepath.Rel(s.root, ev.Path)
					if err != nil {
						continue
					}
					if ev.Removed() {
						removed = append(removed, filepath.ToSlash(rel))
					} else {
						changed = append(changed, filepath.ToSlash(rel))
					}
				}
				if s.store != nil && len(removed) > 0 {
					if err := s.store.DeleteRuns(ctx, removed); err != nil {
						s.logger.Warn("failed to forget removed files", "error", err)
					}
				}
				if len(changed) == 0 {
					continue
				}
				fmt.Printf("📝 %s\n", strings.Join(changed, ", "))

				sources := s.collect()
				for _, rec := range recs {
					r, err := pl.RunPaths(ctx, sources, changed, rec)
					if err != nil {
						s.logger.Warn("run failed", "recipe", rec.Descriptor().Name, "error", err)
						break
					}
					if err := report.Write(cmd.OutOrStdout(), r, report.Options{Format: report.FormatText}); err != nil {
						log.Fatalf("Failed to write report: %v", err)
					}
					s.writeBack(sources, r)
				}
			}
		}
	},
}
