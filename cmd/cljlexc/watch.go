package main

import (
	"flag"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/fsnotify/fsnotify"

	"github.com/clojutil/cljlex/document"
)

func newWatchCommand() *Command {
	watchCmd := &Command{
		Name:        "watch",
		Description: "Watch files and retokenize incrementally on change",
		FlagSet:     flag.NewFlagSet("watch", flag.ExitOnError),
	}

	watchCmd.Run = func() error {
		cfg, err := loadConfig(*configPath)
		if err != nil {
			return err
		}
		paths := watchCmd.FlagSet.Args()
		if len(paths) < 1 {
			return fmt.Errorf("no paths to watch specified")
		}

		watcher, err := fsnotify.NewWatcher()
		if err != nil {
			return fmt.Errorf("creating watcher: %w", err)
		}
		defer watcher.Close()

		registry := document.NewRegistry(cfg.Lexer.MaxLineLength)
		open := make(map[string]*document.Document)

		for _, p := range paths {
			info, err := os.Stat(p)
			if err != nil {
				return fmt.Errorf("stat %s: %w", p, err)
			}
			if err := watcher.Add(p); err != nil {
				return fmt.Errorf("watching %s: %w", p, err)
			}
			if info.IsDir() {
				continue
			}
			doc, err := openDocument(registry, p)
			if err != nil {
				return err
			}
			open[p] = doc
			fmt.Printf("opened %s (%d lines)\n", p, doc.LineCount())
		}

		// Editors write in bursts; fold events within the debounce window
		// into one rescan per file.
		pendingWrites := make(map[string]struct{})
		debounce := time.NewTimer(cfg.debounce())
		debounce.Stop()

		for {
			select {
			case ev, ok := <-watcher.Events:
				if !ok {
					return nil
				}
				if ev.Op&(fsnotify.Write|fsnotify.Create) == 0 {
					continue
				}
				if !cfg.Watch.matches(ev.Name) {
					continue
				}
				pendingWrites[ev.Name] = struct{}{}
				debounce.Reset(cfg.debounce())

			case err, ok := <-watcher.Errors:
				if !ok {
					return nil
				}
				fmt.Fprintf(os.Stderr, "watch error: %v\n", err)

			case <-debounce.C:
				for path := range pendingWrites {
					delete(pendingWrites, path)
					if err := resync(registry, open, path); err != nil {
						fmt.Fprintf(os.Stderr, "%s: %v\n", path, err)
					}
				}
			}
		}
	}

	return watchCmd
}

func openDocument(registry *document.Registry, path string) (*document.Document, error) {
	content, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading %s: %w", path, err)
	}
	return registry.Open(string(content)), nil
}

func resync(registry *document.Registry, open map[string]*document.Document, path string) error {
	content, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("rereading: %w", err)
	}

	doc, ok := open[filepath.Clean(path)]
	if !ok {
		doc, ok = open[path]
	}
	if !ok {
		doc = registry.Open(string(content))
		open[path] = doc
		fmt.Printf("%s: opened, %d lines tokenized\n", path, doc.LineCount())
		return nil
	}

	start := time.Now()
	n := doc.Sync(string(content))
	fmt.Printf("%s: %d of %d lines retokenized in %s\n", path, n, doc.LineCount(), time.Since(start).Round(time.Microsecond))
	return nil
}
