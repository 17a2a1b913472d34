// Package persona holds the system prompt steering the answer backend.
// The prompt can come from a file and is reloaded while the server runs.
package persona

import (
	"context"
	"fmt"
	"log"
	"os"
	"path/filepath"
	"strings"
	"sync"

	"github.com/fsnotify/fsnotify"
)

// DefaultPrompt keeps answers speakable when no persona file is configured.
const DefaultPrompt = "You are a helpful voice assistant. Your answers are read aloud, " +
	"so keep them short and conversational. Use two or three sentences unless the " +
	"question really needs more. Never use markdown, bullet lists, code, or URLs in " +
	"a reply. When a question is ambiguous, briefly give the most likely answer."

type Persona struct {
	mu     sync.RWMutex
	prompt string
	path   string
}

// New returns a persona backed by the given file, or the built-in default
// when path is empty.
func New(path string) (*Persona, error) {
	p := &Persona{prompt: DefaultPrompt, path: path}
	if path == "" {
		return p, nil
	}
	if err := p.reload(); err != nil {
		return nil, fmt.Errorf("failed to load persona file: %w", err)
	}
	return p, nil
}

// Prompt returns the current system prompt.
func (p *Persona) Prompt() string {
	p.mu.RLock()
	defer p.mu.RUnlock()
	return p.prompt
}

func (p *Persona) reload() error {
	data, err := os.ReadFile(p.path)
	if err != nil {
		return err
	}
	text := strings.TrimSpace(string(data))
	if text == "" {
		text = DefaultPrompt
	}
	p.mu.Lock()
	p.prompt = text
	p.mu.Unlock()
	return nil
}

// Watch reloads the prompt whenever the persona file changes on disk. The
// parent directory is watched because most editors replace the file on
// save. Watch returns immediately when no file is configured.
func (p *Persona) Watch(ctx context.Context) error {
	if p.path == "" {
		return nil
	}
	watcher, err := fsnotify.NewWatcher()
	if err != nil {
		return fmt.Errorf("failed to create persona watcher: %w", err)
	}
	if err := watcher.Add(filepath.Dir(p.path)); err != nil {
		watcher.Close()
		return fmt.Errorf("failed to watch persona directory: %w", err)
	}

	go func() {
		defer watcher.Close()
		for {
			select {
			case <-ctx.Done():
				return
			case event, ok := <-watcher.Events:
				if !ok {
					return
				}
				if filepath.Clean(event.Name) != filepath.Clean(p.path) {
					continue
				}
				if !event.Has(fsnotify.Write) && !event.Has(fsnotify.Create) {
					continue
				}
				if err := p.reload(); err != nil {
					log.Printf("Failed to reload persona: %v", err)
					continue
				}
				log.Printf("Persona reloaded from %s", p.path)
			case err, ok := <-watcher.Errors:
				if !ok {
					return
				}
				log.Printf("Persona watcher error: %v", err)
			}
		}
	}()
	return nil
}
