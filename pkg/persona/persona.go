// Package persona defines the seven agent personas as declarative flow
// configurations fed to the generic dialogue engine. Each persona is
// data: modes, stage order, slot schema, keyword tables, prompts and
// content seeds. There is no per-persona state machine code.
package persona

import (
	"fmt"
	"path/filepath"
	"sort"

	"github.com/Harshal4257/ten-days-of-voice-agents-2025/internal/log"
	"github.com/Harshal4257/ten-days-of-voice-agents-2025/pkg/content"
	"github.com/Harshal4257/ten-days-of-voice-agents-2025/pkg/dialogue"
	"github.com/Harshal4257/ten-days-of-voice-agents-2025/pkg/store"
)

// Persona bundles one agent's flow definition with its content and
// record requirements.
type Persona struct {
	// Name is the persona's registry key ("tutor", "grocery").
	Name string

	// ContentFile is the content store file inside the data directory,
	// "" when the persona has no lookup content.
	ContentFile string

	// ContentSeed is written to ContentFile when it does not exist.
	ContentSeed []content.Entry

	// Records declares the persona's durable record kinds.
	Records []store.KindSpec

	// RecordSeed pre-populates empty collections, keyed by kind. Used
	// by the fraud persona so there is a case to verify.
	RecordSeed map[string][]map[string]any

	// Build constructs the flow definition. The content store handle
	// is shared immutably by all sessions.
	Build func(cs *content.Store) *dialogue.Flow
}

// Bootstrap loads the persona's content, opens its record collections
// under dataDir, and returns a ready engine.
func (p Persona) Bootstrap(dataDir string) (*dialogue.Engine, *store.Registry, error) {
	var cs *content.Store
	if p.ContentFile != "" {
		loaded, err := content.LoadOrSeed(filepath.Join(dataDir, p.ContentFile), p.ContentSeed)
		if err != nil {
			return nil, nil, fmt.Errorf("persona %s: %w", p.Name, err)
		}
		cs = loaded
	}

	records, err := store.OpenAll(dataDir, p.Records)
	if err != nil {
		return nil, nil, fmt.Errorf("persona %s: %w", p.Name, err)
	}

	for kind, seeds := range p.RecordSeed {
		if len(records.List(kind)) > 0 {
			continue
		}
		for _, fields := range seeds {
			if _, err := records.Create(kind, fields); err != nil {
				log.Warn("record seed failed", "persona", p.Name, "kind", kind, "error", err)
			}
		}
	}

	engine, err := dialogue.New(p.Build(cs), cs, records)
	if err != nil {
		return nil, nil, fmt.Errorf("persona %s: %w", p.Name, err)
	}
	return engine, records, nil
}

var registry = map[string]Persona{}

func register(p Persona) {
	registry[p.Name] = p
}

// Get returns a persona by name.
func Get(name string) (Persona, bool) {
	p, ok := registry[name]
	return p, ok
}

// Names returns the registered persona names, sorted.
func Names() []string {
	names := make([]string, 0, len(registry))
	for name := range registry {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}
