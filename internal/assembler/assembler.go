// Package assembler orchestrates the registry, file enumerators, and the
// repo-map synthesizer into an ordered stream of context items.
package assembler

import (
	"context"
	"fmt"
	"strings"

	"github.com/tokenring-ai/codebase/internal/logging"
	"github.com/tokenring-ai/codebase/internal/repomap"
	"github.com/tokenring-ai/codebase/internal/resource"
	"github.com/tokenring-ai/codebase/internal/session"
)

// RoleUser tags every emitted item; the consuming agent treats context as
// user-provided input.
const RoleUser = "user"

// TreeHeader introduces the directory-listing item.
const TreeHeader = "Here is a list of files in the project:\n"

// Item is one unit of context text handed to the consuming agent.
type Item struct {
	Role    string
	Content string
}

// Assembler builds context-item streams for sessions.
type Assembler struct {
	registry *resource.Registry
	accessor resource.ContentAccessor
	synth    *repomap.Synthesizer
}

// New creates an assembler. Pass a nil synthesizer to use the default
// tree-sitter backed one.
func New(registry *resource.Registry, accessor resource.ContentAccessor, synth *repomap.Synthesizer) *Assembler {
	if synth == nil {
		synth = repomap.NewSynthesizer(nil)
	}
	return &Assembler{registry: registry, accessor: accessor, synth: synth}
}

// Stream phases, in fixed emission order.
const (
	phaseTree = iota
	phaseRepoMap
	phaseWholeFiles
	phaseDone
)

// Stream is a pull-based lazy sequence of context items. The caller may stop
// pulling after any item; no background work occurs once pulling stops, and
// no cleanup is required beyond what each phase guarantees internally.
//
// A Stream holds no state between Assemble calls; assembling twice with the
// same enabled set and file system state yields the same items.
type Stream struct {
	ctx       context.Context
	assembler *Assembler
	enabled   []resource.Resource

	phase     int
	wholeList []string
	wholeIdx  int
	err       error
}

// Assemble returns a lazy stream over the session's enabled resources.
// Nothing is enumerated until the first Next call.
func (a *Assembler) Assemble(ctx context.Context, sess *session.Session) *Stream {
	enabled := a.registry.GetEnabledResources(sess)
	logging.Assembly("Assembling context for session %s: %d enabled resource(s)", sess.ID(), len(enabled))
	return &Stream{
		ctx:       ctx,
		assembler: a,
		enabled:   enabled,
	}
}

// Next returns the next context item. ok=false means the stream is
// exhausted. Once an error is returned the stream is dead: enumeration
// failures in the tree phase and read failures in the whole-file phase
// abort the remainder of the assembly.
func (s *Stream) Next() (Item, bool, error) {
	if s.err != nil {
		return Item{}, false, s.err
	}

	for s.phase != phaseDone {
		switch s.phase {
		case phaseTree:
			s.phase = phaseRepoMap
			item, ok, err := s.treeItem()
			if err != nil {
				s.err = err
				s.phase = phaseDone
				return Item{}, false, err
			}
			if ok {
				return item, true, nil
			}

		case phaseRepoMap:
			s.phase = phaseWholeFiles
			item, ok, err := s.repoMapItem()
			if err != nil {
				s.err = err
				s.phase = phaseDone
				return Item{}, false, err
			}
			if ok {
				return item, true, nil
			}

		case phaseWholeFiles:
			if s.wholeList == nil {
				files, err := s.unionFiles(func(k resource.Kind) bool { return k == resource.KindWholeFile })
				if err != nil {
					s.err = err
					s.phase = phaseDone
					return Item{}, false, err
				}
				// Sorted for deterministic emission regardless of
				// resource registration order.
				s.wholeList = files.Sorted()
			}
			if s.wholeIdx >= len(s.wholeList) {
				s.phase = phaseDone
				break
			}
			path := s.wholeList[s.wholeIdx]
			s.wholeIdx++
			content, err := s.assembler.accessor.GetFile(s.ctx, path)
			if err != nil {
				// Whole-file inclusion requires reliable reads; a failure
				// kills the rest of the stream.
				s.err = fmt.Errorf("reading %s: %w", path, err)
				s.phase = phaseDone
				return Item{}, false, s.err
			}
			logging.AssemblyDebug("Emitting whole file %s (%d bytes)", path, len(content))
			return Item{Role: RoleUser, Content: path + "\n" + content}, true, nil
		}
	}

	return Item{}, false, nil
}

// Collect drains the stream into a slice. Convenience for callers that want
// the whole context at once.
func (s *Stream) Collect() ([]Item, error) {
	var items []Item
	for {
		item, ok, err := s.Next()
		if err != nil {
			return items, err
		}
		if !ok {
			return items, nil
		}
		items = append(items, item)
	}
}

// unionFiles enumerates every enabled resource selected by the kind filter
// into one set. Enumeration errors propagate.
func (s *Stream) unionFiles(match func(resource.Kind) bool) (*resource.FileSet, error) {
	files := resource.NewFileSet()
	for _, res := range s.enabled {
		if !match(res.Kind) {
			continue
		}
		if err := res.Enumerator.AddFilesToSet(s.ctx, files); err != nil {
			return nil, fmt.Errorf("enumerating resource %q: %w", res.Name, err)
		}
	}
	return files, nil
}

// treeItem builds the directory-listing item from every enabled resource
// that is neither a repo-map nor a whole-file resource.
func (s *Stream) treeItem() (Item, bool, error) {
	files, err := s.unionFiles(func(k resource.Kind) bool {
		return k != resource.KindRepoMap && k != resource.KindWholeFile
	})
	if err != nil {
		return Item{}, false, err
	}
	if files.Len() == 0 {
		return Item{}, false, nil
	}

	logging.AssemblyDebug("Tree phase: %d file(s)", files.Len())
	return Item{
		Role:    RoleUser,
		Content: TreeHeader + strings.Join(files.Sorted(), "\n"),
	}, true, nil
}

// repoMapItem builds the symbol-map item from every enabled repo-map
// resource, or ok=false when there is nothing to show.
func (s *Stream) repoMapItem() (Item, bool, error) {
	files, err := s.unionFiles(func(k resource.Kind) bool { return k == resource.KindRepoMap })
	if err != nil {
		return Item{}, false, err
	}
	if files.Len() == 0 {
		return Item{}, false, nil
	}

	text, present := s.assembler.synth.Generate(s.ctx, files, s.assembler.accessor)
	if !present {
		return Item{}, false, nil
	}
	logging.AssemblyDebug("Repo-map phase: %d byte(s)", len(text))
	return Item{Role: RoleUser, Content: text}, true, nil
}
