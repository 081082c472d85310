package ast

import (
	"encoding/json"
	"strings"
	"sync"
)

// Tree owns a root node and the mnemonic dictionary used while building it.
// The dictionary is private to each tree and built once in NewTree.
type Tree struct {
	mu         sync.RWMutex
	root       *RootNode
	dictionary map[string]InstructionKind
}

// NewTree creates a tree with an empty root.
func NewTree() *Tree {
	t := &Tree{
		root:       NewRootNode(),
		dictionary: make(map[string]InstructionKind, NumInstructionKinds),
	}
	for kind := InstructionKind(0); kind < InstructionNone; kind++ {
		t.dictionary[mnemonics[kind]] = kind
	}
	return t
}

// Root returns the root node.
func (t *Tree) Root() *RootNode {
	t.mu.RLock()
	defer t.mu.RUnlock()
	return t.root
}

// InstructionKind looks up mnemonic text. Unknown text maps to InstructionNone;
// rejecting it is left to semantic analysis.
func (t *Tree) InstructionKind(text string) InstructionKind {
	t.mu.RLock()
	defer t.mu.RUnlock()
	if kind, ok := t.dictionary[strings.ToLower(text)]; ok {
		return kind
	}
	return InstructionNone
}

// Structured returns the structured form of the whole tree.
func (t *Tree) Structured() *Structured {
	return t.Root().Structured()
}

// MarshalJSON renders the structured form of the tree.
func (t *Tree) MarshalJSON() ([]byte, error) {
	return json.Marshal(t.Structured())
}
