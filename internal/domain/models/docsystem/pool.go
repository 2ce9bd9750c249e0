package docsystem

import (
	"encoding/json"
	"fmt"
	"slices"
	"strings"

	"reportdesk/internal/domain"
)

// DocumentPool is an arena of DocumentNodes addressed by id.
//
// Insert and Remove keep a folder's Children list and its children's
// ParentID in sync; callers never touch Children directly.
// A pool is not safe for concurrent mutation. Use Clone to take a snapshot.
type DocumentPool struct {
	nodes []*DocumentNode
	index map[string]int
}

// NewDocumentPool builds a pool from a collaborator-supplied flat list.
// Nodes are copied; the input slice is not retained.
func NewDocumentPool(nodes []*DocumentNode) *DocumentPool {
	p := &DocumentPool{
		nodes: make([]*DocumentNode, 0, len(nodes)),
		index: make(map[string]int, len(nodes)),
	}
	for _, n := range nodes {
		if n == nil {
			continue
		}
		if _, dup := p.index[n.ID]; dup {
			continue
		}
		p.index[n.ID] = len(p.nodes)
		p.nodes = append(p.nodes, n.Clone())
	}
	return p
}

// Len returns the number of nodes in the pool
func (p *DocumentPool) Len() int {
	if p == nil {
		return 0
	}
	return len(p.nodes)
}

// Get returns the node with the given id, or nil.
// The returned node belongs to the pool and must not be mutated.
func (p *DocumentPool) Get(id string) *DocumentNode {
	if p == nil {
		return nil
	}
	i, ok := p.index[id]
	if !ok {
		return nil
	}
	return p.nodes[i]
}

// Nodes returns the pool's nodes in insertion order
func (p *DocumentPool) Nodes() []*DocumentNode {
	if p == nil {
		return nil
	}
	return slices.Clone(p.nodes)
}

// Roots returns the nodes without a parent, in insertion order
func (p *DocumentPool) Roots() []*DocumentNode {
	var roots []*DocumentNode
	for _, n := range p.Nodes() {
		if n.IsRoot() {
			roots = append(roots, n)
		}
	}
	return roots
}

// Clone returns a deep copy of the pool
func (p *DocumentPool) Clone() *DocumentPool {
	if p == nil {
		return NewDocumentPool(nil)
	}
	return NewDocumentPool(p.nodes)
}

// Insert adds node under parentID (nil = root level).
func (p *DocumentPool) Insert(node *DocumentNode, parentID *string) error {
	if node == nil || node.ID == "" {
		return fmt.Errorf("%w: node id is required", domain.ErrValidation)
	}
	if _, exists := p.index[node.ID]; exists {
		return &domain.ConflictError{
			Message:      fmt.Sprintf("document %s already exists in pool", node.ID),
			ResourceType: "document",
			ResourceID:   node.ID,
		}
	}

	var parent *DocumentNode
	if parentID != nil && *parentID != "" {
		parent = p.Get(*parentID)
		if parent == nil {
			return fmt.Errorf("document %s: %w", *parentID, domain.ErrParentNotFound)
		}
		if !parent.IsFolder() {
			return fmt.Errorf("document %s: %w", *parentID, domain.ErrNotAFolder)
		}
	}

	stored := node.Clone()
	stored.ParentID = nil
	if stored.IsFolder() {
		// Children are only ever attached through Insert
		stored.Children = []string{}
	} else {
		stored.Children = nil
	}
	if parent != nil {
		id := parent.ID
		stored.ParentID = &id
		parent.Children = append(parent.Children, stored.ID)
	}

	p.index[stored.ID] = len(p.nodes)
	p.nodes = append(p.nodes, stored)
	return nil
}

// Remove deletes the node and, for folders, its entire subtree.
// Returns false when the id is not in the pool.
func (p *DocumentPool) Remove(id string) bool {
	node := p.Get(id)
	if node == nil {
		return false
	}

	doomed := map[string]bool{}
	p.collectSubtree(node, doomed)

	if !node.IsRoot() {
		if parent := p.Get(*node.ParentID); parent != nil {
			parent.Children = slices.DeleteFunc(parent.Children, func(c string) bool { return c == id })
		}
	}

	p.nodes = slices.DeleteFunc(p.nodes, func(n *DocumentNode) bool { return doomed[n.ID] })
	p.reindex()
	return true
}

// Rename trims name and sets it on the node, returning the previous name.
// A blank name leaves the pool unchanged.
func (p *DocumentPool) Rename(id, name string) (string, error) {
	name = strings.TrimSpace(name)
	if name == "" {
		return "", domain.ErrEmptyName
	}
	node := p.Get(id)
	if node == nil {
		return "", fmt.Errorf("document %s: %w", id, domain.ErrNotFound)
	}
	old := node.Name
	node.Name = name
	return old, nil
}

// Update applies fn to the stored node. fn must not change ID, ParentID or Children.
func (p *DocumentPool) Update(id string, fn func(n *DocumentNode)) error {
	node := p.Get(id)
	if node == nil {
		return fmt.Errorf("document %s: %w", id, domain.ErrNotFound)
	}
	parentID, children := node.ParentID, node.Children
	fn(node)
	node.ID, node.ParentID, node.Children = id, parentID, children
	return nil
}

// Validate checks the bidirectional parent/children invariant
func (p *DocumentPool) Validate() error {
	for _, n := range p.nodes {
		if !n.IsRoot() {
			parent := p.Get(*n.ParentID)
			if parent == nil {
				return fmt.Errorf("document %s: parent %s: %w", n.ID, *n.ParentID, domain.ErrParentNotFound)
			}
			if !parent.IsFolder() {
				return fmt.Errorf("document %s: parent %s: %w", n.ID, parent.ID, domain.ErrNotAFolder)
			}
			if !slices.Contains(parent.Children, n.ID) {
				return fmt.Errorf("%w: folder %s does not list child %s", domain.ErrValidation, parent.ID, n.ID)
			}
		}
		for _, childID := range n.Children {
			child := p.Get(childID)
			if child == nil || child.IsRoot() || *child.ParentID != n.ID {
				return fmt.Errorf("%w: folder %s lists %s which does not point back", domain.ErrValidation, n.ID, childID)
			}
		}
	}
	return nil
}

// MarshalJSON encodes the pool as its flat node list
func (p *DocumentPool) MarshalJSON() ([]byte, error) {
	nodes := p.Nodes()
	if nodes == nil {
		nodes = []*DocumentNode{}
	}
	return json.Marshal(nodes)
}

// UnmarshalJSON decodes a flat node list
func (p *DocumentPool) UnmarshalJSON(data []byte) error {
	var nodes []*DocumentNode
	if err := json.Unmarshal(data, &nodes); err != nil {
		return err
	}
	*p = *NewDocumentPool(nodes)
	return nil
}

func (p *DocumentPool) collectSubtree(node *DocumentNode, into map[string]bool) {
	if into[node.ID] {
		return
	}
	into[node.ID] = true
	for _, childID := range node.Children {
		if child := p.Get(childID); child != nil {
			p.collectSubtree(child, into)
		}
	}
}

func (p *DocumentPool) reindex() {
	p.index = make(map[string]int, len(p.nodes))
	for i, n := range p.nodes {
		p.index[n.ID] = i
	}
}
